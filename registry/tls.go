package registry

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// tlsInfo holds certificate paths for building a tls.Config without
// depending on etcd's transport package.
type tlsInfo struct {
	CertFile string
	KeyFile  string
	CAFile   string
}

// newTLSInfo validates a TLSConfig and returns the certificate paths.
func newTLSInfo(cfg *TLSConfig) (*tlsInfo, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	switch {
	case cfg.CertFile == "":
		return nil, fmt.Errorf("TLS cert file is required when TLS is enabled")
	case cfg.KeyFile == "":
		return nil, fmt.Errorf("TLS key file is required when TLS is enabled")
	case cfg.CAFile == "":
		return nil, fmt.Errorf("TLS CA file is required when TLS is enabled")
	}

	return &tlsInfo{
		CertFile: cfg.CertFile,
		KeyFile:  cfg.KeyFile,
		CAFile:   cfg.CAFile,
	}, nil
}

// ClientConfig builds a mutual-TLS tls.Config for the etcd connection.
func (info *tlsInfo) ClientConfig() (*tls.Config, error) {
	if info == nil {
		return nil, nil
	}

	cert, err := tls.LoadX509KeyPair(info.CertFile, info.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load client certificate: %w", err)
	}

	caData, err := os.ReadFile(info.CAFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA certificate: %w", err)
	}

	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caData) {
		return nil, fmt.Errorf("failed to parse CA certificate")
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      caPool,
		MinVersion:   tls.VersionTLS12,
	}, nil
}
