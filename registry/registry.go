// Package registry provides discovery of graph store endpoints backed by etcd.
//
// Pipelines that sample from remote graph stores need to know which store
// instances are alive and where to reach them. Each store process registers a
// StoreInfo entry on startup, maintains presence via lease keepalives, and
// deregisters on graceful shutdown. Stale entries disappear automatically when
// their lease expires, so discovery never returns crashed instances.
package registry

import (
	"context"
	"errors"
	"time"
)

// Registry errors.
var (
	// ErrClosed is returned when an operation is attempted on a closed client.
	ErrClosed = errors.New("registry: client is closed")

	// ErrNoEndpoints is returned when a client is created without etcd endpoints.
	ErrNoEndpoints = errors.New("registry: no etcd endpoints configured")
)

// StoreInfo describes a registered graph store instance.
//
// Multiple instances can serve the same keyspace, each with a unique
// InstanceID, and discovery returns all of them.
type StoreInfo struct {
	// Name is the store implementation name (e.g., "typedb", "memstore").
	Name string `json:"name"`

	// Keyspace is the graph keyspace this instance serves.
	Keyspace string `json:"keyspace"`

	// InstanceID uniquely identifies this instance (typically a UUID).
	InstanceID string `json:"instance_id"`

	// Endpoint is the network address where the store can be reached,
	// in "host:port" form.
	Endpoint string `json:"endpoint"`

	// Metadata carries store-specific attributes, such as schema version
	// or supported value types.
	Metadata map[string]string `json:"metadata"`

	// StartedAt is when this instance came up.
	StartedAt time.Time `json:"started_at"`
}

// Registry defines store registration and discovery.
//
// Implementations must be safe for concurrent use. Entries are held under
// etcd leases with a TTL so that crashed stores drop out of discovery
// without manual cleanup.
type Registry interface {
	// Register adds a store instance to the registry and starts a background
	// keepalive that renews its lease. Re-registering the same InstanceID
	// replaces the existing entry.
	Register(ctx context.Context, info StoreInfo) error

	// Deregister removes a store instance and revokes its lease. Deregistering
	// an unknown instance is a no-op.
	Deregister(ctx context.Context, info StoreInfo) error

	// Discover returns all live instances serving the given keyspace, in
	// arbitrary order. The slice may be empty.
	Discover(ctx context.Context, keyspace string) ([]StoreInfo, error)

	// Watch returns a channel that receives the full instance list for a
	// keyspace whenever it changes. The current state is sent immediately.
	// The channel is closed when ctx is cancelled or the registry is closed.
	Watch(ctx context.Context, keyspace string) (<-chan []StoreInfo, error)

	// Close stops all keepalives and watches and releases the etcd connection.
	// After Close, all other methods return ErrClosed.
	Close() error
}

// Config holds etcd connection settings for the registry client.
type Config struct {
	// Endpoints is the list of etcd endpoints, e.g. ["localhost:2379"].
	Endpoints []string `json:"endpoints"`

	// Namespace is the etcd key prefix for store entries. Entries live under
	// /{namespace}/stores/{keyspace}/{instance-id}.
	// Default: "kgcn".
	Namespace string `json:"namespace"`

	// TTL is the lease time-to-live in seconds. An instance that fails to
	// renew within this window is removed from discovery.
	// Default: 30.
	TTL int `json:"ttl"`

	// DialTimeout bounds the initial etcd connection attempt.
	// Default: 5s.
	DialTimeout time.Duration `json:"dial_timeout"`

	// TLS holds optional mutual-TLS settings for the etcd connection.
	// If nil, TLS is disabled.
	TLS *TLSConfig `json:"tls"`
}

// TLSConfig holds certificate paths for secure etcd communication.
type TLSConfig struct {
	// Enabled determines whether TLS is active. If false, the remaining
	// fields are ignored.
	Enabled bool `json:"enabled"`

	// CertFile is the path to the client certificate (PEM).
	CertFile string `json:"cert_file"`

	// KeyFile is the path to the client private key (PEM).
	KeyFile string `json:"key_file"`

	// CAFile is the path to the CA certificate used to verify the etcd
	// server (PEM).
	CAFile string `json:"ca_file"`
}

// NewConfig returns a Config with default namespace, TTL, and dial timeout.
// Endpoints must still be set by the caller.
func NewConfig() Config {
	return Config{
		Namespace:   "kgcn",
		TTL:         30,
		DialTimeout: 5 * time.Second,
	}
}
