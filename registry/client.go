package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// Client implements Registry against an etcd cluster.
//
// The client handles lease management automatically, renewing each
// registered instance's lease every TTL/3 to maintain presence.
//
// Example usage:
//
//	cfg := registry.NewConfig()
//	cfg.Endpoints = []string{"localhost:2379"}
//	client, err := registry.NewClient(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
// Thread-safety: all methods are safe for concurrent use.
type Client struct {
	client    *clientv3.Client
	namespace string
	ttl       int

	mu         sync.RWMutex
	leases     map[string]clientv3.LeaseID // keyed by instance ID
	cancelFns  map[string]context.CancelFunc
	wg         sync.WaitGroup
	closed     bool
	closedChan chan struct{}
}

// NewClient connects to etcd and verifies connectivity before returning.
// The client must be closed with Close to release resources and stop
// keepalive goroutines.
func NewClient(cfg Config) (*Client, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, ErrNoEndpoints
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "kgcn"
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30
	}

	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	clientCfg := clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: dialTimeout,
	}

	if cfg.TLS != nil && cfg.TLS.Enabled {
		tlsInfo, err := newTLSInfo(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
		tlsConfig, err := tlsInfo.ClientConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
		clientCfg.TLS = tlsConfig
	}

	cli, err := clientv3.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}

	// Quick read to verify the cluster is reachable.
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err = cli.Get(ctx, "health-check")
	if err != nil && err != context.DeadlineExceeded {
		cli.Close()
		return nil, fmt.Errorf("etcd health check failed: %w", err)
	}

	return &Client{
		client:     cli,
		namespace:  namespace,
		ttl:        ttl,
		leases:     make(map[string]clientv3.LeaseID),
		cancelFns:  make(map[string]context.CancelFunc),
		closedChan: make(chan struct{}),
	}, nil
}

// NewClientFromEnv creates a registry client from the KGCN_REGISTRY_ENDPOINTS
// environment variable, a comma-separated list of etcd endpoints.
//
// If the variable is not set, this returns (nil, nil): the pipeline still
// works, it just cannot discover remote stores. That is not an error.
func NewClientFromEnv() (*Client, error) {
	endpoints := os.Getenv("KGCN_REGISTRY_ENDPOINTS")
	if endpoints == "" {
		return nil, nil
	}

	endpointList := strings.Split(endpoints, ",")
	for i, ep := range endpointList {
		endpointList[i] = strings.TrimSpace(ep)
	}

	cfg := NewConfig()
	cfg.Endpoints = endpointList
	return NewClient(cfg)
}

// Register adds a store instance to the registry.
//
// The instance is discoverable immediately and remains registered while its
// lease is renewed. A background goroutine renews the lease every TTL/3.
// Re-registering the same InstanceID replaces the entry and restarts the
// keepalive.
func (c *Client) Register(ctx context.Context, info StoreInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	// Cancel the existing keepalive if re-registering.
	if cancelFn, exists := c.cancelFns[info.InstanceID]; exists {
		cancelFn()
		delete(c.cancelFns, info.InstanceID)
	}

	leaseResp, err := c.client.Grant(ctx, int64(c.ttl))
	if err != nil {
		return fmt.Errorf("failed to create lease: %w", err)
	}

	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal store info: %w", err)
	}

	key := c.buildKey(info.Keyspace, info.InstanceID)

	_, err = c.client.Put(ctx, key, string(data), clientv3.WithLease(leaseResp.ID))
	if err != nil {
		return fmt.Errorf("failed to register store: %w", err)
	}

	c.leases[info.InstanceID] = leaseResp.ID

	keepaliveCtx, cancel := context.WithCancel(context.Background())
	c.cancelFns[info.InstanceID] = cancel

	c.wg.Add(1)
	go c.keepalive(keepaliveCtx, leaseResp.ID, info.InstanceID)

	return nil
}

// Deregister removes a store instance by revoking its lease, which deletes
// the entry. Deregistering an unknown instance is a no-op.
func (c *Client) Deregister(ctx context.Context, info StoreInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	if cancelFn, exists := c.cancelFns[info.InstanceID]; exists {
		cancelFn()
		delete(c.cancelFns, info.InstanceID)
	}

	leaseID, exists := c.leases[info.InstanceID]
	if !exists {
		return nil
	}

	_, err := c.client.Revoke(ctx, leaseID)
	if err != nil {
		return fmt.Errorf("failed to revoke lease: %w", err)
	}

	delete(c.leases, info.InstanceID)

	return nil
}

// Discover returns all live store instances serving the given keyspace.
// Entries that fail to decode are skipped.
func (c *Client) Discover(ctx context.Context, keyspace string) ([]StoreInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, ErrClosed
	}

	prefix := fmt.Sprintf("/%s/stores/%s/", c.namespace, keyspace)

	resp, err := c.client.Get(ctx, prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("failed to discover stores: %w", err)
	}

	instances := make([]StoreInfo, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var info StoreInfo
		if err := json.Unmarshal(kv.Value, &info); err != nil {
			continue
		}
		instances = append(instances, info)
	}

	return instances, nil
}

// Watch returns a channel that receives the instance list for a keyspace
// whenever a store registers, deregisters, or its lease expires. The current
// state is sent immediately. The channel is closed when ctx is cancelled or
// the client is closed.
func (c *Client) Watch(ctx context.Context, keyspace string) (<-chan []StoreInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, ErrClosed
	}

	ch := make(chan []StoreInfo, 1)

	instances, err := c.Discover(ctx, keyspace)
	if err != nil {
		return nil, err
	}
	ch <- instances

	prefix := fmt.Sprintf("/%s/stores/%s/", c.namespace, keyspace)
	watchChan := c.client.Watch(ctx, prefix, clientv3.WithPrefix())

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(ch)

		for {
			select {
			case <-ctx.Done():
				return
			case <-c.closedChan:
				return
			case watchResp, ok := <-watchChan:
				if !ok {
					return
				}
				if watchResp.Err() != nil {
					return
				}

				// Re-query the full state after any change.
				instances, err := c.Discover(context.Background(), keyspace)
				if err != nil {
					continue
				}

				select {
				case ch <- instances:
				case <-ctx.Done():
					return
				case <-c.closedChan:
					return
				}
			}
		}
	}()

	return ch, nil
}

// Close stops all keepalives and watches and closes the etcd connection.
// After Close, all other methods return ErrClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true

	for _, cancel := range c.cancelFns {
		cancel()
	}
	c.cancelFns = make(map[string]context.CancelFunc)

	close(c.closedChan)
	c.mu.Unlock()

	c.wg.Wait()

	return c.client.Close()
}

// keepalive renews the lease every TTL/3 to maintain presence. It stops when
// the context is cancelled, the client is closed, or the lease becomes
// invalid.
func (c *Client) keepalive(ctx context.Context, leaseID clientv3.LeaseID, instanceID string) {
	defer c.wg.Done()

	interval := time.Duration(c.ttl) * time.Second / 3
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.closedChan:
			return
		case <-ticker.C:
			_, err := c.client.KeepAliveOnce(context.Background(), leaseID)
			if err != nil {
				c.mu.Lock()
				delete(c.leases, instanceID)
				delete(c.cancelFns, instanceID)
				c.mu.Unlock()
				return
			}
		}
	}
}

// buildKey constructs the etcd key for a store instance.
//
// Format: /namespace/stores/keyspace/instance-id
func (c *Client) buildKey(keyspace, instanceID string) string {
	return fmt.Sprintf("/%s/stores/%s/%s", c.namespace, keyspace, instanceID)
}
