package graph

import "context"

// Transaction is an opaque handle on a graph-store read snapshot.
//
// A traversal is built entirely within one transaction so that every lookup
// sees the same snapshot. Transactions are single-reader: concurrent builds
// must each own their own transaction. Closing the transaction cancels any
// in-flight traversal by failing subsequent lookups with
// ErrTransactionClosed.
type Transaction interface {
	// ID returns a store-local identifier for the transaction, used in logs
	// and trace attributes.
	ID() string

	// Close releases the snapshot. Close is idempotent.
	Close() error
}

// NeighbourFinder looks up every connection incident to a thing within a
// transaction's snapshot.
//
// Find is the single store-facing operation the traversal performs. The
// returned stream may be lazy and is always single-pass; implementations are
// free to keep a live cursor open until the stream is drained. Find returns
// ErrThingNotFound when the id does not exist in the snapshot and
// ErrTransactionClosed when the transaction has been closed.
type NeighbourFinder interface {
	Find(ctx context.Context, tx Transaction, thingID string) (Connections, error)
}

// Connections is a single-pass stream of connections.
//
// Usage follows the database/sql.Rows shape:
//
//	conns, err := finder.Find(ctx, tx, id)
//	if err != nil {
//	    return err
//	}
//	for conns.Next() {
//	    c := conns.Connection()
//	    // ...
//	}
//	if err := conns.Err(); err != nil {
//	    return err
//	}
//
// Callers must not assume the stream supports rewinding or random access.
type Connections interface {
	// Next advances the stream. It returns false when the stream is
	// exhausted or a store error occurred; distinguish via Err.
	Next() bool

	// Connection returns the current connection. Only valid after a call to
	// Next that returned true.
	Connection() Connection

	// Err returns the first error encountered while streaming, or nil if
	// the stream ended cleanly.
	Err() error
}

// sliceConnections adapts an in-memory slice to the Connections interface.
type sliceConnections struct {
	conns []Connection
	pos   int
}

// SliceConnections wraps a slice of connections in a single-pass stream.
// Useful for in-memory stores and tests.
func SliceConnections(conns []Connection) Connections {
	return &sliceConnections{conns: conns, pos: -1}
}

func (s *sliceConnections) Next() bool {
	if s.pos+1 >= len(s.conns) {
		return false
	}
	s.pos++
	return true
}

func (s *sliceConnections) Connection() Connection { return s.conns[s.pos] }

func (s *sliceConnections) Err() error { return nil }

// FinderFunc adapts a function to the NeighbourFinder interface.
type FinderFunc func(ctx context.Context, tx Transaction, thingID string) (Connections, error)

// Find calls f.
func (f FinderFunc) Find(ctx context.Context, tx Transaction, thingID string) (Connections, error) {
	return f(ctx, tx, thingID)
}
