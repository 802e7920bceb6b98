package graph

import "errors"

// Sentinel errors for graph-store interactions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrThingNotFound is returned by a NeighbourFinder when the requested
	// thing id does not exist in the transaction's snapshot.
	ErrThingNotFound = errors.New("graph: thing not found")

	// ErrTransactionClosed is returned when a lookup is attempted against a
	// transaction that has already been closed. Closing the transaction is
	// also how callers cancel an in-flight traversal: the next Find fails
	// with this error and the failure propagates out of the build.
	ErrTransactionClosed = errors.New("graph: transaction closed")

	// ErrInvalidThing is returned when a Thing fails validation, for example
	// an attribute constructed without a value type.
	ErrInvalidThing = errors.New("graph: invalid thing")

	// ErrInvalidConnection is returned when a Connection fails validation.
	ErrInvalidConnection = errors.New("graph: invalid connection")
)
