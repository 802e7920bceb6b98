package traverse

import "errors"

// Sentinel errors for context builder construction and filtering.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrNoSamplers is returned when a builder is constructed without any
	// samplers. The sampler list fixes the traversal depth, so an empty list
	// would make every build a no-op.
	ErrNoSamplers = errors.New("traverse: at least one sampler is required")

	// ErrNilFinder is returned when a builder is constructed without a
	// neighbour finder.
	ErrNilFinder = errors.New("traverse: neighbour finder is required")

	// ErrInvalidFilter is returned when a connection filter expression fails
	// to compile, or does not evaluate to a boolean.
	ErrInvalidFilter = errors.New("traverse: invalid connection filter")

	// ErrFilterEval is returned when a compiled connection filter fails at
	// evaluation time during a build.
	ErrFilterEval = errors.New("traverse: connection filter evaluation failed")
)
