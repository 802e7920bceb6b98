package kgcn

import "errors"

// Sentinel errors for common pipeline error conditions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrInvalidConfig indicates the provided configuration is invalid or
	// incomplete.
	ErrInvalidConfig = errors.New("kgcn: invalid configuration")

	// ErrNoThings indicates Embed was called with no root things.
	ErrNoThings = errors.New("kgcn: no things to embed")

	// ErrNilFinder indicates the pipeline was constructed without a
	// neighbour finder.
	ErrNilFinder = errors.New("kgcn: nil neighbour finder")

	// ErrNilTaxonomy indicates the pipeline was constructed without a
	// type taxonomy.
	ErrNilTaxonomy = errors.New("kgcn: nil taxonomy")
)
