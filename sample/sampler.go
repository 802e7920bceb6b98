package sample

import (
	"errors"
	"fmt"

	"github.com/zero-day-ai/kgcn/graph"
)

// Sentinel errors for sampler configuration.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrInvalidSampleSize is returned when a sampler is constructed with a
	// sample size of zero or less.
	ErrInvalidSampleSize = errors.New("sample: sample size must be positive")

	// ErrLimitTooSmall is returned when a sampler is constructed with a
	// candidate limit smaller than its sample size. The limit bounds how far
	// the candidate stream is consumed, so it can never be allowed to starve
	// the sample.
	ErrLimitTooSmall = errors.New("sample: limit must be >= sample size")
)

// Sampler selects a bounded, ordered subset of a candidate connection stream.
//
// A Sampler is stateless and safe for concurrent use by multiple traversals,
// provided its Strategy is. One Sampler is configured per traversal depth.
type Sampler struct {
	sampleSize int
	strategy   Strategy
	limit      int
}

// New creates a Sampler that selects up to sampleSize connections after
// truncating the candidate stream to at most limit items.
//
// A nil strategy defaults to First. Configuration is validated here, never at
// sample time: sampleSize must be positive and limit must be at least
// sampleSize.
func New(sampleSize int, strategy Strategy, limit int) (*Sampler, error) {
	if sampleSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSampleSize, sampleSize)
	}
	if limit < sampleSize {
		return nil, fmt.Errorf("%w: limit %d, sample size %d", ErrLimitTooSmall, limit, sampleSize)
	}
	if strategy == nil {
		strategy = First{}
	}
	return &Sampler{sampleSize: sampleSize, strategy: strategy, limit: limit}, nil
}

// SampleSize returns the maximum number of connections a sample contains.
func (s *Sampler) SampleSize() int { return s.sampleSize }

// Limit returns the maximum number of candidates pulled from the stream.
func (s *Sampler) Limit() int { return s.limit }

// Sample pulls at most the configured limit from the candidate stream and
// applies the selection strategy.
//
// The stream is consumed single-pass and never beyond the limit, so Sample is
// safe on lazy streams backed by live store cursors over high-degree nodes.
// Fewer candidates than the sample size is not an error: all candidates are
// returned. A store error surfaced by the stream aborts the sample.
func (s *Sampler) Sample(candidates graph.Connections) ([]graph.Connection, error) {
	pulled := make([]graph.Connection, 0, s.limit)
	for len(pulled) < s.limit && candidates.Next() {
		pulled = append(pulled, candidates.Connection())
	}
	if err := candidates.Err(); err != nil {
		return nil, err
	}

	if len(pulled) <= s.sampleSize {
		return pulled, nil
	}
	return s.strategy.Select(pulled, s.sampleSize), nil
}
