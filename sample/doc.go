// Package sample provides bounded, deterministic selection over candidate
// connection streams.
//
// A Sampler caps the cost of expanding high-degree nodes twice over: it pulls
// at most its configured limit from the (possibly lazy, possibly very long)
// candidate stream, then applies a selection Strategy to choose at most
// sampleSize of those candidates. The limit must be at least the sample size;
// this is validated at construction so a misconfigured sampler never reaches a
// traversal.
//
// The default Strategy is First, a deterministic ordered prefix. It exists to
// make traversal results reproducible: given the same store snapshot and the
// same configuration, repeated samples select the same connections in the same
// order, which downstream tensor construction relies on for positional
// alignment. Reservoir provides seeded pseudo-random selection that is still
// reproducible for a fixed seed.
//
//	s, err := sample.New(3, sample.First{}, 6)
//	if err != nil {
//	    return err
//	}
//	picked, err := s.Sample(conns)
package sample
