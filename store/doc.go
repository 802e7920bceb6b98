// Package store provides an in-memory reference implementation of the graph
// collaborator interfaces consumed by the traversal pipeline.
//
// The Store holds entities, relations, and attributes with role-labelled
// edges between them, and serves snapshot-isolated read transactions:
// Snapshot captures the graph at a point in time, and lookups through that
// transaction are unaffected by later writes. Adjacency is kept in insertion
// order, so traversals over a snapshot are fully deterministic — the property
// the ContextBuilder's reproducibility guarantee builds on.
//
// The store is intended for tests, examples, and small local datasets. A
// production deployment substitutes any implementation of
// graph.NeighbourFinder backed by a real graph database; nothing in the
// pipeline depends on this package.
//
//	s := store.New()
//	alice := s.AddEntity("person")
//	acme := s.AddEntity("company")
//	emp := s.AddRelation("employment")
//	_ = s.Relate(emp.ID, "employee", alice.ID)
//	_ = s.Relate(emp.ID, "employer", acme.ID)
//
//	tx := s.Snapshot()
//	defer tx.Close()
//	conns, _ := s.Find(ctx, tx, alice.ID)
package store
