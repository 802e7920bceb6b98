package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/zero-day-ai/kgcn/graph"
)

// Sentinel errors for store writes.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrDuplicateThing is returned when a thing with the same id already
	// exists in the store.
	ErrDuplicateThing = errors.New("store: duplicate thing id")

	// ErrForeignTransaction is returned when a lookup uses a transaction
	// that was not produced by this store.
	ErrForeignTransaction = errors.New("store: transaction belongs to a different store")

	// ErrNotRelation is returned when Relate is called with a relation id
	// that does not refer to a relation thing.
	ErrNotRelation = errors.New("store: not a relation")

	// ErrNotAttribute is returned when Own is called with an attribute id
	// that does not refer to an attribute thing.
	ErrNotAttribute = errors.New("store: not an attribute")
)

// hasRole is the role label used for attribute ownership edges.
const hasRole = "has"

// Store is an in-memory graph store with snapshot-isolated read
// transactions. All methods are safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	things    map[string]graph.Thing
	adjacency map[string][]graph.Connection
	txSeq     atomic.Int64
}

// New creates an empty store.
func New() *Store {
	return &Store{
		things:    make(map[string]graph.Thing),
		adjacency: make(map[string][]graph.Connection),
	}
}

// AddEntity inserts an entity with a generated id and returns it.
func (s *Store) AddEntity(typeLabel string) graph.Thing {
	t := graph.NewEntity(uuid.NewString(), typeLabel)
	_ = s.Put(t)
	return t
}

// AddRelation inserts a relation with a generated id and returns it.
func (s *Store) AddRelation(typeLabel string) graph.Thing {
	t := graph.NewRelation(uuid.NewString(), typeLabel)
	_ = s.Put(t)
	return t
}

// AddAttribute inserts an attribute with a generated id and returns it.
func (s *Store) AddAttribute(typeLabel string, valueType graph.ValueType, value any) (graph.Thing, error) {
	t, err := graph.NewAttribute(uuid.NewString(), typeLabel, valueType, value)
	if err != nil {
		return graph.Thing{}, err
	}
	if err := s.Put(t); err != nil {
		return graph.Thing{}, err
	}
	return t, nil
}

// Put inserts a thing with a caller-chosen id. It validates the thing and
// rejects duplicate ids.
func (s *Store) Put(t graph.Thing) error {
	if err := t.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.things[t.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateThing, t.ID)
	}
	s.things[t.ID] = t
	return nil
}

// Relate records that player plays roleLabel in the given relation. Both
// sides observe the edge: the player sees an outgoing connection to the
// relation, the relation an incoming connection to the player.
func (s *Store) Relate(relationID, roleLabel, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	relation, ok := s.things[relationID]
	if !ok {
		return fmt.Errorf("%w: relation %q", graph.ErrThingNotFound, relationID)
	}
	if relation.BaseType != graph.BaseRelation {
		return fmt.Errorf("%w: %q is a %s", ErrNotRelation, relationID, relation.BaseType)
	}
	player, ok := s.things[playerID]
	if !ok {
		return fmt.Errorf("%w: player %q", graph.ErrThingNotFound, playerID)
	}
	if roleLabel == "" {
		roleLabel = graph.UnknownRoleTargetLabel
	}

	s.adjacency[playerID] = append(s.adjacency[playerID], graph.Connection{
		RoleLabel: roleLabel,
		Direction: graph.TargetPlays,
		Neighbour: relation,
	})
	s.adjacency[relationID] = append(s.adjacency[relationID], graph.Connection{
		RoleLabel: roleLabel,
		Direction: graph.NeighbourPlays,
		Neighbour: player,
	})
	return nil
}

// Own records that owner has the given attribute. The owner sees an outgoing
// "has" connection to the attribute, the attribute an incoming one to its
// owner.
func (s *Store) Own(ownerID, attributeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, ok := s.things[ownerID]
	if !ok {
		return fmt.Errorf("%w: owner %q", graph.ErrThingNotFound, ownerID)
	}
	attribute, ok := s.things[attributeID]
	if !ok {
		return fmt.Errorf("%w: attribute %q", graph.ErrThingNotFound, attributeID)
	}
	if attribute.BaseType != graph.BaseAttribute {
		return fmt.Errorf("%w: %q is a %s", ErrNotAttribute, attributeID, attribute.BaseType)
	}

	s.adjacency[ownerID] = append(s.adjacency[ownerID], graph.Connection{
		RoleLabel: hasRole,
		Direction: graph.TargetPlays,
		Neighbour: attribute,
	})
	s.adjacency[attributeID] = append(s.adjacency[attributeID], graph.Connection{
		RoleLabel: hasRole,
		Direction: graph.NeighbourPlays,
		Neighbour: owner,
	})
	return nil
}

// Get returns the thing with the given id.
func (s *Store) Get(id string) (graph.Thing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.things[id]
	if !ok {
		return graph.Thing{}, fmt.Errorf("%w: %q", graph.ErrThingNotFound, id)
	}
	return t, nil
}

// Len returns the number of things in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.things)
}

// Snapshot opens a read transaction over the current state of the graph.
// Later writes to the store are invisible to the snapshot.
func (s *Store) Snapshot() *Tx {
	s.mu.RLock()
	defer s.mu.RUnlock()

	things := make(map[string]struct{}, len(s.things))
	for id := range s.things {
		things[id] = struct{}{}
	}
	adjacency := make(map[string][]graph.Connection, len(s.adjacency))
	for id, conns := range s.adjacency {
		copied := make([]graph.Connection, len(conns))
		copy(copied, conns)
		adjacency[id] = copied
	}

	return &Tx{
		store:     s,
		id:        fmt.Sprintf("tx-%d", s.txSeq.Add(1)),
		things:    things,
		adjacency: adjacency,
	}
}

// Find implements graph.NeighbourFinder against one of this store's
// snapshots. Adjacency is returned in insertion order.
func (s *Store) Find(ctx context.Context, tx graph.Transaction, thingID string) (graph.Connections, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap, ok := tx.(*Tx)
	if !ok || snap.store != s {
		return nil, ErrForeignTransaction
	}
	if snap.closed.Load() {
		return nil, graph.ErrTransactionClosed
	}
	if _, ok := snap.things[thingID]; !ok {
		return nil, fmt.Errorf("%w: %q", graph.ErrThingNotFound, thingID)
	}
	return graph.SliceConnections(snap.adjacency[thingID]), nil
}

// Tx is a snapshot-isolated read transaction. It implements
// graph.Transaction.
type Tx struct {
	store     *Store
	id        string
	things    map[string]struct{}
	adjacency map[string][]graph.Connection
	closed    atomic.Bool
}

// ID returns the transaction identifier.
func (t *Tx) ID() string { return t.id }

// Close releases the snapshot. Lookups after Close fail with
// graph.ErrTransactionClosed, which is how in-flight traversals are
// cancelled. Close is idempotent.
func (t *Tx) Close() error {
	t.closed.Store(true)
	return nil
}
