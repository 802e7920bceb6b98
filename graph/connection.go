package graph

import "fmt"

// RoleDirection records which side of an observed edge plays the role.
type RoleDirection int

const (
	// TargetPlays indicates the subject Thing plays the role; the edge is
	// outgoing from the target's perspective.
	TargetPlays RoleDirection = iota

	// NeighbourPlays indicates the neighbouring Thing plays the role; the
	// edge is incoming from the target's perspective.
	NeighbourPlays
)

// String returns the string representation of the RoleDirection.
func (d RoleDirection) String() string {
	switch d {
	case TargetPlays:
		return "target_plays"
	case NeighbourPlays:
		return "neighbour_plays"
	default:
		return fmt.Sprintf("RoleDirection(%d)", int(d))
	}
}

// IsValid returns true if the direction is a valid value.
func (d RoleDirection) IsValid() bool {
	return d == TargetPlays || d == NeighbourPlays
}

// ParseRoleDirection parses a string into a RoleDirection value.
func ParseRoleDirection(s string) (RoleDirection, error) {
	switch s {
	case "target_plays":
		return TargetPlays, nil
	case "neighbour_plays":
		return NeighbourPlays, nil
	default:
		return 0, fmt.Errorf("%w: unknown role direction %q", ErrInvalidConnection, s)
	}
}

// Sentinel role labels used when the store cannot resolve the role on an
// observed edge. Which one applies depends on which side plays the role.
const (
	UnknownRoleTargetLabel    = "UNKNOWN_ROLE_TARGET_PLAYS"
	UnknownRoleNeighbourLabel = "UNKNOWN_ROLE_NEIGHBOUR_PLAYS"
)

// Connection is an edge observed from a Thing's perspective: the role played
// on that edge, which side plays it, and the Thing at the other end.
// Connections are immutable once constructed.
type Connection struct {
	// RoleLabel names the role on the edge. Never empty: stores that cannot
	// resolve a role substitute the unknown-role sentinel labels.
	RoleLabel string `json:"role_label"`

	// Direction records whether the subject or the neighbour plays the role.
	Direction RoleDirection `json:"direction"`

	// Neighbour is the Thing at the other end of the edge.
	Neighbour Thing `json:"neighbour"`
}

// Validate checks that the connection carries a role label, a valid
// direction, and a valid neighbour.
func (c Connection) Validate() error {
	if c.RoleLabel == "" {
		return fmt.Errorf("%w: empty role label", ErrInvalidConnection)
	}
	if !c.Direction.IsValid() {
		return fmt.Errorf("%w: invalid direction %d", ErrInvalidConnection, int(c.Direction))
	}
	if err := c.Neighbour.Validate(); err != nil {
		return fmt.Errorf("%w: neighbour: %v", ErrInvalidConnection, err)
	}
	return nil
}
