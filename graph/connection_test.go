package graph

import (
	"errors"
	"testing"
)

func TestRoleDirection_String(t *testing.T) {
	if TargetPlays.String() != "target_plays" {
		t.Errorf("unexpected String for TargetPlays: %q", TargetPlays.String())
	}
	if NeighbourPlays.String() != "neighbour_plays" {
		t.Errorf("unexpected String for NeighbourPlays: %q", NeighbourPlays.String())
	}
	if RoleDirection(7).IsValid() {
		t.Error("expected RoleDirection(7) to be invalid")
	}
}

func TestParseRoleDirection(t *testing.T) {
	d, err := ParseRoleDirection("neighbour_plays")
	if err != nil || d != NeighbourPlays {
		t.Errorf("ParseRoleDirection = (%v, %v)", d, err)
	}

	if _, err := ParseRoleDirection("sideways"); !errors.Is(err, ErrInvalidConnection) {
		t.Errorf("expected ErrInvalidConnection, got %v", err)
	}
}

func TestConnection_Validate(t *testing.T) {
	valid := Connection{RoleLabel: "employee", Direction: NeighbourPlays, Neighbour: NewEntity("V1", "person")}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid connection, got %v", err)
	}

	empty := Connection{Direction: TargetPlays, Neighbour: NewEntity("V1", "person")}
	if err := empty.Validate(); !errors.Is(err, ErrInvalidConnection) {
		t.Errorf("expected ErrInvalidConnection for empty role, got %v", err)
	}

	badDir := Connection{RoleLabel: "employee", Direction: RoleDirection(3), Neighbour: NewEntity("V1", "person")}
	if err := badDir.Validate(); !errors.Is(err, ErrInvalidConnection) {
		t.Errorf("expected ErrInvalidConnection for bad direction, got %v", err)
	}
}

func TestSliceConnections(t *testing.T) {
	conns := []Connection{
		{RoleLabel: "employee", Direction: NeighbourPlays, Neighbour: NewEntity("V1", "person")},
		{RoleLabel: "employer", Direction: TargetPlays, Neighbour: NewEntity("V2", "company")},
	}

	stream := SliceConnections(conns)

	var got []Connection
	for stream.Next() {
		got = append(got, stream.Connection())
	}

	if stream.Err() != nil {
		t.Errorf("unexpected stream error: %v", stream.Err())
	}
	if len(got) != 2 || got[0].RoleLabel != "employee" || got[1].RoleLabel != "employer" {
		t.Errorf("unexpected stream contents: %+v", got)
	}

	// Single-pass: a drained stream stays drained.
	if stream.Next() {
		t.Error("expected drained stream to stay exhausted")
	}
}

func TestSliceConnections_Empty(t *testing.T) {
	stream := SliceConnections(nil)
	if stream.Next() {
		t.Error("expected empty stream to be exhausted immediately")
	}
	if stream.Err() != nil {
		t.Errorf("unexpected error: %v", stream.Err())
	}
}
