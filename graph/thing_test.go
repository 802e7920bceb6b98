package graph

import (
	"errors"
	"testing"
)

func TestNewEntity(t *testing.T) {
	thing := NewEntity("V123", "person")

	if thing.ID != "V123" {
		t.Errorf("expected ID to be 'V123', got %q", thing.ID)
	}
	if thing.TypeLabel != "person" {
		t.Errorf("expected TypeLabel to be 'person', got %q", thing.TypeLabel)
	}
	if thing.BaseType != BaseEntity {
		t.Errorf("expected BaseType to be entity, got %q", thing.BaseType)
	}
	if err := thing.Validate(); err != nil {
		t.Errorf("expected valid entity, got %v", err)
	}
}

func TestNewAttribute(t *testing.T) {
	thing, err := NewAttribute("V9", "age", ValueLong, int64(42))
	if err != nil {
		t.Fatalf("NewAttribute returned error: %v", err)
	}

	if !thing.IsAttribute() {
		t.Error("expected IsAttribute to be true")
	}
	if thing.ValueType != ValueLong {
		t.Errorf("expected ValueType long, got %q", thing.ValueType)
	}

	v, ok := thing.NumericValue()
	if !ok || v != 42 {
		t.Errorf("expected NumericValue 42, got %v (ok=%v)", v, ok)
	}
}

func TestNewAttribute_Invalid(t *testing.T) {
	if _, err := NewAttribute("V9", "age", ValueNone, 42); !errors.Is(err, ErrInvalidThing) {
		t.Errorf("expected ErrInvalidThing for missing value type, got %v", err)
	}
	if _, err := NewAttribute("V9", "age", ValueLong, nil); !errors.Is(err, ErrInvalidThing) {
		t.Errorf("expected ErrInvalidThing for nil value, got %v", err)
	}
}

func TestThing_Validate(t *testing.T) {
	tests := []struct {
		name    string
		thing   Thing
		wantErr bool
	}{
		{
			name:    "valid entity",
			thing:   NewEntity("V1", "person"),
			wantErr: false,
		},
		{
			name:    "valid relation",
			thing:   NewRelation("V2", "employment"),
			wantErr: false,
		},
		{
			name:    "empty id",
			thing:   Thing{TypeLabel: "person", BaseType: BaseEntity},
			wantErr: true,
		},
		{
			name:    "empty type label",
			thing:   Thing{ID: "V1", BaseType: BaseEntity},
			wantErr: true,
		},
		{
			name:    "unknown base type",
			thing:   Thing{ID: "V1", TypeLabel: "person", BaseType: "thing"},
			wantErr: true,
		},
		{
			name:    "entity with value",
			thing:   Thing{ID: "V1", TypeLabel: "person", BaseType: BaseEntity, Value: 3},
			wantErr: true,
		},
		{
			name:    "attribute without value",
			thing:   Thing{ID: "V1", TypeLabel: "age", BaseType: BaseAttribute, ValueType: ValueLong},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.thing.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestThing_NumericValue(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		want   float64
		wantOK bool
	}{
		{"float64", 1.5, 1.5, true},
		{"int", 7, 7, true},
		{"int64", int64(9), 9, true},
		{"bool true", true, 1, true},
		{"bool false", false, 0, true},
		{"string", "alice", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thing := Thing{ID: "V1", TypeLabel: "x", BaseType: BaseAttribute, ValueType: ValueString, Value: tt.value}
			got, ok := thing.NumericValue()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("NumericValue() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestThing_Equal(t *testing.T) {
	a := NewEntity("V1", "person")
	b := NewEntity("V1", "person")
	c := NewEntity("V2", "person")

	if !a.Equal(b) {
		t.Error("expected identical things to be equal")
	}
	if a.Equal(c) {
		t.Error("expected things with different ids to differ")
	}
}
