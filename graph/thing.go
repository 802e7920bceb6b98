package graph

import "fmt"

// BaseType classifies a Thing as an entity, relation, or attribute instance.
type BaseType string

const (
	// BaseEntity is a plain domain object (a person, a host, a finding).
	BaseEntity BaseType = "entity"

	// BaseRelation is an n-ary relationship instance connecting role players.
	BaseRelation BaseType = "relation"

	// BaseAttribute is a value-carrying node owned by entities or relations.
	BaseAttribute BaseType = "attribute"
)

// String returns the string representation of the BaseType.
func (b BaseType) String() string { return string(b) }

// IsValid returns true if the base type is one of the known kinds.
func (b BaseType) IsValid() bool {
	switch b {
	case BaseEntity, BaseRelation, BaseAttribute:
		return true
	default:
		return false
	}
}

// AllBaseTypes returns all valid base type values.
func AllBaseTypes() []BaseType {
	return []BaseType{BaseEntity, BaseRelation, BaseAttribute}
}

// ValueType describes the data type of an attribute Thing's value.
type ValueType string

const (
	ValueNone    ValueType = ""
	ValueString  ValueType = "string"
	ValueLong    ValueType = "long"
	ValueDouble  ValueType = "double"
	ValueBoolean ValueType = "boolean"
	ValueDate    ValueType = "date"
)

// String returns the string representation of the ValueType.
func (v ValueType) String() string { return string(v) }

// IsValid returns true if the value type is one of the known data types.
// ValueNone is valid only for non-attribute things.
func (v ValueType) IsValid() bool {
	switch v {
	case ValueNone, ValueString, ValueLong, ValueDouble, ValueBoolean, ValueDate:
		return true
	default:
		return false
	}
}

// Thing is the pipeline's view of a single graph-store node.
//
// The ID is store-assigned and stable only within the transaction that
// produced the Thing. Attribute things carry a ValueType and Value; for
// entities and relations both are zero. Things are immutable once
// constructed — treat all fields as read-only.
type Thing struct {
	// ID is the store-local identifier for this node.
	ID string `json:"id"`

	// TypeLabel is the schema type of the node (e.g., "person", "employment").
	TypeLabel string `json:"type_label"`

	// BaseType is the node kind: entity, relation, or attribute.
	BaseType BaseType `json:"base_type"`

	// ValueType is the data type of the value, set only for attributes.
	ValueType ValueType `json:"value_type,omitempty"`

	// Value is the attribute value, set only for attributes.
	Value any `json:"value,omitempty"`
}

// NewEntity creates an entity Thing with the given id and type label.
func NewEntity(id, typeLabel string) Thing {
	return Thing{ID: id, TypeLabel: typeLabel, BaseType: BaseEntity}
}

// NewRelation creates a relation Thing with the given id and type label.
func NewRelation(id, typeLabel string) Thing {
	return Thing{ID: id, TypeLabel: typeLabel, BaseType: BaseRelation}
}

// NewAttribute creates an attribute Thing. Attributes must carry a concrete
// value type and a non-nil value; violating either returns ErrInvalidThing.
func NewAttribute(id, typeLabel string, valueType ValueType, value any) (Thing, error) {
	t := Thing{ID: id, TypeLabel: typeLabel, BaseType: BaseAttribute, ValueType: valueType, Value: value}
	if err := t.Validate(); err != nil {
		return Thing{}, err
	}
	return t, nil
}

// Validate checks that the Thing is structurally sound: non-empty id and type
// label, a known base type, and value/value-type consistency for attributes.
func (t Thing) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidThing)
	}
	if t.TypeLabel == "" {
		return fmt.Errorf("%w: empty type label for %q", ErrInvalidThing, t.ID)
	}
	if !t.BaseType.IsValid() {
		return fmt.Errorf("%w: unknown base type %q", ErrInvalidThing, t.BaseType)
	}
	if t.BaseType == BaseAttribute {
		if t.ValueType == ValueNone || !t.ValueType.IsValid() {
			return fmt.Errorf("%w: attribute %q has no value type", ErrInvalidThing, t.ID)
		}
		if t.Value == nil {
			return fmt.Errorf("%w: attribute %q has no value", ErrInvalidThing, t.ID)
		}
	} else if t.ValueType != ValueNone || t.Value != nil {
		return fmt.Errorf("%w: %s %q must not carry a value", ErrInvalidThing, t.BaseType, t.ID)
	}
	return nil
}

// IsAttribute reports whether the Thing is an attribute instance.
func (t Thing) IsAttribute() bool { return t.BaseType == BaseAttribute }

// NumericValue returns the attribute value coerced to float64 for feature
// encoding. Booleans map to 0/1. The second return is false for non-numeric
// values and non-attribute things.
func (t Thing) NumericValue() (float64, bool) {
	switch v := t.Value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Equal reports whether two Things are identical in all fields.
func (t Thing) Equal(other Thing) bool {
	return t.ID == other.ID &&
		t.TypeLabel == other.TypeLabel &&
		t.BaseType == other.BaseType &&
		t.ValueType == other.ValueType &&
		t.Value == other.Value
}

// String returns a compact human-readable representation for logging.
func (t Thing) String() string {
	if t.IsAttribute() {
		return fmt.Sprintf("%s:%s(%s)=%v", t.BaseType, t.TypeLabel, t.ID, t.Value)
	}
	return fmt.Sprintf("%s:%s(%s)", t.BaseType, t.TypeLabel, t.ID)
}
