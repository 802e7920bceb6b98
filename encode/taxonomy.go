package encode

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Sentinel errors for taxonomy loading and encoding.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrInvalidTaxonomy is returned when a taxonomy fails validation:
	// empty type inventories, blank entries, or duplicates.
	ErrInvalidTaxonomy = errors.New("encode: invalid taxonomy")

	// ErrUnknownType is returned when a record carries a type label, role
	// label, or value type that the taxonomy does not list.
	ErrUnknownType = errors.New("encode: type not in taxonomy")
)

// Taxonomy is the closed inventory of schema types used for one-hot feature
// encoding. Ordering is significant: the position of a type in its list is
// its one-hot index, so the taxonomy file must not be reordered between runs
// that share model weights.
type Taxonomy struct {
	// Version identifies the taxonomy revision, recorded alongside trained
	// weights so stale encoders are detectable.
	Version string `yaml:"version"`

	// ThingTypes lists every entity, relation, and attribute type label.
	ThingTypes []string `yaml:"thing_types"`

	// RoleTypes lists every role label, including any unknown-role sentinel
	// labels the store emits.
	RoleTypes []string `yaml:"role_types"`

	// ValueTypes lists the attribute value types present in the keyspace.
	ValueTypes []string `yaml:"value_types"`
}

// LoadTaxonomy reads a YAML taxonomy from r and validates it.
func LoadTaxonomy(r io.Reader) (*Taxonomy, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("encode: read taxonomy: %w", err)
	}

	var t Taxonomy
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTaxonomy, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadTaxonomyFile reads and validates a YAML taxonomy file.
func LoadTaxonomyFile(path string) (*Taxonomy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("encode: open taxonomy: %w", err)
	}
	defer f.Close()
	return LoadTaxonomy(f)
}

// Validate checks that the taxonomy has non-empty thing and role
// inventories and that no list contains blanks or duplicates.
func (t *Taxonomy) Validate() error {
	if len(t.ThingTypes) == 0 {
		return fmt.Errorf("%w: no thing types", ErrInvalidTaxonomy)
	}
	if len(t.RoleTypes) == 0 {
		return fmt.Errorf("%w: no role types", ErrInvalidTaxonomy)
	}
	for name, list := range map[string][]string{
		"thing_types": t.ThingTypes,
		"role_types":  t.RoleTypes,
		"value_types": t.ValueTypes,
	} {
		seen := make(map[string]struct{}, len(list))
		for _, entry := range list {
			if entry == "" {
				return fmt.Errorf("%w: blank entry in %s", ErrInvalidTaxonomy, name)
			}
			if _, dup := seen[entry]; dup {
				return fmt.Errorf("%w: duplicate %q in %s", ErrInvalidTaxonomy, entry, name)
			}
			seen[entry] = struct{}{}
		}
	}
	return nil
}
