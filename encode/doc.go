// Package encode turns flattened traversal records into the dense feature
// matrices the aggregation stage consumes.
//
// Encoding is driven by a Taxonomy: the closed inventory of thing types, role
// types, and attribute value types present in the target keyspace. Each type
// inventory defines a deterministic one-hot column block, so two encoders
// built from the same taxonomy always produce positionally identical
// features. Taxonomies are typically loaded from a YAML file checked in next
// to the training configuration:
//
//	version: "1"
//	thing_types: [person, company, employment, name]
//	role_types: [employee, employer, has]
//	value_types: [string, long]
//
// Each record row is the concatenation of:
//
//	[ role one-hot | direction | thing-type one-hot | base-type one-hot | value-type one-hot | numeric value ]
//
// Root records (synthetic neighbours with an empty role label) encode an
// all-zero role block. Types absent from the taxonomy are reported as
// ErrUnknownType rather than silently encoded, since a half-known taxonomy
// would corrupt every downstream embedding.
package encode
