package traverse

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/zero-day-ai/kgcn/graph"
)

// Filter variables available to connection filter expressions.
//
// A filter is a CEL expression evaluated against every candidate connection
// before sampling. It sees the connection's role metadata and the neighbour's
// type information:
//
//	role_label     string  — role on the connection
//	role_direction string  — "target_plays" or "neighbour_plays"
//	type_label     string  — neighbour's schema type
//	base_type      string  — "entity", "relation", or "attribute"
//
// Example expressions:
//
//	`base_type != "attribute"`
//	`role_label == "employee" || type_label == "company"`
const (
	filterVarRoleLabel     = "role_label"
	filterVarRoleDirection = "role_direction"
	filterVarTypeLabel     = "type_label"
	filterVarBaseType      = "base_type"
)

// connectionFilter is a compiled CEL predicate over candidate connections.
type connectionFilter struct {
	source string
	prg    cel.Program
}

// compileFilter compiles a CEL filter expression. Compilation failures and
// non-boolean expressions are configuration errors reported at builder
// construction, never during a build.
func compileFilter(source string) (*connectionFilter, error) {
	env, err := cel.NewEnv(
		cel.Variable(filterVarRoleLabel, cel.StringType),
		cel.Variable(filterVarRoleDirection, cel.StringType),
		cel.Variable(filterVarTypeLabel, cel.StringType),
		cel.Variable(filterVarBaseType, cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}

	ast, iss := env.Compile(source)
	if iss.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: expression %q evaluates to %s, want bool", ErrInvalidFilter, source, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	return &connectionFilter{source: source, prg: prg}, nil
}

// match evaluates the filter against one connection.
func (f *connectionFilter) match(c graph.Connection) (bool, error) {
	out, _, err := f.prg.Eval(map[string]any{
		filterVarRoleLabel:     c.RoleLabel,
		filterVarRoleDirection: c.Direction.String(),
		filterVarTypeLabel:     c.Neighbour.TypeLabel,
		filterVarBaseType:      c.Neighbour.BaseType.String(),
	})
	if err != nil {
		return false, fmt.Errorf("%w: %q: %v", ErrFilterEval, f.source, err)
	}
	keep, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q returned %T", ErrFilterEval, f.source, out.Value())
	}
	return keep, nil
}

// filteredConnections lazily applies a filter to a connection stream,
// preserving the stream's single-pass contract.
type filteredConnections struct {
	inner  graph.Connections
	filter *connectionFilter
	cur    graph.Connection
	err    error
}

func (s *filteredConnections) Next() bool {
	if s.err != nil {
		return false
	}
	for s.inner.Next() {
		c := s.inner.Connection()
		keep, err := s.filter.match(c)
		if err != nil {
			s.err = err
			return false
		}
		if keep {
			s.cur = c
			return true
		}
	}
	return false
}

func (s *filteredConnections) Connection() graph.Connection { return s.cur }

func (s *filteredConnections) Err() error {
	if s.err != nil {
		return s.err
	}
	return s.inner.Err()
}
