package lineage

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/hksahil/cognos-to-powerbi-sub000/sqltree"
)

// Resolver rewrites an arbitrary expression by tracing every column
// reference it contains.
type Resolver struct {
	tracer *Tracer
}

// NewResolver creates a resolver over a column tracer.
func NewResolver(tracer *Tracer) *Resolver {
	return &Resolver{tracer: tracer}
}

// Resolve returns a copy of expr with every column reference traced to
// its defining base columns. The input expression is never mutated.
//
// Each top-level column starts its trace from its own copy of the
// ambient visited set: sibling columns in a composite expression must
// not trip each other's cycle guard, while one column's own recursive
// descent accumulates visited state to actually break loops.
func (r *Resolver) Resolve(expr *pg_query.Node, scope *Scope) *pg_query.Node {
	return r.ResolveWith(expr, scope, nil)
}

// ResolveWith is Resolve with an explicit ambient visited set,
// forwarded (copied) into each top-level column trace.
func (r *Resolver) ResolveWith(expr *pg_query.Node, scope *Scope, ambient Visited) *pg_query.Node {
	if expr == nil {
		return nil
	}
	resolved := sqltree.Clone(expr)
	sqltree.RewriteColumns(resolved, func(ref *pg_query.ColumnRef) *pg_query.Node {
		return r.tracer.Trace(ref, scope, ambient.Copy())
	})
	return resolved
}
