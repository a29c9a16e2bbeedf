package lineage

import (
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/hksahil/cognos-to-powerbi-sub000/sqltree"
	"github.com/hksahil/cognos-to-powerbi-sub000/trace"
)

// TraceKey identifies one column-resolution attempt: which scope it
// started from, which source alias the reference carried, and the
// column name. Re-seeing a key inside one resolution chain means the
// chain is cyclic.
type TraceKey struct {
	ScopeID int
	Alias   string
	Column  string
}

// Visited is the set of trace keys already attempted along one
// resolution chain.
type Visited map[TraceKey]struct{}

// Copy returns an independent copy of the set.
func (v Visited) Copy() Visited {
	out := make(Visited, len(v))
	for k := range v {
		out[k] = struct{}{}
	}
	return out
}

// Tracer resolves a single column reference to its defining expression,
// recursing across scopes until it bottoms out at a physical table
// column.
type Tracer struct {
	locator *Locator
	tracer  *trace.Tracer
}

// NewTracer creates a tracer over one analysis' locator.
func NewTracer(locator *Locator) *Tracer {
	return &Tracer{locator: locator, tracer: trace.GetTracer()}
}

// Trace resolves one column reference against a scope. It returns the
// replacement expression, or nil when the reference is left unchanged:
// star references, unmatched columns, and cyclic chains all degrade
// softly to the reference itself.
//
// The visited set is shared down one recursive chain so a reference
// that routes back to an already-attempted key terminates instead of
// looping.
func (t *Tracer) Trace(ref *pg_query.ColumnRef, scope *Scope, visited Visited) *pg_query.Node {
	qualifier, column, ok := sqltree.ColumnName(ref)
	if !ok || scope == nil {
		return nil
	}

	key := TraceKey{
		ScopeID: scope.ID,
		Alias:   strings.ToUpper(qualifier),
		Column:  strings.ToUpper(column),
	}
	if _, seen := visited[key]; seen {
		t.tracer.Debug(trace.ComponentTracer, "cycle detected, leaving reference unresolved",
			trace.Context("column", column, "scope", scope.ID))
		return nil
	}
	visited[key] = struct{}{}

	src, found := t.locator.FindSource(qualifier, scope)
	if !found {
		return nil
	}

	switch src.Kind {
	case SourceTable:
		return qualifiedRef(src.Table, column)
	case SourceCTE, SourceSubquery:
		target, ok := t.locator.ScopeFor(src)
		if !ok {
			return nil
		}
		item := findSelectItem(target.Select, column)
		if item == nil {
			return nil
		}
		resolved := sqltree.Clone(item)
		sqltree.RewriteColumns(resolved, func(inner *pg_query.ColumnRef) *pg_query.Node {
			return t.Trace(inner, target, visited)
		})
		return resolved
	default:
		return nil
	}
}

// qualifiedRef rewrites a column reference with the resolved table's
// own qualifiers. The terminal case of a trace: schema is carried when
// the table declares one, and the catalog only when a schema is also
// present.
func qualifiedRef(rv *pg_query.RangeVar, column string) *pg_query.Node {
	var parts []string
	if rv.Schemaname != "" {
		if rv.Catalogname != "" {
			parts = append(parts, rv.Catalogname)
		}
		parts = append(parts, rv.Schemaname)
	}
	parts = append(parts, rv.Relname, column)
	return sqltree.MakeColumnRef(parts...)
}

// findSelectItem returns the select-list expression whose output name
// matches the column case-insensitively: the item's alias when it has
// one, the trailing column name otherwise.
func findSelectItem(sel *pg_query.SelectStmt, column string) *pg_query.Node {
	if sel == nil {
		return nil
	}
	for _, target := range sel.TargetList {
		rt := target.GetResTarget()
		if rt == nil || rt.Val == nil {
			continue
		}
		if strings.EqualFold(outputName(rt), column) {
			return rt.Val
		}
	}
	return nil
}

// outputName is the name a select-list item exposes to enclosing
// scopes.
func outputName(rt *pg_query.ResTarget) string {
	if rt.Name != "" {
		return rt.Name
	}
	if ref := rt.Val.GetColumnRef(); ref != nil {
		if _, column, ok := sqltree.ColumnName(ref); ok {
			return column
		}
	}
	return ""
}
