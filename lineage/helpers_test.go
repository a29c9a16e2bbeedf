package lineage

import (
	"testing"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/hksahil/cognos-to-powerbi-sub000/sqltree"
)

// mustParse parses SQL and returns the first statement node.
func mustParse(t *testing.T, sql string) *pg_query.Node {
	t.Helper()
	result, err := sqltree.Parse(sql)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", sql, err)
	}
	stmt := sqltree.Statement(result)
	if stmt == nil {
		t.Fatalf("no statement in %q", sql)
	}
	return stmt
}

// newAnalysis builds the working pieces of one analysis over a parsed
// statement, plus the root scope.
func newAnalysis(t *testing.T, stmt *pg_query.Node) (*Locator, *Resolver, *Scope) {
	t.Helper()
	arena := NewArena(stmt)
	registry := BuildRegistry(stmt, arena)
	locator := NewLocator(arena, registry)
	resolver := NewResolver(NewTracer(locator))
	scope := arena.ScopeOf(stmt.GetSelectStmt())
	if scope == nil {
		t.Fatalf("statement has no root SELECT scope")
	}
	return locator, resolver, scope
}

// targetVal returns the expression of the root select list item at
// index i.
func targetVal(t *testing.T, stmt *pg_query.Node, i int) *pg_query.Node {
	t.Helper()
	sel := stmt.GetSelectStmt()
	if sel == nil || i >= len(sel.TargetList) {
		t.Fatalf("no select-list item at index %d", i)
	}
	rt := sel.TargetList[i].GetResTarget()
	if rt == nil || rt.Val == nil {
		t.Fatalf("select-list item %d has no expression", i)
	}
	return rt.Val
}

// whereOf returns the root select's WHERE predicate.
func whereOf(t *testing.T, stmt *pg_query.Node) *pg_query.Node {
	t.Helper()
	sel := stmt.GetSelectStmt()
	if sel == nil || sel.WhereClause == nil {
		t.Fatalf("statement has no WHERE clause")
	}
	return sel.WhereClause
}

// render deparses an expression, failing the test on error.
func render(t *testing.T, expr *pg_query.Node) string {
	t.Helper()
	text, err := sqltree.Render(expr)
	if err != nil {
		t.Fatalf("failed to render expression: %v", err)
	}
	return text
}
