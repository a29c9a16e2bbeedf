// Package lineage resolves column lineage inside a single SQL query:
// for every SELECT-list item and every WHERE conjunct (including those
// nested in CTEs and subqueries) it determines the base table columns
// that produce the value and renders the fully-resolved expression.
package lineage

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"
	"google.golang.org/protobuf/proto"

	"github.com/hksahil/cognos-to-powerbi-sub000/sqltree"
)

// Scope is one SELECT statement's namespace: its select list, its
// FROM/JOIN sources, and its optional WHERE predicate. The ID is the
// scope's arena index, stable for the lifetime of one analysis, and is
// what trace keys and the visited-scope set carry instead of node
// pointers.
type Scope struct {
	ID     int
	Select *pg_query.SelectStmt
}

// Arena assigns a stable integer identity to every SELECT statement in
// a parsed tree. Built once per analysis in a single pre-order walk.
type Arena struct {
	scopes []*Scope
	index  map[*pg_query.SelectStmt]*Scope
}

// NewArena walks root and registers every SELECT statement it finds,
// in traversal order.
func NewArena(root proto.Message) *Arena {
	a := &Arena{index: make(map[*pg_query.SelectStmt]*Scope)}
	for _, sel := range sqltree.FindSelects(root) {
		scope := &Scope{ID: len(a.scopes), Select: sel}
		a.scopes = append(a.scopes, scope)
		a.index[sel] = scope
	}
	return a
}

// ScopeOf returns the scope registered for a SELECT statement, or nil
// for statements outside the analyzed tree.
func (a *Arena) ScopeOf(sel *pg_query.SelectStmt) *Scope {
	if sel == nil {
		return nil
	}
	return a.index[sel]
}

// Len returns the number of registered scopes.
func (a *Arena) Len() int {
	return len(a.scopes)
}

// SourceKind classifies a FROM/JOIN entry.
type SourceKind int

const (
	SourceTable SourceKind = iota
	SourceCTE
	SourceSubquery
)

// String returns the string representation of SourceKind
func (k SourceKind) String() string {
	switch k {
	case SourceTable:
		return "table"
	case SourceCTE:
		return "cte"
	case SourceSubquery:
		return "subquery"
	default:
		return "unknown"
	}
}

// Source is one classified FROM/JOIN entry of a scope.
type Source struct {
	Kind  SourceKind
	Name  string               // qualified table name, or bare CTE name
	Alias string               // explicit alias, if any
	Table *pg_query.RangeVar   // set for table and cte kinds
	Inner *pg_query.SelectStmt // set for subquery kind
}

// EffectiveAlias is the name a column qualifier must match to refer to
// this source: the explicit alias when present, the bare name
// otherwise.
func (s Source) EffectiveAlias() string {
	if s.Alias != "" {
		return s.Alias
	}
	if s.Table != nil {
		return s.Table.Relname
	}
	return s.Name
}

// flattenFrom expands a scope's FROM clause into its leaf entries in
// declaration order. Join trees nest arbitrarily; the left arm is
// emitted before the right so the order matches the query text.
func flattenFrom(sel *pg_query.SelectStmt) []*pg_query.Node {
	var entries []*pg_query.Node
	var expand func(node *pg_query.Node)
	expand = func(node *pg_query.Node) {
		if node == nil {
			return
		}
		if join := node.GetJoinExpr(); join != nil {
			expand(join.Larg)
			expand(join.Rarg)
			return
		}
		entries = append(entries, node)
	}
	for _, node := range sel.FromClause {
		expand(node)
	}
	return entries
}
