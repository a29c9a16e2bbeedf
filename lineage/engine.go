package lineage

import (
	"sort"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/hksahil/cognos-to-powerbi-sub000/sqltree"
	"github.com/hksahil/cognos-to-powerbi-sub000/trace"
)

// finalScopeLabel names the outermost scope in filter records.
const finalScopeLabel = "Final Select"

// Engine orchestrates one full lineage analysis: it builds the CTE
// registry, identifies the final scope, resolves every select-list
// item, then walks the reachable scope tree for WHERE predicates. One
// engine instance handles exactly one query tree at a time and holds
// no state between analyses.
type Engine struct {
	tracer *trace.Tracer
}

// NewEngine creates a lineage engine.
func NewEngine() *Engine {
	return &Engine{tracer: trace.GetTracer()}
}

// analysis carries the per-query working state.
type analysis struct {
	arena    *Arena
	registry *Registry
	locator  *Locator
	resolver *Resolver
	records  []Record
	seen     map[int]struct{} // scope IDs already walked for WHERE predicates
}

// Analyze resolves lineage for the first statement of a parse result.
// An empty result, or one whose statement contains no SELECT, yields an
// empty record list rather than an error.
func (e *Engine) Analyze(result *pg_query.ParseResult) []Record {
	return e.AnalyzeStatement(sqltree.Statement(result))
}

// AnalyzeStatement resolves lineage for a single parsed statement.
func (e *Engine) AnalyzeStatement(stmt *pg_query.Node) []Record {
	records := []Record{}
	if stmt == nil {
		return records
	}

	arena := NewArena(stmt)
	registry := BuildRegistry(stmt, arena)
	locator := NewLocator(arena, registry)
	resolver := NewResolver(NewTracer(locator))

	e.tracer.Debug(trace.ComponentEngine, "analysis state prepared",
		trace.Context("scopes", arena.Len(), "ctes", registry.Len()))

	final := e.finalScope(stmt, arena)
	if final == nil {
		return records
	}

	a := &analysis{
		arena:    arena,
		registry: registry,
		locator:  locator,
		resolver: resolver,
		seen:     make(map[int]struct{}),
	}

	e.resolveSelectItems(a, final)
	e.walkWhere(a, final, finalScopeLabel)

	return append(records, a.records...)
}

// finalScope picks the scope whose select list the analysis reports: a
// bare SELECT is itself (a WITH clause hangs off the same node), and
// anything else falls back to the last SELECT found in the tree. The
// fallback is a heuristic inherited for compatibility; it is not
// guaranteed correct for exotic shapes such as set operations.
func (e *Engine) finalScope(stmt *pg_query.Node, arena *Arena) *Scope {
	if sel := stmt.GetSelectStmt(); sel != nil && sel.Op == pg_query.SetOperation_SETOP_NONE {
		return arena.ScopeOf(sel)
	}
	selects := sqltree.FindSelects(stmt)
	for i := len(selects) - 1; i >= 0; i-- {
		if selects[i].Op == pg_query.SetOperation_SETOP_NONE {
			return arena.ScopeOf(selects[i])
		}
	}
	return nil
}

// resolveSelectItems resolves each select-list item of the final scope
// in order and emits one SELECT record per item.
func (e *Engine) resolveSelectItems(a *analysis, scope *Scope) {
	for _, target := range scope.Select.TargetList {
		rt := target.GetResTarget()
		if rt == nil || rt.Val == nil {
			continue
		}
		resolved := a.resolver.Resolve(rt.Val, scope)
		record := Record{
			Item:        e.itemName(rt),
			Clause:      ClauseSelect,
			Kind:        classify(resolved),
			Resolved:    e.render(resolved),
			BaseColumns: baseColumns(resolved),
		}
		a.records = append(a.records, record)
	}
}

// itemName is what a SELECT record is reported as: the item's alias,
// the bare column name, or the original expression text as a last
// resort.
func (e *Engine) itemName(rt *pg_query.ResTarget) string {
	if name := outputName(rt); name != "" {
		return name
	}
	if ref := rt.Val.GetColumnRef(); ref != nil {
		return sqltree.QualifiedName(ref)
	}
	return e.render(rt.Val)
}

// walkWhere reports the WHERE conjuncts of a scope, then recurses into
// every CTE and subquery source in declaration order. The visited set
// guarantees a scope's predicate is reported at most once even when the
// scope is reachable through multiple join paths.
func (e *Engine) walkWhere(a *analysis, scope *Scope, label string) {
	if scope == nil {
		return
	}
	if _, visited := a.seen[scope.ID]; visited {
		return
	}
	a.seen[scope.ID] = struct{}{}

	if where := scope.Select.WhereClause; where != nil {
		for _, conjunct := range SplitConjuncts(where) {
			resolved := a.resolver.ResolveWith(conjunct, scope, nil)
			record := Record{
				Item:        "Filter in " + e.filterLabel(a, conjunct, scope, label),
				Clause:      ClauseWhere,
				Kind:        KindFilter,
				Resolved:    e.render(resolved),
				BaseColumns: baseColumns(resolved),
			}
			a.records = append(a.records, record)
		}
	}

	for _, src := range a.locator.Sources(scope) {
		switch src.Kind {
		case SourceCTE:
			if target, ok := a.registry.Lookup(src.Name); ok {
				e.walkWhere(a, target, "CTE: "+src.Name)
			}
		case SourceSubquery:
			if target := a.arena.ScopeOf(src.Inner); target != nil {
				e.walkWhere(a, target, "Subquery: "+src.EffectiveAlias())
			}
		}
		// Plain tables add no recursion.
	}
}

// filterLabel attributes a conjunct to the source its first column
// reference routes through: a predicate over a subquery or CTE column
// is reported under that source rather than the scope that happens to
// hold the WHERE clause. Table-backed and column-free conjuncts keep
// the scope's own label.
func (e *Engine) filterLabel(a *analysis, conjunct *pg_query.Node, scope *Scope, label string) string {
	refs := sqltree.FindColumnRefs(conjunct)
	if len(refs) == 0 {
		return label
	}
	qualifier, _, ok := sqltree.ColumnName(refs[0])
	if !ok {
		return label
	}
	src, found := a.locator.FindSource(qualifier, scope)
	if !found {
		return label
	}
	switch src.Kind {
	case SourceCTE:
		return "CTE: " + src.Name
	case SourceSubquery:
		return "Subquery: " + src.EffectiveAlias()
	default:
		return label
	}
}

// render deparses a resolved expression; rendering failures degrade to
// an empty string rather than aborting the analysis.
func (e *Engine) render(expr *pg_query.Node) string {
	text, err := sqltree.Render(expr)
	if err != nil {
		e.tracer.Warn(trace.ComponentEngine, "failed to render expression",
			trace.Context("error", err))
		return ""
	}
	return text
}

// classify reports base when the resolved expression is syntactically a
// single column reference, expression otherwise.
func classify(resolved *pg_query.Node) Kind {
	if ref := resolved.GetColumnRef(); ref != nil {
		if _, _, ok := sqltree.ColumnName(ref); ok {
			return KindBase
		}
	}
	return KindExpression
}

// baseColumns collects the fully-qualified identifiers of every column
// reference left in a resolved expression, deduplicated and sorted.
func baseColumns(resolved *pg_query.Node) []string {
	set := make(map[string]struct{})
	for _, ref := range sqltree.FindColumnRefs(resolved) {
		if _, _, ok := sqltree.ColumnName(ref); !ok {
			continue
		}
		set[sqltree.QualifiedName(ref)] = struct{}{}
	}
	columns := make([]string, 0, len(set))
	for column := range set {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}
