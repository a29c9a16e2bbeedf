package lineage

import (
	"strings"

	"github.com/hksahil/cognos-to-powerbi-sub000/sqltree"
)

// Locator finds and classifies the FROM/JOIN source a column qualifier
// refers to within a scope.
type Locator struct {
	arena    *Arena
	registry *Registry
}

// NewLocator creates a locator over one analysis' arena and registry.
func NewLocator(arena *Arena, registry *Registry) *Locator {
	return &Locator{arena: arena, registry: registry}
}

// Sources returns the scope's FROM/JOIN entries in declaration order,
// classified as table, CTE, or subquery. A bare table name that matches
// a registered CTE classifies as CTE: the CTE shadows a same-named
// physical table.
func (l *Locator) Sources(scope *Scope) []Source {
	if scope == nil || scope.Select == nil {
		return nil
	}
	var sources []Source
	for _, entry := range flattenFrom(scope.Select) {
		if rv := entry.GetRangeVar(); rv != nil {
			src := Source{Table: rv}
			if rv.Alias != nil {
				src.Alias = rv.Alias.Aliasname
			}
			bare := rv.Catalogname == "" && rv.Schemaname == ""
			if bare && l.registry.Has(rv.Relname) {
				src.Kind = SourceCTE
				src.Name = rv.Relname
			} else {
				src.Kind = SourceTable
				src.Name = sqltree.TableName(rv)
			}
			sources = append(sources, src)
			continue
		}
		if sub := entry.GetRangeSubselect(); sub != nil {
			src := Source{Kind: SourceSubquery}
			if sub.Alias != nil {
				src.Alias = sub.Alias.Aliasname
				src.Name = sub.Alias.Aliasname
			}
			if sub.Subquery != nil {
				src.Inner = sub.Subquery.GetSelectStmt()
			}
			sources = append(sources, src)
		}
		// Other FROM entry kinds (functions, table samples) carry no
		// column lineage and are skipped.
	}
	return sources
}

// FindSource locates the source a column qualifier refers to. With an
// alias, entries whose effective alias does not match case-insensitively
// are skipped and the first match wins. Without an alias the first
// entry wins unconditionally: unqualified columns are assumed to belong
// to the first declared source (documented limitation, no ambiguity
// detection).
func (l *Locator) FindSource(alias string, scope *Scope) (Source, bool) {
	for _, src := range l.Sources(scope) {
		if alias != "" && !strings.EqualFold(src.EffectiveAlias(), alias) {
			continue
		}
		return src, true
	}
	return Source{}, false
}

// ScopeFor returns the scope a non-table source resolves into: the
// registered CTE scope, or the subquery's inner SELECT.
func (l *Locator) ScopeFor(src Source) (*Scope, bool) {
	switch src.Kind {
	case SourceCTE:
		return l.registry.Lookup(src.Name)
	case SourceSubquery:
		scope := l.arena.ScopeOf(src.Inner)
		return scope, scope != nil
	default:
		return nil, false
	}
}
