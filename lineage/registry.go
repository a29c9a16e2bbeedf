package lineage

import (
	"strings"

	"google.golang.org/protobuf/proto"

	"github.com/hksahil/cognos-to-powerbi-sub000/sqltree"
	"github.com/hksahil/cognos-to-powerbi-sub000/trace"
)

// Registry maps CTE names to their defining scopes. Built once per
// analysis from every WITH clause in the tree and read-only afterwards.
type Registry struct {
	entries map[string]*Scope
}

// BuildRegistry scans every WITH clause beneath root and registers each
// CTE's name against its defining SELECT. Names are case-normalized.
// A duplicate name silently overrides the earlier definition; the
// override is reported at verbose trace level only.
func BuildRegistry(root proto.Message, arena *Arena) *Registry {
	tracer := trace.GetTracer()
	reg := &Registry{entries: make(map[string]*Scope)}
	for _, cte := range sqltree.FindCTEs(root) {
		if cte.Ctequery == nil {
			continue
		}
		sel := cte.Ctequery.GetSelectStmt()
		if sel == nil {
			continue
		}
		scope := arena.ScopeOf(sel)
		if scope == nil {
			continue
		}
		name := strings.ToLower(cte.Ctename)
		if _, exists := reg.entries[name]; exists {
			tracer.Verbose(trace.ComponentRegistry, "duplicate CTE name overrides earlier definition",
				trace.Context("name", cte.Ctename))
		}
		reg.entries[name] = scope
	}
	return reg
}

// Lookup returns the defining scope for a CTE name, case-insensitively.
func (r *Registry) Lookup(name string) (*Scope, bool) {
	scope, ok := r.entries[strings.ToLower(name)]
	return scope, ok
}

// Has reports whether a CTE with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.entries[strings.ToLower(name)]
	return ok
}

// Len returns the number of registered CTEs.
func (r *Registry) Len() int {
	return len(r.entries)
}
