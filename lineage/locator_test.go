package lineage

import (
	"testing"
)

func TestLocatorSources(t *testing.T) {
	t.Run("flattens join trees in declaration order", func(t *testing.T) {
		stmt := mustParse(t, `SELECT * FROM a
			JOIN b ON a.id = b.id
			JOIN c ON b.id = c.id`)
		locator, _, scope := newAnalysis(t, stmt)

		sources := locator.Sources(scope)
		if len(sources) != 3 {
			t.Fatalf("expected 3 sources, got %d", len(sources))
		}
		for i, want := range []string{"a", "b", "c"} {
			if sources[i].Name != want {
				t.Errorf("source %d: expected %q, got %q", i, want, sources[i].Name)
			}
			if sources[i].Kind != SourceTable {
				t.Errorf("source %d: expected table kind, got %s", i, sources[i].Kind)
			}
		}
	})

	t.Run("classifies subqueries", func(t *testing.T) {
		stmt := mustParse(t, `SELECT * FROM (SELECT x FROM t) s`)
		locator, _, scope := newAnalysis(t, stmt)

		sources := locator.Sources(scope)
		if len(sources) != 1 {
			t.Fatalf("expected 1 source, got %d", len(sources))
		}
		if sources[0].Kind != SourceSubquery {
			t.Errorf("expected subquery kind, got %s", sources[0].Kind)
		}
		if sources[0].EffectiveAlias() != "s" {
			t.Errorf("expected alias 's', got %q", sources[0].EffectiveAlias())
		}
		if _, ok := locator.ScopeFor(sources[0]); !ok {
			t.Errorf("expected subquery source to resolve to a scope")
		}
	})

	t.Run("CTE shadows a same-named table", func(t *testing.T) {
		stmt := mustParse(t, `WITH t AS (SELECT a FROM base) SELECT * FROM t`)
		locator, _, scope := newAnalysis(t, stmt)

		sources := locator.Sources(scope)
		if len(sources) != 1 {
			t.Fatalf("expected 1 source, got %d", len(sources))
		}
		if sources[0].Kind != SourceCTE {
			t.Errorf("expected cte kind, got %s", sources[0].Kind)
		}
	})

	t.Run("schema-qualified reference is never a CTE", func(t *testing.T) {
		stmt := mustParse(t, `WITH t AS (SELECT a FROM base) SELECT * FROM public.t`)
		locator, _, scope := newAnalysis(t, stmt)

		sources := locator.Sources(scope)
		if sources[0].Kind != SourceTable {
			t.Errorf("expected table kind for public.t, got %s", sources[0].Kind)
		}
		if sources[0].Name != "public.t" {
			t.Errorf("expected qualified name public.t, got %q", sources[0].Name)
		}
	})
}

func TestLocatorFindSource(t *testing.T) {
	stmt := mustParse(t, `SELECT * FROM employees e JOIN departments d ON e.dept_id = d.id`)
	locator, _, scope := newAnalysis(t, stmt)

	t.Run("matches alias case-insensitively", func(t *testing.T) {
		src, ok := locator.FindSource("D", scope)
		if !ok {
			t.Fatalf("expected to find source for alias D")
		}
		if src.Name != "departments" {
			t.Errorf("expected departments, got %q", src.Name)
		}
	})

	t.Run("empty alias returns the first source", func(t *testing.T) {
		src, ok := locator.FindSource("", scope)
		if !ok {
			t.Fatalf("expected to find a source")
		}
		if src.Name != "employees" {
			t.Errorf("expected first source employees, got %q", src.Name)
		}
	})

	t.Run("unknown alias finds nothing", func(t *testing.T) {
		if _, ok := locator.FindSource("zz", scope); ok {
			t.Errorf("expected no source for unknown alias")
		}
	})

	t.Run("bare table name works as its own alias", func(t *testing.T) {
		stmt := mustParse(t, `SELECT * FROM orders`)
		locator, _, scope := newAnalysis(t, stmt)
		src, ok := locator.FindSource("orders", scope)
		if !ok || src.Name != "orders" {
			t.Errorf("expected bare table name to match, got %v %v", src, ok)
		}
	})
}
