// Package sqltree is a narrow adapter over the pg_query parse tree.
//
// The lineage core only needs a handful of operations against the
// parser's native protobuf nodes: parse, deep copy, render back to SQL,
// find nodes of a kind, and rewrite column references in place. Keeping
// them here means the rest of the code never touches protobuf
// internals directly.
package sqltree

import (
	"fmt"
	"sort"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Parse parses SQL text into the parser's native tree.
func Parse(sql string) (*pg_query.ParseResult, error) {
	result, err := pg_query.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SQL: %w", err)
	}
	return result, nil
}

// Statement returns the first statement node of a parse result, or nil
// if the result holds no statements.
func Statement(result *pg_query.ParseResult) *pg_query.Node {
	if result == nil || len(result.Stmts) == 0 {
		return nil
	}
	return result.Stmts[0].Stmt
}

// Clone returns a deep copy of a node. Resolution rewrites copies so
// the input tree is never mutated.
func Clone(node *pg_query.Node) *pg_query.Node {
	if node == nil {
		return nil
	}
	return proto.Clone(node).(*pg_query.Node)
}

// Walk visits every protobuf message beneath root in pre-order,
// including root itself. Children are visited in field-number order so
// traversal is deterministic. Returning false from visit skips the
// message's children.
func Walk(root proto.Message, visit func(msg proto.Message) bool) {
	if root == nil {
		return
	}
	m := root.ProtoReflect()
	if !m.IsValid() {
		return
	}
	if !visit(root) {
		return
	}

	type field struct {
		fd protoreflect.FieldDescriptor
		v  protoreflect.Value
	}
	var fields []field
	m.Range(func(fd protoreflect.FieldDescriptor, v protoreflect.Value) bool {
		fields = append(fields, field{fd, v})
		return true
	})
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].fd.Number() < fields[j].fd.Number()
	})

	for _, f := range fields {
		switch {
		case f.fd.IsList():
			if f.fd.Message() == nil {
				continue
			}
			list := f.v.List()
			for i := 0; i < list.Len(); i++ {
				Walk(list.Get(i).Message().Interface(), visit)
			}
		case f.fd.IsMap():
			// The parse tree has no map fields.
		case f.fd.Message() != nil:
			Walk(f.v.Message().Interface(), visit)
		}
	}
}

// FindSelects returns every SELECT statement beneath root in traversal
// order, including root itself when it is one.
func FindSelects(root proto.Message) []*pg_query.SelectStmt {
	var selects []*pg_query.SelectStmt
	Walk(root, func(msg proto.Message) bool {
		if sel, ok := msg.(*pg_query.SelectStmt); ok {
			selects = append(selects, sel)
		}
		return true
	})
	return selects
}

// FindCTEs returns every common table expression beneath root in
// traversal order.
func FindCTEs(root proto.Message) []*pg_query.CommonTableExpr {
	var ctes []*pg_query.CommonTableExpr
	Walk(root, func(msg proto.Message) bool {
		if cte, ok := msg.(*pg_query.CommonTableExpr); ok {
			ctes = append(ctes, cte)
		}
		return true
	})
	return ctes
}

// FindColumnRefs returns every column reference beneath root in
// traversal order.
func FindColumnRefs(root proto.Message) []*pg_query.ColumnRef {
	var refs []*pg_query.ColumnRef
	Walk(root, func(msg proto.Message) bool {
		if ref, ok := msg.(*pg_query.ColumnRef); ok {
			refs = append(refs, ref)
		}
		return true
	})
	return refs
}

// RewriteColumns calls fn for every column reference beneath root. A
// non-nil return value replaces the reference in place; the replacement
// itself is not revisited. Callers pass a cloned tree when the original
// must stay intact.
func RewriteColumns(root *pg_query.Node, fn func(ref *pg_query.ColumnRef) *pg_query.Node) {
	Walk(root, func(msg proto.Message) bool {
		node, ok := msg.(*pg_query.Node)
		if !ok {
			return true
		}
		ref := node.GetColumnRef()
		if ref == nil {
			return true
		}
		if repl := fn(ref); repl != nil {
			node.Node = repl.Node
		}
		return false
	})
}

// Render deparses a single expression node back to SQL text. The
// deparser only operates on whole statements, so the expression is
// wrapped in a one-item SELECT and the keyword stripped afterwards.
func Render(expr *pg_query.Node) (string, error) {
	if expr == nil {
		return "", fmt.Errorf("cannot render nil expression")
	}
	sel := &pg_query.SelectStmt{
		TargetList: []*pg_query.Node{
			{Node: &pg_query.Node_ResTarget{ResTarget: &pg_query.ResTarget{Val: expr}}},
		},
	}
	result := &pg_query.ParseResult{
		Stmts: []*pg_query.RawStmt{
			{Stmt: &pg_query.Node{Node: &pg_query.Node_SelectStmt{SelectStmt: sel}}},
		},
	}
	sql, err := pg_query.Deparse(result)
	if err != nil {
		return "", fmt.Errorf("failed to render expression: %w", err)
	}
	return strings.TrimPrefix(sql, "SELECT "), nil
}

// ColumnParts returns the string fields of a column reference in order
// (qualifiers first, column name last). A trailing star is returned as
// "*". The second result is false if the reference ends in a star
// instead of a column name.
func ColumnParts(ref *pg_query.ColumnRef) ([]string, bool) {
	if ref == nil {
		return nil, false
	}
	parts := make([]string, 0, len(ref.Fields))
	endsInName := false
	for _, field := range ref.Fields {
		if str := field.GetString_(); str != nil {
			parts = append(parts, str.Sval)
			endsInName = true
		} else if field.GetAStar() != nil {
			parts = append(parts, "*")
			endsInName = false
		}
	}
	return parts, endsInName
}

// ColumnName splits a column reference into its table qualifier and
// column name. Qualifiers beyond the table (schema, catalog) are
// ignored for matching purposes. ok is false for star references.
func ColumnName(ref *pg_query.ColumnRef) (qualifier, column string, ok bool) {
	parts, endsInName := ColumnParts(ref)
	if !endsInName || len(parts) == 0 {
		return "", "", false
	}
	column = parts[len(parts)-1]
	if len(parts) >= 2 {
		qualifier = parts[len(parts)-2]
	}
	return qualifier, column, true
}

// QualifiedName renders a column reference structurally as its parts
// joined with dots. Unlike Render, the result is independent of
// deparser spacing, which makes it a stable identifier and sort key.
func QualifiedName(ref *pg_query.ColumnRef) string {
	parts, _ := ColumnParts(ref)
	return strings.Join(parts, ".")
}

// MakeColumnRef builds a column reference node from name parts
// (qualifiers first, column name last).
func MakeColumnRef(parts ...string) *pg_query.Node {
	fields := make([]*pg_query.Node, 0, len(parts))
	for _, part := range parts {
		fields = append(fields, &pg_query.Node{
			Node: &pg_query.Node_String_{String_: &pg_query.String{Sval: part}},
		})
	}
	return &pg_query.Node{
		Node: &pg_query.Node_ColumnRef{ColumnRef: &pg_query.ColumnRef{Fields: fields}},
	}
}

// TableName assembles the qualified name of a table reference in
// catalog.schema.table form, skipping absent qualifiers.
func TableName(rv *pg_query.RangeVar) string {
	if rv == nil {
		return ""
	}
	var parts []string
	if rv.Catalogname != "" {
		parts = append(parts, rv.Catalogname)
	}
	if rv.Schemaname != "" {
		parts = append(parts, rv.Schemaname)
	}
	parts = append(parts, rv.Relname)
	return strings.Join(parts, ".")
}
