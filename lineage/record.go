package lineage

import "fmt"

// Clause identifies which part of the query a record came from.
type Clause int

const (
	ClauseSelect Clause = iota
	ClauseWhere
)

// String returns the string representation of Clause
func (c Clause) String() string {
	switch c {
	case ClauseSelect:
		return "SELECT"
	case ClauseWhere:
		return "WHERE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(c))
	}
}

// MarshalJSON encodes the clause as its string form.
func (c Clause) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// Kind classifies what a record's resolved expression is.
type Kind int

const (
	// KindBase means the resolved expression is a single table column.
	KindBase Kind = iota
	// KindExpression means the resolved expression derives from one or
	// more columns.
	KindExpression
	// KindFilter marks a WHERE conjunct.
	KindFilter
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindBase:
		return "base"
	case KindExpression:
		return "expression"
	case KindFilter:
		return "filter_condition"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(k))
	}
}

// MarshalJSON encodes the kind as its string form.
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// Record is one reported unit of lineage: a select-list item or one
// WHERE conjunct, with its fully-resolved text and the sorted set of
// base table columns it derives from. BaseColumns is exactly the set
// of column references left in the resolved expression, never
// intermediate aliases.
type Record struct {
	Item        string   `json:"item"`
	Clause      Clause   `json:"clause"`
	Kind        Kind     `json:"kind"`
	Resolved    string   `json:"resolved"`
	BaseColumns []string `json:"base_columns"`
}
