// Package output provides formatters for rendering lineage records to
// various output formats.
//
// Currently supported formats:
//   - Table: human-readable aligned table
//   - JSON Lines: one JSON object per record
//   - CSV: comma-separated values with header row
package output

import (
	"fmt"
	"io"

	"github.com/hksahil/cognos-to-powerbi-sub000/lineage"
)

// Formatter defines the interface for lineage record formatters.
type Formatter interface {
	// Format writes records in the formatter's specific format
	Format(records []lineage.Record) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// New returns the formatter registered for a format name.
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case "table":
		return NewTableFormatter(w), nil
	case "jsonl":
		return NewJSONFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}
