package output

import (
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/hksahil/cognos-to-powerbi-sub000/lineage"
)

// TableFormatter outputs records as a human-readable aligned table
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format writes records as an aligned table
func (t *TableFormatter) Format(records []lineage.Record) error {
	table := tablewriter.NewWriter(t.writer)
	table.SetHeader([]string{"Item", "Clause", "Kind", "Resolved", "Base Columns"})
	table.SetAutoWrapText(false)

	for _, record := range records {
		table.Append([]string{
			record.Item,
			record.Clause.String(),
			record.Kind.String(),
			record.Resolved,
			strings.Join(record.BaseColumns, ", "),
		})
	}

	table.Render()
	return nil
}
