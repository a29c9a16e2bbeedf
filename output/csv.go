package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/hksahil/cognos-to-powerbi-sub000/lineage"
)

// CSVFormatter outputs records as CSV format
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes records as CSV with a header row. Base columns are
// joined with semicolons inside one cell.
func (c *CSVFormatter) Format(records []lineage.Record) error {
	csvWriter := csv.NewWriter(c.writer)

	header := []string{"item", "clause", "kind", "resolved", "base_columns"}
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, record := range records {
		row := []string{
			record.Item,
			record.Clause.String(),
			record.Kind.String(),
			record.Resolved,
			strings.Join(record.BaseColumns, ";"),
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}
