package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hksahil/cognos-to-powerbi-sub000/lineage"
)

func sampleRecords() []lineage.Record {
	return []lineage.Record{
		{
			Item:        "y",
			Clause:      lineage.ClauseSelect,
			Kind:        lineage.KindBase,
			Resolved:    "t.x",
			BaseColumns: []string{"t.x"},
		},
		{
			Item:        "Filter in Final Select",
			Clause:      lineage.ClauseWhere,
			Kind:        lineage.KindFilter,
			Resolved:    "t.a = 1",
			BaseColumns: []string{"t.a"},
		},
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewJSONFormatter(&buf)

	if err := formatter.Format(sampleRecords()); err != nil {
		t.Fatalf("unexpected format error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 JSON lines, got %d", len(lines))
	}

	var first map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("first line is not valid JSON: %v", err)
	}
	if first["item"] != "y" {
		t.Errorf("expected item y, got %v", first["item"])
	}
	if first["clause"] != "SELECT" {
		t.Errorf("expected clause SELECT, got %v", first["clause"])
	}
	if first["kind"] != "base" {
		t.Errorf("expected kind base, got %v", first["kind"])
	}

	var second map[string]interface{}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("second line is not valid JSON: %v", err)
	}
	if second["kind"] != "filter_condition" {
		t.Errorf("expected kind filter_condition, got %v", second["kind"])
	}
}

func TestJSONFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewJSONFormatter(&buf)

	if err := formatter.Format(nil); err != nil {
		t.Fatalf("unexpected format error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output for no records, got %q", buf.String())
	}
}
