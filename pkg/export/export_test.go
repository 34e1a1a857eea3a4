package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Title: "Stock items",
		Columns: []Column{
			{Key: "name", Label: "Name"},
			{Key: "sku", Label: "SKU"},
			{Key: "status", Label: "Status"},
		},
		Rows: []map[string]string{
			{"name": "Detergente", "sku": "SKU-1", "status": "Estoque normal"},
			{"name": "Sabão, neutro", "sku": "SKU-2", "status": "Estoque baixo"},
			{"name": "Esponja", "sku": "", "status": "Sem estoque"},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleDataset()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "Name,SKU,Status" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	// a cell containing a comma must come out quoted
	if !strings.Contains(lines[2], `"Sabão, neutro"`) {
		t.Errorf("expected quoted cell in %q", lines[2])
	}
	// missing cells still yield a field
	if lines[3] != "Esponja,,Sem estoque" {
		t.Errorf("unexpected row with empty cell: %q", lines[3])
	}
}

func TestWriteCSVEmptyDataset(t *testing.T) {
	var buf bytes.Buffer
	ds := sampleDataset()
	ds.Rows = nil

	if err := WriteCSV(&buf, ds); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 1 {
		t.Errorf("expected only the header line, got %d lines", len(lines))
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleDataset()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("output is not a readable workbook: %v", err)
	}
	defer f.Close()

	header, err := f.GetCellValue("Sheet1", "A1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if header != "Name" {
		t.Errorf("A1 = %q, want Name", header)
	}
	cell, err := f.GetCellValue("Sheet1", "B2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cell != "SKU-1" {
		t.Errorf("B2 = %q, want SKU-1", cell)
	}
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, sampleDataset()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"<title>Stock items</title>", "<th>Name</th>", "<td>Detergente</td>", "<td>Sem estoque</td>"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Count(out, "<tr>") != 4 {
		t.Errorf("expected header row + 3 body rows, got %d <tr> tags", strings.Count(out, "<tr>"))
	}
}
