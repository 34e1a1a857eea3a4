// Package export renders tabular datasets to the download formats offered
// by the listing screens. Every format takes the same column/row shape: the
// output always carries one header per column label and exactly one line
// per row, regardless of missing cell values.
package export

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"io"

	"github.com/xuri/excelize/v2"
)

// Column maps a row key to the header label shown in the export.
type Column struct {
	Key   string
	Label string
}

// Dataset is a fully materialized table ready for rendering.
type Dataset struct {
	Title   string
	Columns []Column
	Rows    []map[string]string
}

// WriteCSV renders the dataset as RFC 4180 CSV. Cells containing commas,
// quotes or newlines come out quoted.
func WriteCSV(w io.Writer, ds Dataset) error {
	writer := csv.NewWriter(w)

	header := make([]string, len(ds.Columns))
	for i, col := range ds.Columns {
		header[i] = col.Label
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, len(ds.Columns))
	for _, row := range ds.Rows {
		for i, col := range ds.Columns {
			record[i] = row[col.Key]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

const xlsxSheet = "Sheet1"

// WriteXLSX renders the dataset as a single-sheet workbook.
func WriteXLSX(w io.Writer, ds Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, col := range ds.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(xlsxSheet, cell, col.Label); err != nil {
			return fmt.Errorf("failed to set header cell: %w", err)
		}
	}

	for r, row := range ds.Rows {
		for c, col := range ds.Columns {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("failed to compute data cell: %w", err)
			}
			if err := f.SetCellValue(xlsxSheet, cell, row[col.Key]); err != nil {
				return fmt.Errorf("failed to set data cell: %w", err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

var htmlTemplate = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
table { border-collapse: collapse; font-family: sans-serif; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
th { background: #f0f0f0; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<table>
<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Body}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

// WriteHTML renders the dataset as a standalone printable document.
func WriteHTML(w io.Writer, ds Dataset) error {
	header := make([]string, len(ds.Columns))
	for i, col := range ds.Columns {
		header[i] = col.Label
	}
	body := make([][]string, len(ds.Rows))
	for r, row := range ds.Rows {
		line := make([]string, len(ds.Columns))
		for c, col := range ds.Columns {
			line[c] = row[col.Key]
		}
		body[r] = line
	}

	data := struct {
		Title  string
		Header []string
		Body   [][]string
	}{Title: ds.Title, Header: header, Body: body}

	if err := htmlTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render html export: %w", err)
	}
	return nil
}
