package core

// export.go renders the cleaned collections back out as CSV, XLSX or JSON,
// plus the rules-config document. Column order follows schema declaration
// order; list fields are re-joined with ", " so a clean round-trip through
// import reproduces an equivalent file.

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SaiManikanta3434/Digitly-ai/internal/schema"
)

// ExportFormat selects the download encoding.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
	FormatJSON ExportFormat = "json"
)

// ParseExportFormat validates a format string from a query parameter.
// An empty string defaults to CSV.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case FormatCSV, "":
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format: %q (use csv, xlsx or json)", s)
	}
}

// Export renders one entity kind's collection in the requested format.
func (s *Service) Export(kind schema.Kind, format ExportFormat) ([]byte, string, error) {
	rows, err := s.exportRows(kind)
	if err != nil {
		return nil, "", err
	}

	switch format {
	case FormatCSV:
		data, err := renderCSV(rows)
		return data, "text/csv", err
	case FormatXLSX:
		data, err := renderXLSX(string(kind), rows)
		return data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", err
	case FormatJSON:
		data, err := s.exportJSON(kind)
		return data, "application/json", err
	default:
		return nil, "", fmt.Errorf("unknown export format: %q", format)
	}
}

// ExportRulesConfig renders the rules + weights document.
func (s *Service) ExportRulesConfig() ([]byte, error) {
	cfg := RulesConfig{
		GeneratedAt: time.Now().UTC(),
		Rules:       s.Rules(),
		Weights:     s.state.Weights(),
	}
	return json.MarshalIndent(cfg, "", "  ")
}

// exportRows flattens a collection into string rows, header first.
func (s *Service) exportRows(kind schema.Kind) ([][]string, error) {
	cols := schema.Columns(kind)
	if cols == nil {
		return nil, fmt.Errorf("unknown entity kind: %q", kind)
	}

	ds := s.state.Dataset()
	rows := [][]string{cols}

	appendRecord := func(r Record) {
		fields := r.Fields()
		row := make([]string, len(cols))
		for i, col := range cols {
			row[i] = stringify(fields[col])
		}
		rows = append(rows, row)
	}

	switch kind {
	case schema.KindClients:
		for _, r := range ds.Clients {
			appendRecord(r)
		}
	case schema.KindWorkers:
		for _, r := range ds.Workers {
			appendRecord(r)
		}
	case schema.KindTasks:
		for _, r := range ds.Tasks {
			appendRecord(r)
		}
	}

	return rows, nil
}

func (s *Service) exportJSON(kind schema.Kind) ([]byte, error) {
	ds := s.state.Dataset()
	switch kind {
	case schema.KindClients:
		return json.MarshalIndent(ds.Clients, "", "  ")
	case schema.KindWorkers:
		return json.MarshalIndent(ds.Workers, "", "  ")
	case schema.KindTasks:
		return json.MarshalIndent(ds.Tasks, "", "  ")
	default:
		return nil, fmt.Errorf("unknown entity kind: %q", kind)
	}
}

func renderCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func renderXLSX(sheet string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet is renamed so the export names its entity kind.
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("cell address: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
