package core

// parse.go reads uploaded spreadsheet bytes into string rows. CSV parsing is
// forgiving (lazy quotes, ragged rows, UTF-8 repair); XLSX reads the first
// sheet only. Unsupported extensions are rejected before any bytes are
// inspected.

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// MaxFileSize is the maximum allowed upload size per file (10MB).
var MaxFileSize int64 = 10 * 1024 * 1024

// ParseFile dispatches on file extension and returns the raw string rows,
// header row first.
func ParseFile(name string, data []byte) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return parseCSV(data)
	case ".xlsx":
		return parseXLSX(data)
	default:
		return nil, fmt.Errorf("unsupported file type: %s (use .csv or .xlsx)", filepath.Ext(name))
	}
}

func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(sanitizeUTF8(data)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	return rows, nil
}

func parseXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("empty file: workbook has no sheets")
	}

	// First sheet only; additional sheets are ignored.
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("invalid xlsx: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	return rows, nil
}

// sanitizeUTF8 replaces invalid byte sequences with the replacement rune so
// downstream string handling never sees broken encoding.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
