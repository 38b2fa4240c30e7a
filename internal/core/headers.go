package core

// headers.go maps arbitrary source column headers to canonical field names.
//
// Matching is deliberately first-match, not best-match: the first canonical
// label in declaration order whose stripped form is contained in the stripped
// source header wins. Downstream behavior depends on this ordering, so do not
// "improve" it to longest-match without revisiting the schema declaration
// order.

import (
	"strings"
	"unicode"

	"github.com/SaiManikanta3434/Digitly-ai/internal/schema"
)

// NormalizeHeaders maps each raw header to a canonical field name for the
// given kind. Headers that match no canonical label pass through unchanged,
// so unknown columns survive under their original names. Pure function; an
// empty header row yields an empty mapping.
func NormalizeHeaders(headers []string, kind schema.Kind) map[string]string {
	specs := schema.Fields(kind)
	mapping := make(map[string]string, len(headers))

	for _, raw := range headers {
		stripped := stripHeader(raw)
		mapped := raw
		for _, spec := range specs {
			if strings.Contains(stripped, stripHeader(spec.Label)) {
				mapped = spec.Name
				break
			}
		}
		mapping[raw] = mapped
	}

	return mapping
}

// MapRows applies header normalization to a parsed sheet (first row is the
// header) and returns rows keyed by canonical field names. Cells beyond the
// header width are dropped; missing trailing cells are simply absent from
// the row map.
func MapRows(rows [][]string, kind schema.Kind) []RawRow {
	if len(rows) == 0 {
		return nil
	}

	header := rows[0]
	mapping := NormalizeHeaders(header, kind)

	out := make([]RawRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		raw := make(RawRow, len(header))
		for i, h := range header {
			if i >= len(row) {
				break
			}
			raw[mapping[h]] = CleanCell(row[i])
		}
		out = append(out, raw)
	}

	return out
}

// stripHeader lowercases a header and removes all whitespace, so that
// "Client ID", "ClientID" and "  client id  " all compare equal.
func stripHeader(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
