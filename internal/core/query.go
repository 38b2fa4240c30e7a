package core

// query.go is the in-memory search/sort facade the grid reads through.
//
// Filtering is a case-insensitive substring test against every stringified
// field of a record. Sorting compares the chosen field's native ordering:
// numeric for numbers, lexicographic for everything else. Equal keys have no
// tie-break; result order between equal keys is unspecified.

import (
	"sort"
	"strings"
)

// SortDir is a sort direction. The empty value means unsorted.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
	SortNone SortDir = ""
)

// SortState tracks the active sort key and direction for one grid.
type SortState struct {
	Column string  `json:"column"`
	Dir    SortDir `json:"dir"`
}

// Toggle advances the sort state for an activated column. Repeated
// activation of the same column cycles ascending, descending, unsorted;
// activating a different column starts a fresh ascending sort.
func (s SortState) Toggle(column string) SortState {
	if s.Column != column {
		return SortState{Column: column, Dir: SortAsc}
	}
	switch s.Dir {
	case SortAsc:
		return SortState{Column: column, Dir: SortDesc}
	case SortDesc:
		return SortState{}
	default:
		return SortState{Column: column, Dir: SortAsc}
	}
}

// Filter returns the records whose stringified field values contain term as
// a case-insensitive substring. An empty term matches everything.
func Filter[T Record](recs []T, term string) []T {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return recs
	}

	out := make([]T, 0, len(recs))
	for _, r := range recs {
		if recordMatches(r, term) {
			out = append(out, r)
		}
	}
	return out
}

func recordMatches(r Record, loweredTerm string) bool {
	for _, v := range r.Fields() {
		if strings.Contains(strings.ToLower(stringify(v)), loweredTerm) {
			return true
		}
	}
	return false
}

// Sort orders records by the named field. An unknown column or SortNone
// returns the input unchanged.
func Sort[T Record](recs []T, column string, dir SortDir) []T {
	if dir == SortNone || column == "" || len(recs) < 2 {
		return recs
	}

	out := append([]T(nil), recs...)
	sort.Slice(out, func(i, j int) bool {
		if dir == SortDesc {
			return fieldLess(out[j].Fields()[column], out[i].Fields()[column])
		}
		return fieldLess(out[i].Fields()[column], out[j].Fields()[column])
	})
	return out
}

// fieldLess compares two field values in their native ordering.
func fieldLess(a, b any) bool {
	af, aNum := asNumber(a)
	bf, bNum := asNumber(b)
	if aNum && bNum {
		return af < bf
	}
	return stringify(a) < stringify(b)
}

func asNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}
