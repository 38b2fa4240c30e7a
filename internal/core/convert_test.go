package core

import (
	"reflect"
	"testing"
)

func TestCleanCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello", "hello"},
		{"padded", "  hello  ", "hello"},
		{"excel formula text", `="T1"`, "T1"},
		{"bare formula prefix", "=42", "42"},
		{"double quoted", `"hello"`, "hello"},
		{"single quoted", "'hello'", "hello"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanCell(tt.input); got != tt.want {
				t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestToInt(t *testing.T) {
	tests := []struct {
		name            string
		input           any
		fallback        int
		want            int
		wantSubstituted bool
	}{
		{"plain integer", "42", 1, 42, false},
		{"decimal truncates", "3.9", 1, 3, false},
		{"currency", "$1,200", 1, 1200, false},
		{"accounting negative", "(5)", 1, -5, false},
		{"already int", 7, 1, 7, false},
		{"already float", 2.5, 1, 2, false},

		// Absent and empty take the fallback silently
		{"nil", nil, 1, 1, false},
		{"empty string", "", 1, 1, false},
		{"whitespace", "   ", 1, 1, false},

		// Non-empty garbage takes the fallback and reports it
		{"text", "abc", 1, 1, true},
		{"mixed", "12abc", 1, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, substituted := toInt(tt.input, tt.fallback)
			if got != tt.want {
				t.Errorf("toInt(%v) = %d, want %d", tt.input, got, tt.want)
			}
			if substituted != tt.wantSubstituted {
				t.Errorf("toInt(%v) substituted = %v, want %v", tt.input, substituted, tt.wantSubstituted)
			}
		})
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		name            string
		input           any
		fallback        float64
		want            float64
		wantSubstituted bool
	}{
		{"decimal", "12.5", 0, 12.5, false},
		{"currency with thousands", "€1,234.56", 0, 1234.56, false},
		{"scientific", "1e3", 0, 1000, false},
		{"nil", nil, 0, 0, false},
		{"garbage", "lots", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, substituted := toFloat(tt.input, tt.fallback)
			if got != tt.want {
				t.Errorf("toFloat(%v) = %v, want %v", tt.input, got, tt.want)
			}
			if substituted != tt.wantSubstituted {
				t.Errorf("toFloat(%v) substituted = %v, want %v", tt.input, substituted, tt.wantSubstituted)
			}
		})
	}
}

func TestToStringList(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  []string
	}{
		{"comma separated", "a, b ,c", []string{"a", "b", "c"}},
		{"json style array", `["a","b"]`, []string{"a", "b"}},
		{"single value", "welding", []string{"welding"}},
		{"nil", nil, []string{}},
		{"empty", "", []string{}},
		{"existing slice", []string{"x"}, []string{"x"}},
		{"any slice", []any{"x", " y "}, []string{"x", "y"}},
		{"drops empty pieces", "a,,b,", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toStringList(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("toStringList(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestToIntList(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  []int
	}{
		{"comma separated", "1, 2, 3", []int{1, 2, 3}},
		{"json style array", "[2,4,6]", []int{2, 4, 6}},
		{"range expands inclusive", "1-3", []int{1, 2, 3}},
		{"range with spaces", "2 - 5", []int{2, 3, 4, 5}},
		{"single value", "7", []int{7}},
		{"drops unparsable pieces", "1, x, 3", []int{1, 3}},
		{"nil", nil, []int{}},
		{"empty", "", []int{}},
		{"existing slice", []int{9}, []int{9}},
		{"inverted range falls back to pieces", "5-2", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toIntList(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("toIntList(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, ""},
		{"string", "x", "x"},
		{"string list", []string{"a", "b"}, "a, b"},
		{"int list", []int{1, 2}, "1, 2"},
		{"float drops trailing zeros", 2.50, "2.5"},
		{"int", 3, "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stringify(tt.input); got != tt.want {
				t.Errorf("stringify(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
