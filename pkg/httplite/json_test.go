package httplite

import (
	"errors"
	"testing"
)

type point struct{ x, y int }

func (p point) ToJSON() string {
	return "[" + itoa(p.x) + "," + itoa(p.y) + "]"
}

func itoa(i int) string {
	s, _ := ToJSON(i)
	return s
}

type colour int

func (c colour) String() string {
	return [...]string{"red", "green"}[c]
}

func TestToJSON(t *testing.T) {
	testCases := []struct {
		name     string
		value    any
		expected string
	}{
		{"string", "hi", `"hi"`},
		{"string escaped", "say \"hi\"\n", `"say \"hi\"\n"`},
		{"int", 42, "42"},
		{"negative int32", int32(-7), "-7"},
		{"uint", uint16(9), "9"},
		{"slice", []int{1, 2, 3}, "[1,2,3]"},
		{"array", [2]string{"a", "b"}, `["a","b"]`},
		{"empty slice", []int{}, "[]"},
		{"empty map", map[string]int{}, "{}"},
		{"sorted keys", map[string]int{"b": 2, "a": 1, "c": 3}, `{"a":1,"b":2,"c":3}`},
		{"int keys", map[int]string{10: "x", 2: "y"}, `{"10":"x","2":"y"}`},
		{"stringer keys", map[colour]int{1: 5, 0: 4}, `{"green":5,"red":4}`},
		{
			"nested",
			map[string]any{"list": []any{"a", 1}, "inner": map[string]any{"k": "v"}},
			`{"inner":{"k":"v"},"list":["a",1]}`,
		},
		{"jsoner", point{1, 2}, "[1,2]"},
		{"jsoner in slice", []point{{1, 2}, {3, 4}}, "[[1,2],[3,4]]"},
		{"pointer", func() *int { i := 5; return &i }(), "5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToJSON(tc.value)
			if err != nil {
				t.Fatalf("ToJSON failed: %v", err)
			}
			if got != tc.expected {
				t.Errorf("ToJSON() = %s, want %s", got, tc.expected)
			}
		})
	}
}

func TestToJSONUnsupported(t *testing.T) {
	testCases := []struct {
		name  string
		value any
	}{
		{"nil", nil},
		{"bool", true},
		{"float", 1.5},
		{"nested bool", map[string]any{"ok": []any{false}}},
		{"nil pointer", (*int)(nil)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ToJSON(tc.value)
			if !errors.Is(err, ErrUnsupportedJSON) {
				t.Errorf("Expected ErrUnsupportedJSON, got %v", err)
			}
		})
	}
}
