package dataprovider

import (
	"encoding/json"
	"testing"
)

func TestQueryParamsOrdering(t *testing.T) {
	t.Parallel()

	query := newQueryParams()
	query.Set("b", "1")
	query.Set("a", "2")
	query.Set("b", "3")
	query.Add("id", "x")
	query.Add("id", "y")

	if got := query.Encode(); got != "b=3&a=2&id=x&id=y" {
		t.Fatalf("unexpected encoding %q", got)
	}
	if query.Len() != 4 {
		t.Fatalf("expected 4 pairs, got %d", query.Len())
	}

	var empty *queryParams
	if empty.Encode() != "" {
		t.Fatal("expected nil query to encode empty")
	}
}

func TestEncodeComponent(t *testing.T) {
	t.Parallel()

	testCases := map[string]string{
		"plain":       "plain",
		"two words":   "two%20words",
		"a+b":         "a%2Bb",
		"x=y&z":       "x%3Dy%26z",
		"café":        "caf%C3%A9",
		"100%":        "100%25",
		"path/to?raw": "path%2Fto%3Fraw",
		"wow!(it's)*": "wow!(it's)*",
		"a~b-c_d.e":   "a~b-c_d.e",
		"%2A":         "%252A",
		"#;:@$,":      "%23%3B%3A%40%24%2C",
	}

	for input, want := range testCases {
		if got := encodeComponent(input); got != want {
			t.Fatalf("encodeComponent(%q): expected %q, got %q", input, want, got)
		}
	}
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil", value: nil, want: ""},
		{name: "string", value: "rose", want: "rose"},
		{name: "number", value: json.Number("12"), want: "12"},
		{name: "bool", value: false, want: "false"},
		{name: "int", value: 42, want: "42"},
		{name: "int64", value: int64(-7), want: "-7"},
		{name: "float", value: 2.5, want: "2.5"},
		{name: "whole_float", value: float64(3), want: "3"},
		{name: "string_slice", value: []string{"a", "b"}, want: "a,b"},
		{name: "any_slice", value: []any{1, "b", true}, want: "1,b,true"},
		{name: "map", value: map[string]any{"gte": 10}, want: `{"gte":10}`},
	}

	for _, testCase := range testCases {
		if got := formatValue(testCase.value); got != testCase.want {
			t.Fatalf("%s: expected %q, got %q", testCase.name, testCase.want, got)
		}
	}
}
