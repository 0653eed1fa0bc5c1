package yamlutil

import "testing"

func TestMarshalUsesTwoSpaceIndent(t *testing.T) {
	t.Parallel()

	encoded, err := Marshal(map[string]any{
		"contexts": []any{map[string]any{"name": "local"}},
		"paths":    map[string]any{"vendor": "admin/vendors"},
	})
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}

	want := "contexts:\n  - name: local\npaths:\n  vendor: admin/vendors\n"
	if string(encoded) != want {
		t.Fatalf("expected %q, got %q", want, string(encoded))
	}
}

func TestMarshalWithIndent(t *testing.T) {
	t.Parallel()

	encoded, err := MarshalWithIndent(map[string]any{"api": map[string]any{"timeout": "5s"}}, 4)
	if err != nil {
		t.Fatalf("MarshalWithIndent returned error: %v", err)
	}
	if string(encoded) != "api:\n    timeout: 5s\n" {
		t.Fatalf("unexpected encoding %q", string(encoded))
	}
}
