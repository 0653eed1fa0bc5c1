package common

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/crmarques/weddash/faults"
	"github.com/crmarques/weddash/session"
)

func TestDecodeRecordFromStdin(t *testing.T) {
	t.Parallel()

	command := &cobra.Command{Use: "test"}
	command.SetIn(strings.NewReader(`{"name":"Rosa","capacity":120}`))

	record, err := DecodeRecord(command, InputFlags{Payload: "-", Format: OutputJSON})
	if err != nil {
		t.Fatalf("DecodeRecord returned error: %v", err)
	}
	if record["name"] != "Rosa" || record["capacity"] != json.Number("120") {
		t.Fatalf("unexpected record %#v", record)
	}
}

func TestDecodeRecordFromYAMLFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "vendor.yaml")
	if err := os.WriteFile(path, []byte("name: Flores\ncities:\n  - Lisboa\n"), 0o600); err != nil {
		t.Fatalf("write payload: %v", err)
	}

	record, err := DecodeRecord(&cobra.Command{Use: "test"}, InputFlags{Payload: path, Format: OutputYAML})
	if err != nil {
		t.Fatalf("DecodeRecord returned error: %v", err)
	}
	cities, ok := record["cities"].([]any)
	if record["name"] != "Flores" || !ok || len(cities) != 1 {
		t.Fatalf("unexpected record %#v", record)
	}
}

func TestDecodeRecordRejectsBadInput(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		stdin string
		flags InputFlags
	}{
		{name: "empty", stdin: "  ", flags: InputFlags{Format: OutputJSON}},
		{name: "array", stdin: `[1,2]`, flags: InputFlags{Format: OutputJSON}},
		{name: "null", stdin: `null`, flags: InputFlags{Format: OutputJSON}},
		{name: "format", stdin: `{}`, flags: InputFlags{Format: "toml"}},
		{name: "yaml", stdin: "a: [", flags: InputFlags{Format: OutputYAML}},
		{name: "missing_file", flags: InputFlags{Payload: filepath.Join(os.TempDir(), "weddash-missing", "payload.json")}},
	}

	for _, testCase := range testCases {
		command := &cobra.Command{Use: "test"}
		command.SetIn(strings.NewReader(testCase.stdin))
		if _, err := DecodeRecord(command, testCase.flags); !faults.IsCategory(err, faults.ValidationError) {
			t.Fatalf("%s: expected validation error, got %v", testCase.name, err)
		}
	}
}

func TestParseAssignments(t *testing.T) {
	t.Parallel()

	parsed, err := ParseAssignments("filter", []string{"city=Porto", " q = a=b ", "city=Braga"})
	if err != nil {
		t.Fatalf("ParseAssignments returned error: %v", err)
	}
	if len(parsed) != 2 || parsed["city"] != "Braga" || parsed["q"] != "a=b" {
		t.Fatalf("unexpected assignments %#v", parsed)
	}

	if empty, err := ParseAssignments("set", nil); err != nil || empty != nil {
		t.Fatalf("expected nil map, got %#v (%v)", empty, err)
	}

	for _, bad := range []string{"novalue", "=x"} {
		if _, err := ParseAssignments("set", []string{bad}); !faults.IsCategory(err, faults.ValidationError) {
			t.Fatalf("%q: expected validation error, got %v", bad, err)
		}
	}
}

func TestFlagValues(t *testing.T) {
	t.Parallel()

	var role RoleValue
	if err := role.Set("event_planner"); err != nil || role.Role != session.RoleEventPlanner {
		t.Fatalf("unexpected role %v (%v)", role.Role, err)
	}
	if role.String() != "EVENT_PLANNER" {
		t.Fatalf("unexpected role string %q", role.String())
	}
	if err := role.Set("guest"); err == nil {
		t.Fatal("expected unknown role to fail")
	}

	var order SortOrderValue
	if err := order.Set("asc"); err != nil || order.String() != "ASC" {
		t.Fatalf("unexpected order %q (%v)", order.String(), err)
	}
	if err := order.Set("sideways"); err == nil {
		t.Fatal("expected unknown order to fail")
	}
}

func TestResourceArgCompletion(t *testing.T) {
	t.Parallel()

	names, _ := ResourceArgCompletion(nil, nil, "")
	joined := strings.Join(names, ",")
	if !strings.Contains(joined, "vendor") || !strings.Contains(joined, "event-planner") {
		t.Fatalf("unexpected completion %v", names)
	}
	if more, _ := ResourceArgCompletion(nil, []string{"vendor"}, ""); more != nil {
		t.Fatalf("expected no completion after the resource, got %v", more)
	}
}
