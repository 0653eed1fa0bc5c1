package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"

	"github.com/crmarques/weddash/faults"
)

func TestShouldSuppressStatusMessage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
		want bool
	}{
		{name: "default false", args: []string{"resource", "delete", "vendor", "1"}, want: false},
		{name: "long flag", args: []string{"--no-status", "resource", "delete", "vendor", "1"}, want: true},
		{name: "short flag", args: []string{"-n", "resource", "delete", "vendor", "1"}, want: true},
		{name: "flag after positionals", args: []string{"resource", "delete", "vendor", "1", "--no-status"}, want: true},
		{name: "explicit true", args: []string{"--no-status=true", "resource", "delete", "vendor", "1"}, want: true},
		{name: "explicit false", args: []string{"--no-status=false", "resource", "delete", "vendor", "1"}, want: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := shouldSuppressStatusMessage(testCase.args)
			if got != testCase.want {
				t.Fatalf("shouldSuppressStatusMessage(%v) = %t, want %t", testCase.args, got, testCase.want)
			}
		})
	}
}

func TestExecutionStatusWriters(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		buffer := &bytes.Buffer{}
		writeExecutionOKStatus(buffer)
		if got, want := buffer.String(), "[OK] command executed successfully.\n"; got != want {
			t.Fatalf("writeExecutionOKStatus() = %q, want %q", got, want)
		}
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()

		buffer := &bytes.Buffer{}
		writeExecutionErrorStatus(buffer, errors.New("record not found"))
		if got, want := buffer.String(), "[ERROR] command execution failed: record not found.\n"; got != want {
			t.Fatalf("writeExecutionErrorStatus() = %q, want %q", got, want)
		}
	})
}

func TestShouldSuppressColor(t *testing.T) {
	t.Run("no color env", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		if !shouldSuppressColor([]string{"resource", "get", "vendor", "1"}) {
			t.Fatal("expected color suppression when NO_COLOR is set")
		}
	})

	t.Run("flag parsing", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		if !shouldSuppressColor([]string{"resource", "get", "vendor", "1", "--no-color"}) {
			t.Fatal("expected color suppression for --no-color")
		}
		if shouldSuppressColor([]string{"resource", "get", "vendor", "1", "--no-color=false"}) {
			t.Fatal("expected color enabled when --no-color=false")
		}
	})
}

func TestSupportsANSIStatusRejectsNonTerminalWriters(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "xterm-256color")

	if supportsANSIStatus(&bytes.Buffer{}) {
		t.Fatal("expected buffers to be treated as non-terminal")
	}
}

func TestShouldEmitExecutionStatus(t *testing.T) {
	t.Parallel()

	buildCommandPath := func(names ...string) *cobra.Command {
		root := &cobra.Command{Use: "weddash"}
		current := root
		for _, name := range names {
			next := &cobra.Command{Use: name}
			current.AddCommand(next)
			current = next
		}
		return current
	}

	testCases := []struct {
		name    string
		args    []string
		command []string
		want    bool
	}{
		{name: "mutation command", args: []string{"resource", "create", "vendor"}, command: []string{"resource", "create"}, want: true},
		{name: "bulk mutation", args: []string{"resource", "delete-many", "vendor", "1", "2"}, command: []string{"resource", "delete-many"}, want: true},
		{name: "mutation command no status", args: []string{"resource", "create", "vendor", "--no-status"}, command: []string{"resource", "create"}, want: false},
		{name: "help invocation", args: []string{"resource", "create", "--help"}, command: []string{"resource", "create"}, want: false},
		{name: "completion invocation", args: []string{"completion", "bash"}, command: []string{"completion", "bash"}, want: false},
		{name: "read command", args: []string{"resource", "get", "vendor", "1"}, command: []string{"resource", "get"}, want: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := shouldEmitExecutionStatus(testCase.args, buildCommandPath(testCase.command...))
			if got != testCase.want {
				t.Fatalf("shouldEmitExecutionStatus(%v) = %t, want %t", testCase.args, got, testCase.want)
			}
		})
	}
}

func TestExitCodeForError(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		err  error
		want int
	}{
		{err: nil, want: 0},
		{err: errors.New("plain"), want: 1},
		{err: faults.NewTypedError(faults.ValidationError, "bad", nil), want: 2},
		{err: faults.NewTypedError(faults.NotFoundError, "missing", nil), want: 3},
		{err: faults.NewTypedError(faults.AuthError, "denied", nil), want: 4},
		{err: faults.NewTypedError(faults.ConflictError, "conflict", nil), want: 5},
		{err: faults.NewTypedError(faults.TransportError, "down", nil), want: 6},
		{err: faults.NewTypedError(faults.UnsupportedError, "nope", nil), want: 7},
		{err: faults.NewTypedError(faults.InternalError, "bug", nil), want: 1},
		{err: fmt.Errorf("wrapped: %w", faults.NewTypedError(faults.AuthError, "denied", nil)), want: 4},
	}

	for _, testCase := range testCases {
		if got := ExitCodeForError(testCase.err); got != testCase.want {
			t.Fatalf("ExitCodeForError(%v) = %d, want %d", testCase.err, got, testCase.want)
		}
	}
}
