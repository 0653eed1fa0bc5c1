package session

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	configdomain "github.com/crmarques/weddash/config"
	"github.com/crmarques/weddash/faults"
	"github.com/crmarques/weddash/internal/cli/common"
	sessiondomain "github.com/crmarques/weddash/session"
)

const (
	sourceFile   = "file"
	sourceEnv    = "env"
	sourceInline = "inline"
)

type sessionStatus struct {
	Context string `json:"context" yaml:"context"`
	Source  string `json:"source" yaml:"source"`
	Role    string `json:"role" yaml:"role"`
	Token   bool   `json:"token" yaml:"token"`
}

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "session",
		Short: "Manage the credentials of the selected context",
		Args:  cobra.NoArgs,
	}

	command.AddCommand(
		newShowCommand(deps, globalFlags),
		newSetCommand(deps, globalFlags),
		newClearCommand(deps, globalFlags),
	)
	return command
}

func newShowCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show where credentials come from and whether a token is present",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			runtime, err := common.RequireRuntime(command, deps, globalFlags)
			if err != nil {
				return err
			}

			status := sessionStatus{
				Context: runtime.Context.Name,
				Source:  sourceOf(runtime.Context.Session),
			}
			if runtime.Session != nil {
				role, token := sessiondomain.Read(runtime.Session)
				status.Role = sessiondomain.ParseRole(role).String()
				status.Token = strings.TrimSpace(token) != ""
			}

			return common.WriteResult(command, globalFlags, status, func(w io.Writer, value sessionStatus) error {
				token := "absent"
				if value.Token {
					token = "present"
				}
				_, writeErr := fmt.Fprintf(w, "context: %s\nsource: %s\nrole: %s\ntoken: %s\n",
					value.Context, value.Source, value.Role, token)
				return writeErr
			})
		},
	}
}

func newSetCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var (
		token string
		role  common.RoleValue
	)

	command := &cobra.Command{
		Use:   "set",
		Short: "Store a token and role in the context's session file",
		Example: strings.Join([]string{
			"  weddash session set --role VENDOR --token \"$TOKEN\"",
			"  printf '%s' \"$TOKEN\" | weddash session set --role CLIENT",
		}, "\n"),
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			path, err := sessionFilePath(command, deps, globalFlags)
			if err != nil {
				return err
			}

			value := strings.TrimSpace(token)
			if value == "" {
				data, readErr := common.ReadInput(command, common.InputFlags{Payload: "-"})
				if readErr != nil {
					return common.ValidationError("token is required: pass --token or pipe it on stdin", readErr)
				}
				value = strings.TrimSpace(string(data))
			}

			stored := sessiondomain.FileSession{Token: value}
			if role.Role != sessiondomain.RoleNone {
				stored.Role = role.Role.String()
			}
			if err := sessiondomain.WriteFile(path, stored); err != nil {
				return faults.NewTypedError(faults.InternalError, "failed to write session file", err)
			}
			return nil
		},
	}

	command.Flags().StringVar(&token, "token", "", "bearer token (read from stdin when omitted)")
	command.Flags().Var(&role, "role", "role stored with the token")
	return command
}

func newClearCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the context's session file",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			path, err := sessionFilePath(command, deps, globalFlags)
			if err != nil {
				return err
			}
			if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return faults.NewTypedError(faults.InternalError, "failed to remove session file", err)
			}
			return nil
		},
	}
}

// sessionFilePath returns the session file of the selected context. Contexts
// reading credentials from the environment or inline values have none.
func sessionFilePath(command *cobra.Command, deps common.CommandDependencies, globalFlags *common.GlobalFlags) (string, error) {
	contexts, err := common.RequireContexts(deps, globalFlags)
	if err != nil {
		return "", err
	}
	selection, err := common.ContextSelection(globalFlags)
	if err != nil {
		return "", err
	}
	resolved, err := contexts.ResolveContext(command.Context(), selection)
	if err != nil {
		return "", err
	}
	if !resolved.Session.HasFile() {
		return "", common.ValidationError(
			fmt.Sprintf("context %q does not read its session from a file", resolved.Name),
			nil,
		)
	}
	return resolved.Session.File, nil
}

func sourceOf(cfg *configdomain.Session) string {
	switch {
	case cfg.HasFile():
		return sourceFile
	case cfg.HasInline():
		return sourceInline
	default:
		return sourceEnv
	}
}
