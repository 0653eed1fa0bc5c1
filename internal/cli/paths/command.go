package paths

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crmarques/weddash/faults"
	"github.com/crmarques/weddash/internal/cli/common"
	"github.com/crmarques/weddash/session"
)

type resolvedPath struct {
	Resource string `json:"resource" yaml:"resource"`
	Role     string `json:"role" yaml:"role"`
	Segment  string `json:"segment" yaml:"segment"`
	URL      string `json:"url" yaml:"url"`
}

type pathTable struct {
	Role  string            `json:"role" yaml:"role"`
	Paths map[string]string `json:"paths" yaml:"paths"`
}

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "paths",
		Short: "Inspect the role-dependent resource path tables",
		Args:  cobra.NoArgs,
	}

	command.AddCommand(
		newResolveCommand(deps, globalFlags),
		newShowCommand(deps, globalFlags),
	)
	return command
}

func newResolveCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var role common.RoleValue

	command := &cobra.Command{
		Use:   "resolve <resource>",
		Short: "Print the path and URL a resource resolves to",
		Example: strings.Join([]string{
			"  weddash paths resolve booking",
			"  weddash paths resolve booking --role VENDOR",
		}, "\n"),
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: common.ResourceArgCompletion,
		RunE: func(command *cobra.Command, args []string) error {
			if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
				return common.ValidationError("resource is required", nil)
			}
			resource := strings.TrimSpace(args[0])

			runtime, err := common.RequireRuntime(command, deps, globalFlags)
			if err != nil {
				return err
			}
			effectiveRole := selectedRole(command, role, runtime.Session)

			segment, ok := runtime.Resolver.Resolve(resource, effectiveRole)
			if !ok {
				return faults.NewTypedError(
					faults.NotFoundError,
					fmt.Sprintf("resource %q has no path for role %s", resource, roleLabel(effectiveRole)),
					faults.ErrUnknownResource,
				)
			}

			value := resolvedPath{
				Resource: resource,
				Role:     effectiveRole.String(),
				Segment:  segment,
				URL:      joinURL(runtime.Context.API.BaseURL, segment),
			}
			return common.WriteResult(command, globalFlags, value, func(w io.Writer, item resolvedPath) error {
				_, writeErr := fmt.Fprintln(w, item.URL)
				return writeErr
			})
		},
	}

	common.BindRoleFlag(command, &role)
	return command
}

func newShowCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var role common.RoleValue

	command := &cobra.Command{
		Use:   "show",
		Short: "Print every resource path visible to a role",
		Example: strings.Join([]string{
			"  weddash paths show",
			"  weddash paths show --role CLIENT -o yaml",
		}, "\n"),
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			runtime, err := common.RequireRuntime(command, deps, globalFlags)
			if err != nil {
				return err
			}
			effectiveRole := selectedRole(command, role, runtime.Session)

			value := pathTable{
				Role:  effectiveRole.String(),
				Paths: runtime.Resolver.Effective(effectiveRole),
			}
			return common.WriteResult(command, globalFlags, value, func(w io.Writer, table pathTable) error {
				for _, name := range runtime.Resolver.Resources(effectiveRole) {
					if _, writeErr := fmt.Fprintf(w, "%s\t%s\n", name, table.Paths[name]); writeErr != nil {
						return writeErr
					}
				}
				return nil
			})
		},
	}

	common.BindRoleFlag(command, &role)
	return command
}

func selectedRole(command *cobra.Command, flag common.RoleValue, store session.Store) session.Role {
	if command.Flags().Changed("role") {
		return flag.Role
	}
	if store == nil {
		return session.RoleNone
	}
	return session.ParseRole(store.Role())
}

func roleLabel(role session.Role) string {
	if role == session.RoleNone {
		return "<none>"
	}
	return role.String()
}

func joinURL(baseURL string, segment string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if segment == "" {
		return base
	}
	return base + "/" + segment
}
