package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	configdomain "github.com/crmarques/weddash/config"
	"github.com/crmarques/weddash/internal/cli/common"
	"github.com/crmarques/weddash/session"
)

const redactedValue = "<redacted>"

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "config",
		Short: "Manage contexts",
		Args:  cobra.NoArgs,
	}

	command.AddCommand(
		newListCommand(deps, globalFlags),
		newCurrentCommand(deps, globalFlags),
		newUseCommand(deps, globalFlags),
		newShowCommand(deps, globalFlags),
		newCheckCommand(deps, globalFlags),
		newAddCommand(deps, globalFlags),
		newUpdateCommand(deps, globalFlags),
		newDeleteCommand(deps, globalFlags),
	)

	return command
}

func newListCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List contexts",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps, globalFlags)
			if err != nil {
				return err
			}
			items, err := contexts.List(command.Context())
			if err != nil {
				return err
			}

			names := make([]string, 0, len(items))
			for _, item := range items {
				names = append(names, item.Name)
			}
			return common.WriteResult(command, globalFlags, names, writeContextNames)
		},
	}
}

func newCurrentCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Get current context",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps, globalFlags)
			if err != nil {
				return err
			}
			current, err := contexts.GetCurrent(command.Context())
			if err != nil {
				return err
			}
			return common.WriteResult(command, globalFlags, current.Name, func(w io.Writer, value string) error {
				_, writeErr := fmt.Fprintln(w, value)
				return writeErr
			})
		},
	}
}

func newUseCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "use <name>",
		Short: "Set current context",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
				return common.ValidationError("context name is required", nil)
			}
			contexts, err := common.RequireContexts(deps, globalFlags)
			if err != nil {
				return err
			}
			return contexts.SetCurrent(command.Context(), strings.TrimSpace(args[0]))
		},
	}
	return command
}

func newShowCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved context with overrides applied and secrets redacted",
		Example: strings.Join([]string{
			"  weddash config show",
			"  weddash --context staging --set api.base-url=https://staging.example.com config show",
		}, "\n"),
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps, globalFlags)
			if err != nil {
				return err
			}
			selection, err := common.ContextSelection(globalFlags)
			if err != nil {
				return err
			}
			resolved, err := contexts.ResolveContext(command.Context(), selection)
			if err != nil {
				return err
			}

			return common.WriteOutput(command, common.OutputYAML, redactContext(resolved), nil)
		},
	}
}

func redactContext(cfg configdomain.Context) configdomain.Context {
	if cfg.Session != nil && cfg.Session.Token != "" {
		redacted := *cfg.Session
		redacted.Token = redactedValue
		cfg.Session = &redacted
	}
	return cfg
}

type configCheckStatus string

const (
	configCheckOK   configCheckStatus = "ok"
	configCheckWarn configCheckStatus = "warn"
	configCheckFail configCheckStatus = "fail"
)

type configCheckResult struct {
	Component string            `json:"component" yaml:"component"`
	Status    configCheckStatus `json:"status" yaml:"status"`
	Details   string            `json:"details,omitempty" yaml:"details,omitempty"`
	Error     string            `json:"error,omitempty" yaml:"error,omitempty"`
}

type configCheckSummary struct {
	OK   int `json:"ok" yaml:"ok"`
	Warn int `json:"warn" yaml:"warn"`
	Fail int `json:"fail" yaml:"fail"`
}

type configCheckReport struct {
	Context string              `json:"context" yaml:"context"`
	Checks  []configCheckResult `json:"checks" yaml:"checks"`
	Summary configCheckSummary  `json:"summary" yaml:"summary"`
}

func newCheckCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the selected context can build requests",
		Example: strings.Join([]string{
			"  weddash config check",
			"  weddash --context prod config check --output json",
		}, "\n"),
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			runtime, err := common.RequireRuntime(command, deps, globalFlags)
			if err != nil {
				return err
			}

			report := runConfigCheck(runtime)
			if err := common.WriteResult(command, globalFlags, report, renderConfigCheckText); err != nil {
				return err
			}

			if report.Summary.Fail > 0 {
				return common.ValidationError(
					fmt.Sprintf("config check failed for context %q: %d check(s) failed", report.Context, report.Summary.Fail),
					nil,
				)
			}
			return nil
		},
	}
}

func runConfigCheck(runtime common.Runtime) configCheckReport {
	report := configCheckReport{Context: runtime.Context.Name}

	report.add(configCheckResult{
		Component: "api",
		Status:    configCheckOK,
		Details:   runtime.Context.API.BaseURL,
	})

	token := ""
	rawRole := ""
	if runtime.Session != nil {
		var rawToken string
		rawRole, rawToken = session.Read(runtime.Session)
		token = strings.TrimSpace(rawToken)
	}
	role := session.ParseRole(rawRole)

	if token == "" {
		report.add(configCheckResult{
			Component: "session",
			Status:    configCheckFail,
			Error:     "no authentication token in session",
		})
	} else {
		report.add(configCheckResult{Component: "session", Status: configCheckOK, Details: "token present"})
	}

	switch {
	case role != session.RoleNone:
		report.add(configCheckResult{Component: "role", Status: configCheckOK, Details: role.String()})
	case strings.TrimSpace(rawRole) == "":
		report.add(configCheckResult{Component: "role", Status: configCheckWarn, Details: "no role; default paths apply"})
	default:
		report.add(configCheckResult{
			Component: "role",
			Status:    configCheckWarn,
			Details:   fmt.Sprintf("unknown role %q; default paths apply", rawRole),
		})
	}

	resources := runtime.Resolver.Resources(role)
	pathsResult := configCheckResult{
		Component: "paths",
		Status:    configCheckOK,
		Details:   fmt.Sprintf("%d resource(s) resolvable", len(resources)),
	}
	if len(resources) == 0 {
		pathsResult.Status = configCheckFail
		pathsResult.Details = ""
		pathsResult.Error = "no resource resolves under this role"
	}
	report.add(pathsResult)

	return report
}

func (r *configCheckReport) add(result configCheckResult) {
	r.Checks = append(r.Checks, result)
	switch result.Status {
	case configCheckOK:
		r.Summary.OK++
	case configCheckWarn:
		r.Summary.Warn++
	case configCheckFail:
		r.Summary.Fail++
	}
}

func renderConfigCheckText(w io.Writer, report configCheckReport) error {
	if _, err := fmt.Fprintf(w, "context: %s\n", report.Context); err != nil {
		return err
	}
	for _, check := range report.Checks {
		line := fmt.Sprintf("[%s] %s", strings.ToUpper(string(check.Status)), check.Component)
		if check.Details != "" {
			line += ": " + check.Details
		}
		if check.Error != "" {
			line += ": " + check.Error
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "summary: ok=%d warn=%d fail=%d\n", report.Summary.OK, report.Summary.Warn, report.Summary.Fail)
	return err
}
