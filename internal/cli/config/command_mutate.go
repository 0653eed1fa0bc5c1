package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	configdomain "github.com/crmarques/weddash/config"
	"github.com/crmarques/weddash/internal/cli/common"
)

func newAddCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var (
		input        common.InputFlags
		validateOnly bool
	)

	command := &cobra.Command{
		Use:   "add",
		Short: "Add a context from a YAML or JSON document",
		Example: strings.Join([]string{
			"  weddash config add --payload staging.yaml",
			"  cat staging.yaml | weddash config add --validate-only",
		}, "\n"),
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps, globalFlags)
			if err != nil {
				return err
			}
			cfg, err := decodeContext(command, input)
			if err != nil {
				return err
			}

			if validateOnly {
				if err := contexts.Validate(command.Context(), cfg); err != nil {
					return err
				}
				message := fmt.Sprintf("context %q is valid", cfg.Name)
				return common.WriteResult(command, globalFlags, message, func(w io.Writer, value string) error {
					_, writeErr := fmt.Fprintln(w, value)
					return writeErr
				})
			}
			return contexts.Create(command.Context(), cfg)
		},
	}

	common.BindInputFlags(command, &input)
	command.Flags().BoolVar(&validateOnly, "validate-only", false, "validate the context without saving it")
	return command
}

func newUpdateCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var input common.InputFlags

	command := &cobra.Command{
		Use:   "update",
		Short: "Replace an existing context with the one in a YAML or JSON document",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps, globalFlags)
			if err != nil {
				return err
			}
			cfg, err := decodeContext(command, input)
			if err != nil {
				return err
			}
			return contexts.Update(command.Context(), cfg)
		},
	}

	common.BindInputFlags(command, &input)
	return command
}

func newDeleteCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a context",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
				return common.ValidationError("context name is required", nil)
			}
			contexts, err := common.RequireContexts(deps, globalFlags)
			if err != nil {
				return err
			}
			return contexts.Delete(command.Context(), strings.TrimSpace(args[0]))
		},
	}
}

// decodeContext reads a context document. Field names follow the catalog
// file, so input without an explicit format is read as YAML, which also
// accepts JSON.
func decodeContext(command *cobra.Command, input common.InputFlags) (configdomain.Context, error) {
	data, err := common.ReadInput(command, input)
	if err != nil {
		return configdomain.Context{}, err
	}

	format := input.Format
	if format == "" || format == common.OutputJSON {
		format = common.OutputYAML
	}
	cfg, err := common.DecodeInputData[configdomain.Context](data, format)
	if err != nil {
		return configdomain.Context{}, err
	}
	if strings.TrimSpace(cfg.Name) == "" {
		return configdomain.Context{}, common.ValidationError("context name is required", nil)
	}
	return cfg, nil
}

func writeContextNames(w io.Writer, names []string) error {
	for _, name := range names {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}
