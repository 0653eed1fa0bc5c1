package resource

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/crmarques/weddash/dataprovider"
	"github.com/crmarques/weddash/internal/cli/common"
)

func newCreateCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var input common.InputFlags

	command := &cobra.Command{
		Use:   "create <resource>",
		Short: "Create a record from a JSON or YAML payload",
		Example: strings.Join([]string{
			"  weddash resource create vendor --payload vendor.json",
			"  cat event.yaml | weddash resource create event --format yaml",
		}, "\n"),
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: common.ResourceArgCompletion,
		RunE: func(command *cobra.Command, args []string) error {
			resource, err := requireResourceArg(args)
			if err != nil {
				return err
			}
			record, err := common.DecodeRecord(command, input)
			if err != nil {
				return err
			}
			return runOperation(command, deps, globalFlags, resource, dataprovider.CreateParams{Data: record})
		},
	}

	common.BindInputFlags(command, &input)
	return command
}

func newUpdateCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var input common.InputFlags

	command := &cobra.Command{
		Use:   "update <resource> <id>",
		Short: "Replace a record, or patch it where the backend only accepts partial updates",
		Example: strings.Join([]string{
			"  weddash resource update vendor 42 --payload vendor.json",
			"  echo '{\"phone\":\"+351 900 000 000\"}' | weddash resource update event-planner 7",
		}, "\n"),
		Args:              cobra.MaximumNArgs(2),
		ValidArgsFunction: common.ResourceArgCompletion,
		RunE: func(command *cobra.Command, args []string) error {
			resource, err := requireResourceArg(args)
			if err != nil {
				return err
			}
			id, err := requireIDArg(args, 1)
			if err != nil {
				return err
			}
			record, err := common.DecodeRecord(command, input)
			if err != nil {
				return err
			}
			return runOperation(command, deps, globalFlags, resource, dataprovider.UpdateParams{ID: id, Data: record})
		},
	}

	common.BindInputFlags(command, &input)
	return command
}
