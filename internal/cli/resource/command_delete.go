package resource

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/crmarques/weddash/dataprovider"
	"github.com/crmarques/weddash/internal/cli/common"
)

func newDeleteCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "delete <resource> <id>",
		Short:             "Delete one record",
		Example:           "  weddash resource delete review 19",
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
			return runOperation(command, deps, globalFlags, resource, dataprovider.DeleteParams{ID: id})
		},
	}
}

func newDeleteManyCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-many <resource> <id>...",
		Short: "Delete several records concurrently; fails as a whole if any delete fails",
		Example: strings.Join([]string{
			"  weddash resource delete-many service 3 5 8",
			"  weddash resource delete-many booking bk-1 bk-2 --jq '.data | length'",
		}, "\n"),
		Args:              cobra.ArbitraryArgs,
		ValidArgsFunction: common.ResourceArgCompletion,
		RunE: func(command *cobra.Command, args []string) error {
			resource, err := requireResourceArg(args)
			if err != nil {
				return err
			}
			ids, err := idsFromArgs(args[1:])
			if err != nil {
				return err
			}
			return runOperation(command, deps, globalFlags, resource, dataprovider.DeleteManyParams{IDs: ids})
		},
	}
}
