package resource

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/crmarques/weddash/dataprovider"
	"github.com/crmarques/weddash/internal/cli/common"
)

func newGetCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <resource> <id>",
		Short: "Read one record",
		Example: strings.Join([]string{
			"  weddash resource get vendor 42",
			"  weddash --set session.role=VENDOR resource get booking bk-9 -o yaml",
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
			return runOperation(command, deps, globalFlags, resource, dataprovider.GetOneParams{ID: id})
		},
	}
}

func newGetManyCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "get-many <resource> <id>...",
		Short:             "Read several records by id in one request",
		Example:           "  weddash resource get-many service 3 5 8",
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
			return runOperation(command, deps, globalFlags, resource, dataprovider.GetManyParams{IDs: ids})
		},
	}
}
