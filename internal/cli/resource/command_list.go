package resource

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/crmarques/weddash/dataprovider"
	"github.com/crmarques/weddash/internal/cli/common"
)

func newListCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var flags pageFlags

	command := &cobra.Command{
		Use:   "list <resource>",
		Short: "List a page of records",
		Example: strings.Join([]string{
			"  weddash resource list vendor",
			"  weddash resource list vendor --page 2 --per-page 25 --sort name --order ASC",
			"  weddash resource list booking --filter status=confirmed --jq '.data[].id'",
		}, "\n"),
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: common.ResourceArgCompletion,
		RunE: func(command *cobra.Command, args []string) error {
			resource, err := requireResourceArg(args)
			if err != nil {
				return err
			}
			filter, err := flags.filter()
			if err != nil {
				return err
			}

			params := dataprovider.ListParams{Filter: filter}
			if changed(command, "page", "per-page") {
				pagination := flags.pagination()
				params.Pagination = &pagination
			}
			if changed(command, "sort", "order") {
				sortSpec := flags.sortSpec()
				params.Sort = &sortSpec
			}

			return runOperation(command, deps, globalFlags, resource, params)
		},
	}

	bindPageFlags(command, &flags)
	return command
}

func newReferencesCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var flags pageFlags
	var target string
	var id string

	command := &cobra.Command{
		Use:   "references <resource>",
		Short: "List records whose target field points at a record",
		Example: strings.Join([]string{
			"  weddash resource references booking --target vendorId --id 42",
			"  weddash resource references review --target serviceId --id 7 --sort rating --order ASC",
		}, "\n"),
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: common.ResourceArgCompletion,
		RunE: func(command *cobra.Command, args []string) error {
			resource, err := requireResourceArg(args)
			if err != nil {
				return err
			}
			if strings.TrimSpace(target) == "" {
				return common.ValidationError("flag --target is required", nil)
			}
			if strings.TrimSpace(id) == "" {
				return common.ValidationError("flag --id is required", nil)
			}
			filter, err := flags.filter()
			if err != nil {
				return err
			}

			return runOperation(command, deps, globalFlags, resource, dataprovider.GetManyReferenceParams{
				Target:     strings.TrimSpace(target),
				ID:         strings.TrimSpace(id),
				Pagination: flags.pagination(),
				Sort:       flags.sortSpec(),
				Filter:     filter,
			})
		},
	}

	bindPageFlags(command, &flags)
	command.Flags().StringVar(&target, "target", "", "field that references the parent record")
	command.Flags().StringVar(&id, "id", "", "parent record id")
	return command
}
