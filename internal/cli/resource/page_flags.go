package resource

import (
	"github.com/spf13/cobra"

	"github.com/crmarques/weddash/dataprovider"
	"github.com/crmarques/weddash/internal/cli/common"
)

const (
	defaultPage      = 1
	defaultPerPage   = 10
	defaultSortField = "id"
)

type pageFlags struct {
	page    int
	perPage int
	sort    string
	order   common.SortOrderValue
	filters []string
}

func bindPageFlags(command *cobra.Command, flags *pageFlags) {
	flags.order.Order = dataprovider.SortDesc
	command.Flags().IntVar(&flags.page, "page", defaultPage, "page number, starting at 1")
	command.Flags().IntVar(&flags.perPage, "per-page", defaultPerPage, "records per page")
	command.Flags().StringVar(&flags.sort, "sort", defaultSortField, "sort field")
	common.BindSortOrderFlag(command, &flags.order)
	command.Flags().StringArrayVar(&flags.filters, "filter", nil, "filter key=value added to the query (repeatable)")
}

func (f *pageFlags) pagination() dataprovider.Pagination {
	return dataprovider.Pagination{Page: f.page, PerPage: f.perPage}
}

func (f *pageFlags) sortSpec() dataprovider.Sort {
	return dataprovider.Sort{Field: f.sort, Order: f.order.Order}
}

func (f *pageFlags) filter() (dataprovider.Filter, error) {
	assignments, err := common.ParseAssignments("filter", f.filters)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, nil
	}
	filter := make(dataprovider.Filter, len(assignments))
	for key, value := range assignments {
		filter[key] = value
	}
	return filter, nil
}

// changed reports whether any paging or sort flag was given, so list can
// leave the provider defaults in charge otherwise.
func changed(command *cobra.Command, names ...string) bool {
	for _, name := range names {
		if command.Flags().Changed(name) {
			return true
		}
	}
	return false
}
