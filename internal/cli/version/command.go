package version

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/crmarques/weddash/internal/cli/common"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

type info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

func NewCommand(_ common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "version",
		Short: "Print weddash version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			value := info{Version: Version, Commit: Commit, BuildDate: BuildDate, GoVersion: runtime.Version()}
			return common.WriteResult(cmd, globalFlags, value, func(w io.Writer, item info) error {
				_, err := fmt.Fprintf(w, "weddash %s (%s) %s %s\n", item.Version, item.Commit, item.BuildDate, item.GoVersion)
				return err
			})
		},
	}

	return command
}
