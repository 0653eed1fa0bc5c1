package common

import "github.com/spf13/cobra"

type GlobalFlags struct {
	Context      string
	ConfigPath   string
	Debug        bool
	NoStatus     bool
	NoColor      bool
	Output       string
	Overrides    []string
	JQ           string
	OTLPEndpoint string
	OTLPInsecure bool
	MetricsFile  string
}

type InputFlags struct {
	Payload string
	Format  string
}

func BindGlobalFlags(command *cobra.Command, flags *GlobalFlags) {
	persistent := command.PersistentFlags()
	persistent.StringVarP(&flags.Context, "context", "c", "", "context name")
	persistent.StringVar(&flags.ConfigPath, "config", "", "context catalog path (default $WEDDASH_CONTEXTS_FILE or ~/.weddash/contexts.yaml)")
	persistent.BoolVarP(&flags.Debug, "debug", "d", false, "enable debug output")
	persistent.BoolVarP(&flags.NoStatus, "no-status", "n", false, "hide status output")
	persistent.BoolVar(&flags.NoColor, "no-color", false, "disable color output")
	persistent.StringVarP(&flags.Output, "output", "o", OutputAuto, "output format: auto|text|json|yaml")
	persistent.StringArrayVar(&flags.Overrides, "set", nil, "override context key=value (repeatable)")
	persistent.StringVar(&flags.JQ, "jq", "", "jq expression applied to structured output")
	persistent.StringVar(&flags.OTLPEndpoint, "otlp-endpoint", "", "OTLP gRPC collector host:port for traces and metrics")
	persistent.BoolVar(&flags.OTLPInsecure, "otlp-insecure", false, "disable TLS for the OTLP collector connection")
	persistent.StringVar(&flags.MetricsFile, "metrics-file", "", "write HTTP client metrics in Prometheus text format on exit")
	RegisterOutputFlagCompletion(command)
}

func BindInputFlags(command *cobra.Command, flags *InputFlags) {
	command.Flags().StringVarP(&flags.Payload, "payload", "f", "", "payload file path (use '-' to read object from stdin)")
	command.Flags().StringVarP(&flags.Format, "format", "i", OutputJSON, "input format: json|yaml")
	RegisterInputFormatFlagCompletion(command)
}

func RegisterOutputFlagCompletion(command *cobra.Command) {
	_ = command.RegisterFlagCompletionFunc("output", fixedCompletion(OutputAuto, OutputText, OutputJSON, OutputYAML))
}

func RegisterInputFormatFlagCompletion(command *cobra.Command) {
	_ = command.RegisterFlagCompletionFunc("format", fixedCompletion(OutputJSON, OutputYAML))
}

func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
