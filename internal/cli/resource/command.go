package resource

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crmarques/weddash/dataprovider"
	"github.com/crmarques/weddash/debugctx"
	"github.com/crmarques/weddash/internal/cli/common"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "resource",
		Short: "Read and change marketplace resources",
		Args:  cobra.NoArgs,
	}

	command.AddCommand(
		newListCommand(deps, globalFlags),
		newGetCommand(deps, globalFlags),
		newGetManyCommand(deps, globalFlags),
		newReferencesCommand(deps, globalFlags),
		newCreateCommand(deps, globalFlags),
		newUpdateCommand(deps, globalFlags),
		newDeleteCommand(deps, globalFlags),
		newDeleteManyCommand(deps, globalFlags),
	)

	return command
}

// runOperation executes params against resource under the selected context
// and prints the Result.
func runOperation(
	command *cobra.Command,
	deps common.CommandDependencies,
	globalFlags *common.GlobalFlags,
	resource string,
	params dataprovider.Params,
) error {
	runtime, err := common.RequireRuntime(command, deps, globalFlags)
	if err != nil {
		return err
	}

	ctx := command.Context()
	operation := params.Operation()
	debugctx.Printf(ctx, "resource %s requested resource=%q context=%q", operation, resource, runtime.Context.Name)

	result, err := runtime.Provider.Execute(ctx, resource, params)
	if err != nil {
		debugctx.Printf(ctx, "resource %s failed resource=%q error=%v", operation, resource, err)
		return err
	}
	debugctx.Printf(ctx, "resource %s succeeded resource=%q data_type=%T", operation, resource, result.Data)

	return common.WriteResult(command, globalFlags, result, renderResultText)
}

// renderResultText prints one compact JSON line per record, followed by the
// total when the operation reports one.
func renderResultText(w io.Writer, result dataprovider.Result) error {
	records, isList := result.Data.([]any)
	if !isList {
		records = []any{result.Data}
	}

	for _, record := range records {
		line, err := compactJSON(record)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if result.Total != nil {
		_, err := fmt.Fprintf(w, "total: %d\n", *result.Total)
		return err
	}
	return nil
}

func compactJSON(value any) (string, error) {
	if text, ok := value.(string); ok {
		return text, nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func requireResourceArg(args []string) (string, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", common.ValidationError("resource is required", nil)
	}
	return strings.TrimSpace(args[0]), nil
}

func requireIDArg(args []string, position int) (string, error) {
	if len(args) <= position || strings.TrimSpace(args[position]) == "" {
		return "", common.ValidationError("record id is required", nil)
	}
	return strings.TrimSpace(args[position]), nil
}

func idsFromArgs(args []string) ([]any, error) {
	if len(args) == 0 {
		return nil, common.ValidationError("at least one record id is required", nil)
	}
	ids := make([]any, 0, len(args))
	for _, arg := range args {
		id := strings.TrimSpace(arg)
		if id == "" {
			return nil, common.ValidationError("record id must not be empty", nil)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
