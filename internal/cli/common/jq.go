package common

import (
	"context"
	"strings"
	"sync"

	"github.com/itchyny/gojq"
)

var jqCodeCache sync.Map

// ApplyJQ evaluates expression against the JSON form of value. One result is
// returned as is, several as a list and none as an empty list.
func ApplyJQ(ctx context.Context, expression string, value any) (any, error) {
	trimmedExpression := strings.TrimSpace(expression)
	if trimmedExpression == "" {
		return value, nil
	}

	code, err := cachedJQCode(trimmedExpression)
	if err != nil {
		return nil, ValidationError("invalid jq expression", err)
	}

	input, err := normalizeJSONValue(value)
	if err != nil {
		return nil, ValidationError("failed to prepare jq input", err)
	}

	runCtx := ctx
	if runCtx == nil {
		runCtx = context.Background()
	}
	iterator := code.RunWithContext(runCtx, input)
	results := make([]any, 0, 1)
	for {
		result, ok := iterator.Next()
		if !ok {
			break
		}
		if resultErr, isErr := result.(error); isErr {
			return nil, ValidationError("failed to evaluate jq expression", resultErr)
		}
		results = append(results, result)
	}

	switch len(results) {
	case 0:
		return []any{}, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}

func cachedJQCode(expression string) (*gojq.Code, error) {
	if cached, ok := jqCodeCache.Load(expression); ok {
		if typed, ok := cached.(*gojq.Code); ok && typed != nil {
			return typed, nil
		}
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, err
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, err
	}

	actual, _ := jqCodeCache.LoadOrStore(expression, code)
	typed, _ := actual.(*gojq.Code)
	if typed == nil {
		return code, nil
	}
	return typed, nil
}
