package dataprovider

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
)

// TotalCountHeader carries the size of the full collection behind a paged
// list response.
const TotalCountHeader = "X-Total-Count"

const recordIDField = "id"

// Normalize reshapes a successful response into a Result. It never looks at
// the status code.
func (p *Provider) Normalize(_ context.Context, response Response, resource string, params Params) (Result, error) {
	params = derefParams(params)
	switch typed := params.(type) {
	case ListParams, GetManyReferenceParams:
		total := p.totalCount(response, resource, typed.Operation())
		return Result{Data: response.Body, Total: &total}, nil
	case CreateParams:
		data, err := mergeCreatedID(typed.Data, response.Body)
		if err != nil {
			return Result{}, err
		}
		return Result{Data: data}, nil
	default:
		return Result{Data: response.Body}, nil
	}
}

func (p *Provider) totalCount(response Response, resource string, operation Operation) int {
	if total, ok := parseTotalHeader(response.Headers.Get(TotalCountHeader)); ok {
		return total
	}

	p.logger.Info(
		"total count header missing from list response; counting body items",
		"resource", resource,
		"operation", string(operation),
		"header", TotalCountHeader,
	)
	if items, ok := response.Body.([]any); ok {
		return len(items)
	}
	return 0
}

func parseTotalHeader(value string) (int, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false
	}
	total, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, false
	}
	return total, true
}

// mergeCreatedID returns a copy of the submitted payload carrying the id the
// server assigned. No other response field is taken.
func mergeCreatedID(payload map[string]any, body any) (map[string]any, error) {
	id, ok := responseID(body)
	if !ok {
		return nil, validationError(
			"create response does not include an id; the record may have been saved, check before retrying",
			nil,
		)
	}

	merged := make(map[string]any, len(payload)+1)
	for key, value := range payload {
		merged[key] = value
	}
	merged[recordIDField] = id
	return merged, nil
}

func responseID(body any) (any, bool) {
	record, ok := body.(map[string]any)
	if !ok {
		return nil, false
	}
	id, ok := record[recordIDField]
	if !ok || id == nil {
		return nil, false
	}
	if number, isNumber := id.(json.Number); isNumber {
		if asInt, err := number.Int64(); err == nil {
			return asInt, true
		}
	}
	return id, true
}
