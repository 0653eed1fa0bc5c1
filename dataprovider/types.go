package dataprovider

import (
	"context"
	"net/http"
)

// Operation names an abstract data operation.
type Operation string

const (
	OperationList             Operation = "list"
	OperationGetOne           Operation = "get-one"
	OperationGetMany          Operation = "get-many"
	OperationGetManyReference Operation = "get-many-reference"
	OperationCreate           Operation = "create"
	OperationUpdate           Operation = "update"
	OperationDelete           Operation = "delete"
	OperationDeleteMany       Operation = "delete-many"
)

func (o Operation) Valid() bool {
	switch o {
	case OperationList,
		OperationGetOne,
		OperationGetMany,
		OperationGetManyReference,
		OperationCreate,
		OperationUpdate,
		OperationDelete,
		OperationDeleteMany:
		return true
	default:
		return false
	}
}

// Operations lists every operation in a stable order.
func Operations() []Operation {
	return []Operation{
		OperationList,
		OperationGetOne,
		OperationGetMany,
		OperationGetManyReference,
		OperationCreate,
		OperationUpdate,
		OperationDelete,
		OperationDeleteMany,
	}
}

type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

type Pagination struct {
	Page    int `json:"page" yaml:"page"`
	PerPage int `json:"perPage" yaml:"perPage"`
}

type Sort struct {
	Field string    `json:"field" yaml:"field"`
	Order SortOrder `json:"order" yaml:"order"`
}

// Filter is spread verbatim into list query strings.
type Filter map[string]any

const (
	defaultPage      = 1
	defaultPerPage   = 10
	defaultSortField = "id"
	defaultSortOrder = SortDesc
)

// Params is implemented only by the parameter types of this package; each
// type selects exactly one operation.
type Params interface {
	Operation() Operation
	sealed()
}

// ListParams falls back to page 1, 10 per page, sorted by id descending when
// Pagination or Sort is nil.
type ListParams struct {
	Pagination *Pagination
	Sort       *Sort
	Filter     Filter
}

type GetOneParams struct {
	ID any
}

type GetManyParams struct {
	IDs []any
}

// GetManyReferenceParams lists the records whose Target field equals ID.
// Pagination and Sort have no defaults.
type GetManyReferenceParams struct {
	Target     string
	ID         any
	Pagination Pagination
	Sort       Sort
	Filter     Filter
}

type CreateParams struct {
	Data map[string]any
}

type UpdateParams struct {
	ID           any
	Data         map[string]any
	PreviousData map[string]any
}

type DeleteParams struct {
	ID           any
	PreviousData map[string]any
}

type DeleteManyParams struct {
	IDs []any
}

func (ListParams) Operation() Operation             { return OperationList }
func (GetOneParams) Operation() Operation           { return OperationGetOne }
func (GetManyParams) Operation() Operation          { return OperationGetMany }
func (GetManyReferenceParams) Operation() Operation { return OperationGetManyReference }
func (CreateParams) Operation() Operation           { return OperationCreate }
func (UpdateParams) Operation() Operation           { return OperationUpdate }
func (DeleteParams) Operation() Operation           { return OperationDelete }
func (DeleteManyParams) Operation() Operation       { return OperationDeleteMany }

func (ListParams) sealed()             {}
func (GetOneParams) sealed()           {}
func (GetManyParams) sealed()          {}
func (GetManyReferenceParams) sealed() {}
func (CreateParams) sealed()           {}
func (UpdateParams) sealed()           {}
func (DeleteParams) sealed()           {}
func (DeleteManyParams) sealed()       {}

// Request is the HTTP call a single operation translates to.
type Request struct {
	Operation Operation
	Resource  string
	Method    string
	URL       string
	Headers   http.Header
	Body      []byte
}

// Response is what a Fetcher hands back for a successful call. Body holds the
// decoded JSON payload (nil for an empty body).
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       any
}

// Result is the uniform shape every operation returns. Total is set only by
// list and get-many-reference.
type Result struct {
	Data  any  `json:"data" yaml:"data"`
	Total *int `json:"total,omitempty" yaml:"total,omitempty"`
}

// Fetcher performs one HTTP call. Non-success statuses must surface as errors;
// the data provider never inspects status codes.
type Fetcher interface {
	Fetch(ctx context.Context, request Request) (Response, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, request Request) (Response, error)

func (f FetcherFunc) Fetch(ctx context.Context, request Request) (Response, error) {
	return f(ctx, request)
}
