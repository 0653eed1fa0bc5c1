package dataprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/crmarques/weddash/session"
)

const (
	defaultMediaType = "application/json"

	// patchResource is the one resource whose backend only accepts partial
	// updates.
	patchResource = "event-planner"
)

type credentials struct {
	token string
	role  session.Role
}

// BuildRequest translates params into the HTTP call for resource. It reads
// the session on every call and fails before any network activity when the
// session has no token or resource has no path under the session's role.
func (p *Provider) BuildRequest(_ context.Context, resource string, params Params) (Request, error) {
	creds, err := p.readCredentials()
	if err != nil {
		return Request{}, err
	}
	return p.buildRequest(creds, resource, derefParams(params))
}

func (p *Provider) readCredentials() (credentials, error) {
	rawRole, rawToken := session.Read(p.session)
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return credentials{}, missingCredentialError()
	}
	return credentials{
		token: token,
		role:  session.ParseRole(rawRole),
	}, nil
}

func (p *Provider) buildRequest(creds credentials, resource string, params Params) (Request, error) {
	switch params.(type) {
	case ListParams, GetOneParams, GetManyParams, GetManyReferenceParams,
		CreateParams, UpdateParams, DeleteParams:
	default:
		return Request{}, unsupportedOperationError(operationOf(params))
	}

	basePath, err := p.resolvePath(resource, creds.role)
	if err != nil {
		return Request{}, err
	}

	request := Request{
		Operation: params.Operation(),
		Resource:  resource,
		Headers:   requestHeaders(creds.token),
	}

	switch typed := params.(type) {
	case ListParams:
		query, err := listQuery(typed)
		if err != nil {
			return Request{}, err
		}
		request.Method = http.MethodGet
		request.URL = withQuery(basePath, query)
	case GetOneParams:
		recordPath, err := joinID(basePath, typed.ID)
		if err != nil {
			return Request{}, err
		}
		request.Method = http.MethodGet
		request.URL = recordPath
	case GetManyParams:
		query := newQueryParams()
		for _, id := range typed.IDs {
			query.Add(queryID, formatValue(id))
		}
		request.Method = http.MethodGet
		request.URL = withQuery(basePath, query)
	case GetManyReferenceParams:
		query, err := referenceQuery(typed)
		if err != nil {
			return Request{}, err
		}
		request.Method = http.MethodGet
		request.URL = withQuery(basePath, query)
	case CreateParams:
		body, err := encodeBody(typed.Data)
		if err != nil {
			return Request{}, err
		}
		request.Method = http.MethodPost
		request.URL = basePath
		request.Body = body
	case UpdateParams:
		recordPath, err := joinID(basePath, typed.ID)
		if err != nil {
			return Request{}, err
		}
		body, err := encodeBody(typed.Data)
		if err != nil {
			return Request{}, err
		}
		request.Method = updateMethod(resource)
		request.URL = recordPath
		request.Body = body
	case DeleteParams:
		recordPath, err := joinID(basePath, typed.ID)
		if err != nil {
			return Request{}, err
		}
		request.Method = http.MethodDelete
		request.URL = recordPath
	}

	return request, nil
}

func (p *Provider) resolvePath(resource string, role session.Role) (string, error) {
	segment, ok := p.resolver.Resolve(resource, role)
	if !ok {
		return "", unknownResourceError(resource, role)
	}
	segment = strings.Trim(segment, "/")
	if segment == "" {
		return p.baseURL, nil
	}
	return p.baseURL + "/" + segment, nil
}

func updateMethod(resource string) string {
	if resource == patchResource {
		return http.MethodPatch
	}
	return http.MethodPut
}

func requestHeaders(token string) http.Header {
	headers := http.Header{}
	headers.Set("Content-Type", defaultMediaType)
	headers.Set("Authorization", "Bearer "+token)
	return headers
}

func listQuery(params ListParams) (*queryParams, error) {
	pagination := Pagination{Page: defaultPage, PerPage: defaultPerPage}
	if params.Pagination != nil {
		pagination = *params.Pagination
	}
	sortSpec := Sort{Field: defaultSortField, Order: defaultSortOrder}
	if params.Sort != nil {
		sortSpec = *params.Sort
	}
	if err := validatePagination(pagination); err != nil {
		return nil, err
	}

	query := rangeQuery(pagination, sortSpec)
	for _, key := range sortedFilterKeys(params.Filter) {
		query.Set(key, formatValue(params.Filter[key]))
	}
	return query, nil
}

func referenceQuery(params GetManyReferenceParams) (*queryParams, error) {
	target := strings.TrimSpace(params.Target)
	if target == "" {
		return nil, validationError("reference target is required", nil)
	}
	if isEmptyID(params.ID) {
		return nil, validationError("reference id is required", nil)
	}
	if err := validatePagination(params.Pagination); err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.Sort.Field) == "" || strings.TrimSpace(string(params.Sort.Order)) == "" {
		return nil, validationError("reference sort field and order are required", nil)
	}

	query := rangeQuery(params.Pagination, params.Sort)
	for _, key := range sortedFilterKeys(params.Filter) {
		if key == target {
			continue
		}
		query.Set(key, formatValue(params.Filter[key]))
	}
	query.Set(target, formatValue(params.ID))
	return query, nil
}

func rangeQuery(pagination Pagination, sortSpec Sort) *queryParams {
	start := (pagination.Page - 1) * pagination.PerPage
	end := pagination.Page * pagination.PerPage

	query := newQueryParams()
	query.Set(queryStart, strconv.Itoa(start))
	query.Set(queryEnd, strconv.Itoa(end))
	query.Set(querySort, sortSpec.Field)
	query.Set(queryOrder, string(sortSpec.Order))
	return query
}

func validatePagination(pagination Pagination) error {
	if pagination.Page < 1 {
		return validationError("pagination page must be at least 1", nil)
	}
	if pagination.PerPage < 1 {
		return validationError("pagination perPage must be at least 1", nil)
	}
	return nil
}

func withQuery(base string, query *queryParams) string {
	encoded := query.Encode()
	if encoded == "" {
		return base
	}
	return base + "?" + encoded
}

func joinID(base string, id any) (string, error) {
	if isEmptyID(id) {
		return "", validationError("record id is required", nil)
	}
	return base + "/" + url.PathEscape(formatValue(id)), nil
}

func isEmptyID(id any) bool {
	if id == nil {
		return true
	}
	return strings.TrimSpace(formatValue(id)) == ""
}

func encodeBody(data map[string]any) ([]byte, error) {
	if data == nil {
		return nil, validationError("record payload is required", nil)
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, validationError("failed to encode JSON request body", err)
	}
	return encoded, nil
}
