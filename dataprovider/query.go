package dataprovider

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	queryStart = "_start"
	queryEnd   = "_end"
	querySort  = "_sort"
	queryOrder = "_order"
	queryID    = "id"
)

type queryPair struct {
	key   string
	value string
}

// queryParams keeps insertion order. Setting an existing key replaces its
// value in place; Add always appends.
type queryParams struct {
	pairs []queryPair
	index map[string]int
}

func newQueryParams() *queryParams {
	return &queryParams{index: map[string]int{}}
}

func (q *queryParams) Set(key string, value string) {
	if idx, ok := q.index[key]; ok {
		q.pairs[idx].value = value
		return
	}
	q.index[key] = len(q.pairs)
	q.pairs = append(q.pairs, queryPair{key: key, value: value})
}

func (q *queryParams) Add(key string, value string) {
	if _, ok := q.index[key]; !ok {
		q.index[key] = len(q.pairs)
	}
	q.pairs = append(q.pairs, queryPair{key: key, value: value})
}

func (q *queryParams) Len() int {
	return len(q.pairs)
}

// Encode percent-encodes every key and value on its own and joins the pairs
// with '&'.
func (q *queryParams) Encode() string {
	if q == nil || len(q.pairs) == 0 {
		return ""
	}
	encoded := make([]string, 0, len(q.pairs))
	for _, pair := range q.pairs {
		encoded = append(encoded, encodeComponent(pair.key)+"="+encodeComponent(pair.value))
	}
	return strings.Join(encoded, "&")
}

// componentUnescaper restores the characters a URI component leaves as is
// but url.QueryEscape escapes, and turns '+' back into %20.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent escapes everything except A-Z a-z 0-9 and -_.!~*'(), the
// unreserved set of a URI component.
func encodeComponent(value string) string {
	return componentUnescaper.Replace(url.QueryEscape(value))
}

func sortedFilterKeys(filter Filter) []string {
	keys := make([]string, 0, len(filter))
	for key := range filter {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// formatValue renders a filter value or record id as it appears in a URL.
func formatValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case json.Number:
		return typed.String()
	case bool:
		return strconv.FormatBool(typed)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case int32:
		return strconv.FormatInt(int64(typed), 10)
	case uint:
		return strconv.FormatUint(uint64(typed), 10)
	case uint64:
		return strconv.FormatUint(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32)
	case fmt.Stringer:
		return typed.String()
	case []string:
		return strings.Join(typed, ",")
	case []any:
		parts := make([]string, len(typed))
		for idx, item := range typed {
			parts[idx] = formatValue(item)
		}
		return strings.Join(parts, ",")
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprint(typed)
		}
		return string(encoded)
	}
}
