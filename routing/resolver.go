// Package routing maps resource names to backend path segments. The mapping
// depends on the caller's role: each role may override the admin-style
// defaults for any resource.
package routing

import (
	"sort"
	"strings"

	"github.com/crmarques/weddash/session"
)

// Table maps a resource name to a path segment relative to the API base URL.
type Table map[string]string

// Resolver is immutable after construction and safe for concurrent use.
type Resolver struct {
	defaults  Table
	overrides [session.RoleCount]Table
}

// Overrides holds one table per role. RoleNone has no overrides of its own;
// an entry for it is ignored.
type Overrides map[session.Role]Table

func NewResolver(defaults Table, overrides Overrides) *Resolver {
	resolver := &Resolver{defaults: cloneTable(defaults)}
	for role, table := range overrides {
		if role == session.RoleNone || !role.Valid() {
			continue
		}
		resolver.overrides[role] = cloneTable(table)
	}
	return resolver
}

// DefaultResolver resolves with the built-in marketplace tables.
func DefaultResolver() *Resolver {
	return NewResolver(defaultTable, builtinOverrides())
}

// Resolve returns the path segment for resource under role. The role's
// override table wins over the default table; ok is false when neither
// table has the resource.
func (r *Resolver) Resolve(resource string, role session.Role) (string, bool) {
	if r == nil {
		return "", false
	}
	if role != session.RoleNone && role.Valid() {
		if segment, ok := r.overrides[role][resource]; ok {
			return segment, true
		}
	}
	segment, ok := r.defaults[resource]
	return segment, ok
}

// Merge layers the supplied tables over r and returns a new resolver.
func (r *Resolver) Merge(defaults Table, overrides Overrides) *Resolver {
	merged := &Resolver{defaults: mergeTables(r.defaultsTable(), defaults)}
	for _, role := range session.Roles() {
		var base Table
		if r != nil {
			base = r.overrides[role]
		}
		merged.overrides[role] = mergeTables(base, overrides[role])
	}
	return merged
}

// Effective returns every resource visible to role with its resolved segment.
func (r *Resolver) Effective(role session.Role) Table {
	effective := cloneTable(r.defaultsTable())
	if effective == nil {
		effective = Table{}
	}
	if r != nil && role != session.RoleNone && role.Valid() {
		for resource, segment := range r.overrides[role] {
			effective[resource] = segment
		}
	}
	return effective
}

// Resources lists the resource names visible to role, sorted.
func (r *Resolver) Resources(role session.Role) []string {
	effective := r.Effective(role)
	names := make([]string, 0, len(effective))
	for name := range effective {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Resolver) defaultsTable() Table {
	if r == nil {
		return nil
	}
	return r.defaults
}

func cloneTable(table Table) Table {
	if table == nil {
		return nil
	}
	cloned := make(Table, len(table))
	for resource, segment := range table {
		cloned[strings.TrimSpace(resource)] = strings.Trim(strings.TrimSpace(segment), "/")
	}
	return cloned
}

func mergeTables(base Table, layer Table) Table {
	if len(base) == 0 && len(layer) == 0 {
		return nil
	}
	merged := cloneTable(base)
	if merged == nil {
		merged = Table{}
	}
	for resource, segment := range cloneTable(layer) {
		merged[resource] = segment
	}
	return merged
}
