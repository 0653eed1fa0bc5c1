package common

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/crmarques/weddash/dataprovider"
	"github.com/crmarques/weddash/routing"
	"github.com/crmarques/weddash/session"
)

var (
	_ pflag.Value = (*RoleValue)(nil)
	_ pflag.Value = (*SortOrderValue)(nil)
)

// RoleValue is a --role flag restricted to the known roles.
type RoleValue struct {
	Role session.Role
}

func (v *RoleValue) String() string {
	return v.Role.String()
}

func (v *RoleValue) Set(raw string) error {
	role := session.ParseRole(raw)
	if role == session.RoleNone {
		return fmt.Errorf("unknown role %q: use %s", raw, strings.Join(roleNames(), ", "))
	}
	v.Role = role
	return nil
}

func (v *RoleValue) Type() string {
	return "role"
}

type SortOrderValue struct {
	Order dataprovider.SortOrder
}

func (v *SortOrderValue) String() string {
	return string(v.Order)
}

func (v *SortOrderValue) Set(raw string) error {
	switch order := dataprovider.SortOrder(strings.ToUpper(strings.TrimSpace(raw))); order {
	case dataprovider.SortAsc, dataprovider.SortDesc:
		v.Order = order
		return nil
	default:
		return fmt.Errorf("unknown sort order %q: use ASC or DESC", raw)
	}
}

func (v *SortOrderValue) Type() string {
	return "order"
}

func BindRoleFlag(command *cobra.Command, value *RoleValue) {
	command.Flags().Var(value, "role", "role whose path table applies (default: the session role)")
	_ = command.RegisterFlagCompletionFunc("role", fixedCompletion(roleNames()...))
}

func BindSortOrderFlag(command *cobra.Command, value *SortOrderValue) {
	command.Flags().Var(value, "order", "sort order: ASC|DESC")
	_ = command.RegisterFlagCompletionFunc("order", fixedCompletion(string(dataprovider.SortAsc), string(dataprovider.SortDesc)))
}

// ResourceArgCompletion completes the first positional argument with every
// resource any built-in role table knows.
func ResourceArgCompletion(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	resolver := routing.DefaultResolver()
	seen := map[string]struct{}{}
	names := []string{}
	for _, role := range append([]session.Role{session.RoleNone}, session.Roles()...) {
		for _, name := range resolver.Resources(role) {
			if _, exists := seen[name]; exists {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, cobra.ShellCompDirectiveNoFileComp
}

func roleNames() []string {
	roles := session.Roles()
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.String())
	}
	return names
}
