package common

import (
	"fmt"
	"strings"
)

// ParseAssignments reads repeatable key=value flag values. A later key
// replaces an earlier one; values keep inner '=' characters.
func ParseAssignments(flagName string, items []string) (map[string]string, error) {
	if len(items) == 0 {
		return nil, nil
	}

	output := make(map[string]string, len(items))
	for _, item := range items {
		key, value, found := strings.Cut(item, "=")
		key = strings.TrimSpace(key)
		if !found {
			return nil, ValidationError(fmt.Sprintf("flag --%s expects key=value, got %q", flagName, item), nil)
		}
		if key == "" {
			return nil, ValidationError(fmt.Sprintf("flag --%s key must not be empty", flagName), nil)
		}
		output[key] = strings.TrimSpace(value)
	}
	return output, nil
}
