package commandmeta

import (
	"strings"
)

type OutputPolicy uint8

const (
	OutputPolicyStructured OutputPolicy = iota
	OutputPolicyTextOnly
	OutputPolicyYAMLDefaultTextOrYAML
)

// EmitsExecutionStatusPath lists the mutating commands that end with an
// [OK] or [ERROR] status line on stderr.
func EmitsExecutionStatusPath(path string) bool {
	switch strings.TrimSpace(path) {
	case "weddash resource create",
		"weddash resource update",
		"weddash resource delete",
		"weddash resource delete-many",
		"weddash config use",
		"weddash config add",
		"weddash config update",
		"weddash config delete",
		"weddash session set",
		"weddash session clear":
		return true
	default:
		return false
	}
}

func OutputPolicyForPath(path string) OutputPolicy {
	switch strings.TrimSpace(path) {
	case "weddash config show":
		return OutputPolicyYAMLDefaultTextOrYAML
	case "weddash completion bash",
		"weddash completion zsh",
		"weddash completion fish",
		"weddash completion powershell":
		return OutputPolicyTextOnly
	default:
		return OutputPolicyStructured
	}
}
