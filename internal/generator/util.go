package generator

import (
	"sort"
	"strings"

	"github.com/cshum/vipsbindgen/internal/introspection"
	"github.com/cshum/vipsbindgen/internal/paramtype"
)

// zeroValue returns the Go zero value expression of a wrapper type
func zeroValue(goType string) string {
	switch {
	case strings.HasPrefix(goType, "*"), strings.HasPrefix(goType, "[]"):
		return "nil"
	case goType == "bool":
		return "false"
	case goType == "string":
		return `""`
	}
	// numbers and enums
	return "0"
}

// isICC reports string options naming an ICC profile, which default to a
// profile rather than the empty string
func isICC(p introspection.Parameter) bool {
	_, ok := p.Type.(paramtype.Str)
	return ok && strings.Contains(p.Description, "ICC")
}

// errorName is the error kind of a wrapper
func errorName(goName string) string {
	return "Err" + goName
}

// errorMessage is the display text of an error kind
func errorMessage(goName string) string {
	return "vips error: " + goName + "Error. Check error buffer for more details"
}

// Blocked reports operations left to hand-written wrappers, matched by
// native name or group
func (cfg Config) Blocked(op introspection.Operation) bool {
	return cfg.Blocklist[op.NativeName] || cfg.Blocklist[op.NativeGroup]
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
