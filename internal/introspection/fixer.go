package introspection

import (
	"math"
	"strings"

	"github.com/cshum/vipsbindgen/internal/paramtype"
)

// Substitution replaces a required argument that libvips reports wrongly with
// synthesized double coefficients
type Substitution struct {
	Group       string   `mapstructure:"group" toml:"group"`
	Position    uint8    `mapstructure:"position" toml:"position"`
	Params      []string `mapstructure:"params" toml:"params"`
	Nick        string   `mapstructure:"nick" toml:"nick"`
	Description string   `mapstructure:"description" toml:"description"`
}

// Rules holds the catalog irregularities the parser corrects
type Rules struct {
	// OperationRenames maps native operation names to generated names
	OperationRenames map[string]string
	// ReservedNames are parameter names that get ReservedSuffix appended
	ReservedNames map[string]bool
	ReservedSuffix string
	Substitutions  []Substitution
	// SkipOperations are substrings of native operation names whose blocks
	// are dropped unparsed, e.g. streaming loaders taking a VipsSource
	SkipOperations []string
}

// DefaultRules returns the corrections needed for stock libvips
func DefaultRules() Rules {
	return Rules{
		OperationRenames: map[string]string{
			"match": "matches",
		},
		ReservedNames:  DefaultReservedNames(),
		ReservedSuffix: "_",
		SkipOperations: []string{"_source", "_target", "_mime"},
		Substitutions: []Substitution{
			{
				// vips_affine takes a, b, c, d but introspects a single "matrix"
				Group:       "VipsAffine",
				Position:    2,
				Params:      []string{"a", "b", "c", "d"},
				Nick:        "Transformation Matrix",
				Description: "Transformation Matrix coefficient",
			},
		},
	}
}

// DefaultReservedNames returns Go keywords and predeclared identifiers that
// generated wrapper bodies rely on
func DefaultReservedNames() map[string]bool {
	names := map[string]bool{}
	for _, name := range []string{
		"break", "case", "chan", "const", "continue", "default", "defer", "else",
		"fallthrough", "for", "func", "go", "goto", "if", "import", "interface",
		"map", "package", "range", "return", "select", "struct", "switch", "type", "var",
		"len", "nil", "true", "false", "err", "options",
	} {
		names[name] = true
	}
	return names
}

// substitution returns the substitution that applies to a group at a position
func (r Rules) substitution(group string, order uint8) (Substitution, bool) {
	for _, s := range r.Substitutions {
		if s.Group == group && s.Position == order {
			return s, true
		}
	}
	return Substitution{}, false
}

// synthesize builds the replacement parameters starting at order
func (s Substitution) synthesize(order uint8) []Parameter {
	params := make([]Parameter, 0, len(s.Params))
	for i, name := range s.Params {
		params = append(params, Parameter{
			Order:       order + uint8(i),
			Name:        name,
			NativeName:  name,
			Nick:        s.Nick,
			Description: s.Description,
			Type: paramtype.Double{
				Min:     math.Inf(-1),
				Max:     math.Inf(1),
				Default: 0,
			},
		})
	}
	return params
}

// skipped reports whether an operation is dropped before its parameters are
// parsed
func (r Rules) skipped(nativeName string) bool {
	for _, pattern := range r.SkipOperations {
		if pattern != "" && strings.Contains(nativeName, pattern) {
			return true
		}
	}
	return false
}
