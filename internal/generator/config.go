package generator

// DedupMode selects how enum declarations collected from operations are merged
type DedupMode string

const (
	// DedupText merges declarations with byte-identical text
	DedupText DedupMode = "text"
	// DedupIdentity merges declarations with the same enum name and entries
	DedupIdentity DedupMode = "identity"
)

// Config controls code emission
type Config struct {
	// Package is the Go package of the generated files
	Package string
	// ShimPrefix prefixes the generated C shim names
	ShimPrefix string
	// Blocklist holds native operation names or groups that need hand-written
	// wrappers
	Blocklist map[string]bool
	// BuiltinErrors are error kinds emitted ahead of the per-operation ones
	BuiltinErrors []string
	// ICCDefault is the default for string options describing an ICC profile
	ICCDefault string
	EnumDedup  DedupMode
}

// DefaultBlocklist lists operations with mismatched array lengths or shared
// output buffers
var DefaultBlocklist = []string{
	"VipsForeignSaveDzBuffer",
	"crop",
	"VipsLinear",
	"VipsGetpoint",
}

// DefaultBuiltinErrors are the error kinds not tied to a generated operation
var DefaultBuiltinErrors = []string{
	"Initialization",
	"IO",
	"Linear",
	"Getpoint",
}

// DefaultConfig returns the configuration for the stock vips package
func DefaultConfig() Config {
	blocklist := make(map[string]bool, len(DefaultBlocklist))
	for _, name := range DefaultBlocklist {
		blocklist[name] = true
	}
	return Config{
		Package:       "vips",
		ShimPrefix:    "vipsgen",
		Blocklist:     blocklist,
		BuiltinErrors: append([]string(nil), DefaultBuiltinErrors...),
		ICCDefault:    "sRGB",
		EnumDedup:     DedupText,
	}
}
