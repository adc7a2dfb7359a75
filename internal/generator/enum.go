package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cshum/vipsbindgen/internal/introspection"
	"github.com/cshum/vipsbindgen/internal/logger"
	"github.com/cshum/vipsbindgen/internal/paramtype"
)

// enumDecl is a rendered enum declaration with its identity
type enumDecl struct {
	goType string
	key    string
	text   string
}

// generateEnumDecl renders the Go type and constants of an enum
func generateEnumDecl(e paramtype.Enum) enumDecl {
	var result strings.Builder
	goType := e.GoType()
	kind := "enum"
	if e.Flags {
		kind = "flags"
	}
	result.WriteString(fmt.Sprintf("// %s %s %s\n", goType, e.Name, kind))
	result.WriteString(fmt.Sprintf("type %s int\n\n", goType))
	result.WriteString(fmt.Sprintf("// %s values\n", goType))
	result.WriteString("const (\n")

	seen := make(map[string]bool, len(e.Entries))
	keys := []string{e.Name}
	for _, entry := range e.Entries {
		name := e.ValueName(entry)
		if seen[name] {
			logger.Logger.Warnw("Skipping enum entry with a clashing name",
				"enum", e.Name, "entry", entry.Name, "const", name)
			continue
		}
		seen[name] = true
		result.WriteString(fmt.Sprintf("\t%s %s = %d // %s\n", name, goType, entry.Value, entry.Name))
		keys = append(keys, fmt.Sprintf("%s=%d", entry.Name, entry.Value))
	}
	result.WriteString(")\n")

	sort.Strings(keys[1:])
	return enumDecl{
		goType: goType,
		key:    strings.Join(keys, ","),
		text:   result.String(),
	}
}

// dedupEnums merges declarations collected across operations and orders them
// by text. Distinct declarations sharing a Go type name are reported; they
// would not compile together.
func dedupEnums(decls []enumDecl, mode DedupMode) []string {
	unique := make([]enumDecl, 0, len(decls))
	seen := make(map[string]bool, len(decls))
	for _, decl := range decls {
		key := decl.text
		if mode == DedupIdentity {
			key = decl.key
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, decl)
	}
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].text < unique[j].text
	})

	texts := make([]string, 0, len(unique))
	byType := make(map[string]int, len(unique))
	for _, decl := range unique {
		byType[decl.goType]++
		if byType[decl.goType] == 2 {
			logger.Logger.Warnw("Distinct enum declarations share a type name", "type", decl.goType)
		}
		texts = append(texts, decl.text)
	}
	return texts
}

// runtimeNames are the package level identifiers of the hand-written runtime
// and errors.go
var runtimeNames = []string{
	"Config", "Error", "ErrorBuffer", "HasOperation", "Image", "Interpolate",
	"MajorVersion", "MemoryStats", "MessageError", "MicroVersion", "MinorVersion",
	"NewImageFromBuffer", "NewImageFromFile", "NewInterpolate",
	"ReadVipsMemStats", "Shutdown", "Startup", "Version",
}

// declaredNames collects the identifiers the generated wrappers and the
// runtime declare at package level
func declaredNames(ops []introspection.Operation, cfg Config) map[string]bool {
	names := make(map[string]bool, len(runtimeNames)+5*len(ops))
	for _, name := range runtimeNames {
		names[name] = true
	}
	for _, name := range cfg.BuiltinErrors {
		names[errorName(name)] = true
	}
	for _, op := range ops {
		goName := op.GoName()
		names[goName] = true
		names[goName+"WithOptions"] = true
		names[goName+"Options"] = true
		names["Default"+goName+"Options"] = true
		names[errorName(goName)] = true
	}
	return names
}

// enumRenames picks a Go type name for every enum whose derived name is
// already declared. The Foreign part stripped from the C name comes back
// first, then a Type suffix.
func enumRenames(ops []introspection.Operation, declared map[string]bool) map[string]string {
	renames := map[string]string{}
	for _, op := range ops {
		for _, params := range [][]introspection.Parameter{op.Required, op.Optional, op.Output, op.OptionalOutput} {
			for _, p := range params {
				e, ok := p.Type.(paramtype.Enum)
				if !ok || !declared[e.GoType()] {
					continue
				}
				if _, done := renames[e.Name]; done {
					continue
				}
				name := strings.TrimPrefix(e.Name, "Vips")
				for name == e.GoType() || declared[name] {
					name += "Type"
				}
				declared[name] = true
				renames[e.Name] = name
				logger.Logger.Warnw("Renaming enum type clashing with a declared name",
					"enum", e.Name, "clash", e.GoType(), "type", name, "operation", op.Name)
			}
		}
	}
	return renames
}

// renameEnums returns op with renamed enum parameters. The parameter slices
// are copied so the caller's catalog is left as parsed.
func renameEnums(op introspection.Operation, renames map[string]string) introspection.Operation {
	if len(renames) == 0 {
		return op
	}
	rename := func(params []introspection.Parameter) []introspection.Parameter {
		if params == nil {
			return nil
		}
		out := make([]introspection.Parameter, len(params))
		copy(out, params)
		for i, p := range out {
			if e, ok := p.Type.(paramtype.Enum); ok {
				if name, found := renames[e.Name]; found {
					e.GoName = name
					out[i].Type = e
				}
			}
		}
		return out
	}
	op.Required = rename(op.Required)
	op.Optional = rename(op.Optional)
	op.Output = rename(op.Output)
	op.OptionalOutput = rename(op.OptionalOutput)
	return op
}
