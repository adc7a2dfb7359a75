package introspection

import (
	"github.com/cshum/vipsbindgen/internal/naming"
	"github.com/cshum/vipsbindgen/internal/paramtype"
)

// Operation represents a libvips operation as printed by the introspection dump
type Operation struct {
	Name           string
	NativeName     string
	NativeGroup    string
	Description    string
	Required       []Parameter
	Optional       []Parameter
	Output         []Parameter
	OptionalOutput []Parameter
}

// GoName returns the exported Go name, e.g. extract_area -> ExtractArea
func (op Operation) GoName() string {
	return naming.ToPascalCase(op.Name)
}

// ParamCount counts every parameter the operation carries
func (op Operation) ParamCount() int {
	return len(op.Required) + len(op.Optional) + len(op.Output) + len(op.OptionalOutput)
}

// Parameter represents one argument or return slot of an operation
type Parameter struct {
	Order       uint8
	Name        string
	NativeName  string
	Nick        string
	Description string
	Type        paramtype.Type
}

// Equal reports whether both parameters have the same name
func (p Parameter) Equal(other Parameter) bool {
	return p.Name == other.Name
}

// FieldName returns the exported options field name
func (p Parameter) FieldName() string {
	return naming.ToPascalCase(naming.ToSnakeCase(p.NativeName))
}

// CName returns the identifier used for the parameter in C shims
func (p Parameter) CName() string {
	name := naming.ToSnakeCase(p.NativeName)
	if cKeywords[name] {
		return name + "_"
	}
	return name
}

var cKeywords = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extern": true, "float": true, "for": true, "goto": true,
	"if": true, "inline": true, "int": true, "long": true, "register": true,
	"restrict": true, "return": true, "short": true, "signed": true, "sizeof": true,
	"static": true, "struct": true, "switch": true, "typedef": true, "union": true,
	"unsigned": true, "void": true, "volatile": true, "while": true,
}
