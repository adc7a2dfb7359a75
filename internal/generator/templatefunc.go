package generator

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/cshum/vipsbindgen/internal/introspection"
)

// GetTemplateFuncMap Helper functions for templates
func GetTemplateFuncMap() template.FuncMap {
	return template.FuncMap{
		"goImports":   goImports,
		"headerGuard": headerGuard,
	}
}

// goImports formats the import block following the cgo preamble
func goImports(imports []string) string {
	var result strings.Builder
	if len(imports) > 0 {
		result.WriteString("import (\n")
		for _, imp := range imports {
			result.WriteString(fmt.Sprintf("\t%q\n", imp))
		}
		result.WriteString(")\n\n")
	}
	return result.String()
}

// headerGuard is the include guard macro of a generated header
func headerGuard(prefix, name string) string {
	guard := strings.ToUpper(prefix + "_" + name)
	return strings.NewReplacer(".", "_", "-", "_", "/", "_").Replace(guard)
}

// emitted is the code produced for one wrapper variant
type emitted struct {
	goCode  string
	cDecl   string
	cImpl   string
	imports []string
}

// wrapperNames returns the Go wrapper and C shim names of an operation
func wrapperNames(op introspection.Operation, cfg Config, withOptions bool) (string, string) {
	goName := op.GoName()
	shimName := fmt.Sprintf("%s_%s", cfg.ShimPrefix, op.Name)
	if withOptions {
		return goName + "WithOptions", shimName + "_with_options"
	}
	return goName, shimName
}

// generateFunction emits the Go wrapper together with its C shim
func generateFunction(op introspection.Operation, cfg Config, withOptions bool) emitted {
	goName, shimName := wrapperNames(op, cfg, withOptions)

	c := newCall()
	c.buffer = bufferInput(op)
	for _, s := range callOrder(op) {
		if s.output {
			c.addOutput(s.param)
		} else {
			c.addInput(s.param)
		}
	}
	if withOptions {
		for _, p := range op.Optional {
			c.addOptional(p)
		}
	}

	var result strings.Builder
	result.WriteString(generateGoFunctionDoc(op, goName, withOptions))
	result.WriteString(fmt.Sprintf("func %s(%s) %s {\n",
		goName, generateGoArgList(op, withOptions), generateReturnTypes(op)))

	if withOptions {
		result.WriteString("\tif options == nil {\n")
		result.WriteString(fmt.Sprintf("\t\toptions = Default%sOptions()\n", op.GoName()))
		result.WriteString("\t}\n")
	}
	for _, line := range c.prelude {
		result.WriteString("\t" + line + "\n")
	}
	for _, line := range c.outputs {
		result.WriteString("\t" + line + "\n")
	}

	result.WriteString(fmt.Sprintf("\tif C.%s(%s) != 0 {\n", shimName, strings.Join(c.goArgs, ", ")))
	result.WriteString(fmt.Sprintf("\t\treturn %s\n", strings.Join(append(c.zeros, errorName(op.GoName())), ", ")))
	result.WriteString("\t}\n")
	result.WriteString(fmt.Sprintf("\treturn %s\n", strings.Join(append(c.results, "nil"), ", ")))
	result.WriteString("}\n")

	var imports []string
	for imp := range c.imports {
		imports = append(imports, imp)
	}
	return emitted{
		goCode:  result.String(),
		cDecl:   generateCFunctionDeclaration(shimName, c),
		cImpl:   generateCFunctionImplementation(op, shimName, c),
		imports: imports,
	}
}

// generateGoArgList formats the wrapper parameters,
// e.g. "in *Image, scale float64, options *ResizeOptions"
func generateGoArgList(op introspection.Operation, withOptions bool) string {
	var args []string
	for _, p := range op.Required {
		args = append(args, fmt.Sprintf("%s %s", p.Name, p.Type.GoType()))
	}
	if withOptions {
		args = append(args, fmt.Sprintf("options *%sOptions", op.GoName()))
	}
	return strings.Join(args, ", ")
}

// generateReturnTypes formats the wrapper results, e.g. "(*Image, error)"
func generateReturnTypes(op introspection.Operation) string {
	if len(op.Output) == 0 {
		return "error"
	}
	var types []string
	for _, p := range op.Output {
		types = append(types, p.Type.GoType())
	}
	return "(" + strings.Join(append(types, "error"), ", ") + ")"
}

// generateGoFunctionDoc documents parameters with their ranges and enum values
func generateGoFunctionDoc(op introspection.Operation, goName string, withOptions bool) string {
	var result strings.Builder
	if withOptions {
		result.WriteString(fmt.Sprintf("// %s %s with optional arguments\n", goName, op.Description))
	} else {
		result.WriteString(fmt.Sprintf("// %s %s\n", goName, op.Description))
	}
	if len(op.Required) > 0 || withOptions {
		result.WriteString("//\n")
	}
	for _, p := range op.Required {
		result.WriteString(fmt.Sprintf("//   - %s: %s -> %s\n", p.Name, p.Type.GoType(), p.Description))
		for _, line := range p.Type.Doc() {
			result.WriteString(fmt.Sprintf("//     %s\n", line))
		}
	}
	if withOptions {
		result.WriteString(fmt.Sprintf("//   - options: *%sOptions -> optional arguments, nil for defaults\n", op.GoName()))
	}
	if len(op.Output) > 0 {
		result.WriteString("//\n// Returns:\n")
		for _, p := range op.Output {
			result.WriteString(fmt.Sprintf("//   - %s: %s -> %s\n", p.Name, p.Type.GoType(), p.Description))
		}
	}
	return result.String()
}

// generateOptionsStruct generates the options struct of an operation and its
// constructor, which sets every field explicitly
func generateOptionsStruct(op introspection.Operation, cfg Config) (string, bool) {
	if len(op.Optional) == 0 {
		return "", false
	}
	var result strings.Builder
	structName := op.GoName() + "Options"
	usesMath := false

	result.WriteString(fmt.Sprintf("// %s optional arguments for vips_%s\n", structName, op.NativeName))
	result.WriteString(fmt.Sprintf("type %s struct {\n", structName))
	for _, p := range op.Optional {
		fieldName := p.FieldName()
		if p.Description != "" {
			result.WriteString(fmt.Sprintf("\t// %s %s\n", fieldName, p.Description))
		}
		for _, line := range p.Type.Doc() {
			result.WriteString(fmt.Sprintf("\t// %s\n", line))
		}
		result.WriteString(fmt.Sprintf("\t%s %s\n", fieldName, p.Type.GoType()))
	}
	result.WriteString("}\n\n")

	result.WriteString(fmt.Sprintf("// Default%s creates default value for vips_%s optional arguments\n",
		structName, op.NativeName))
	result.WriteString(fmt.Sprintf("func Default%s() *%s {\n", structName, structName))
	result.WriteString(fmt.Sprintf("\treturn &%s{\n", structName))
	for _, p := range op.Optional {
		value := p.Type.DefaultExpr()
		if isICC(p) {
			value = strconv.Quote(cfg.ICCDefault)
		}
		if strings.Contains(value, "math.") {
			usesMath = true
		}
		result.WriteString(fmt.Sprintf("\t\t%s: %s,\n", p.FieldName(), value))
	}
	result.WriteString("\t}\n}\n")

	return result.String(), usesMath
}

// generateCFunctionDeclaration generates the header declaration of a shim
func generateCFunctionDeclaration(shimName string, c *call) string {
	return generateCFunctionSignature(shimName, c) + ";\n"
}

// generateCFunctionSignature generates just the shim signature
func generateCFunctionSignature(shimName string, c *call) string {
	params := "void"
	if len(c.cParams) > 0 {
		params = strings.Join(c.cParams, ", ")
	}
	return fmt.Sprintf("int %s(%s)", shimName, params)
}

// generateCFunctionImplementation forwards the shim to the variadic libvips
// call, terminating the argument list with NULL
func generateCFunctionImplementation(op introspection.Operation, shimName string, c *call) string {
	var result strings.Builder
	result.WriteString(generateCFunctionSignature(shimName, c))
	result.WriteString(" {\n")
	var handles []string
	for _, o := range c.options {
		if o.handle {
			handles = append(handles, o.cName)
		}
	}
	writeNativeCalls(&result, op, c, handles, "    ", map[string]bool{})
	result.WriteString("}\n")
	return result.String()
}

// writeNativeCalls branches on each unset handle option so that only the
// options the caller set reach libvips
func writeNativeCalls(w *strings.Builder, op introspection.Operation, c *call,
	handles []string, indent string, unset map[string]bool) {
	if len(handles) == 0 {
		args := append([]string(nil), c.cArgs...)
		for _, o := range c.options {
			if !unset[o.cName] {
				args = append(args, fmt.Sprintf("%q", o.key), o.cName)
			}
		}
		args = append(args, "NULL")
		w.WriteString(fmt.Sprintf("%sreturn vips_%s(%s);\n", indent, op.NativeName, strings.Join(args, ", ")))
		return
	}
	w.WriteString(fmt.Sprintf("%sif (%s != NULL) {\n", indent, handles[0]))
	writeNativeCalls(w, op, c, handles[1:], indent+"    ", unset)
	w.WriteString(indent + "}\n")
	unset[handles[0]] = true
	writeNativeCalls(w, op, c, handles[1:], indent, unset)
	delete(unset, handles[0])
}
