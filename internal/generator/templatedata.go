package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cshum/vipsbindgen/internal/introspection"
	"github.com/cshum/vipsbindgen/internal/logger"
	"github.com/cshum/vipsbindgen/internal/paramtype"
)

// TemplateData holds all data needed by any template
type TemplateData struct {
	Package    string
	ShimPrefix string
	Imports    []string

	Enums         []string
	Functions     string
	ErrorKinds    []string
	ErrorMessages string
	ErrorNames    string
	ShimDecls     string
	ShimImpls     string

	// Operations are the emitted operations in catalog order
	Operations []introspection.Operation
	// Skipped are the blocklisted operation names
	Skipped []string
}

// accumulator collects the sections of the generated files while folding
// over the catalog
type accumulator struct {
	cfg           Config
	functions     strings.Builder
	errorKinds    []string
	errorMessages strings.Builder
	errorNames    strings.Builder
	shimDecls     strings.Builder
	shimImpls     strings.Builder
	enums         []enumDecl
	imports       map[string]bool
	errorSeen     map[string]bool
}

func newAccumulator(cfg Config) *accumulator {
	acc := &accumulator{
		cfg:       cfg,
		imports:   map[string]bool{},
		errorSeen: map[string]bool{},
	}
	for _, name := range cfg.BuiltinErrors {
		acc.addError(name)
	}
	return acc
}

// addError registers an error kind and its display text once
func (acc *accumulator) addError(goName string) {
	name := errorName(goName)
	if acc.errorSeen[name] {
		logger.Logger.Warnw("Duplicate error kind", "error", name)
		return
	}
	acc.errorSeen[name] = true
	acc.errorKinds = append(acc.errorKinds, name)
	acc.errorMessages.WriteString(fmt.Sprintf("\tcase %s:\n\t\treturn %q\n", name, errorMessage(goName)))
	acc.errorNames.WriteString(fmt.Sprintf("\tcase %s:\n\t\treturn %q\n", name, goName+"Error"))
}

func (acc *accumulator) addEmitted(e emitted) {
	acc.functions.WriteString("\n")
	acc.functions.WriteString(e.goCode)
	acc.shimDecls.WriteString(e.cDecl)
	acc.shimImpls.WriteString("\n")
	acc.shimImpls.WriteString(e.cImpl)
	for _, imp := range e.imports {
		acc.imports[imp] = true
	}
}

// addOperation folds one operation into the accumulator
func (acc *accumulator) addOperation(op introspection.Operation) {
	if options, usesMath := generateOptionsStruct(op, acc.cfg); options != "" {
		acc.functions.WriteString("\n")
		acc.functions.WriteString(options)
		if usesMath {
			acc.imports["math"] = true
		}
	}
	acc.addEmitted(generateFunction(op, acc.cfg, false))
	if len(op.Optional) > 0 {
		acc.addEmitted(generateFunction(op, acc.cfg, true))
	}
	acc.addError(op.GoName())

	for _, params := range [][]introspection.Parameter{op.Required, op.Optional, op.Output} {
		for _, p := range params {
			if e, ok := p.Type.(paramtype.Enum); ok {
				acc.enums = append(acc.enums, generateEnumDecl(e))
			}
		}
	}
}

// Emit folds the catalog into the sections of the generated files.
// Output depends only on the operations and configuration.
func Emit(operations []introspection.Operation, cfg Config) *TemplateData {
	acc := newAccumulator(cfg)
	data := &TemplateData{
		Package:    cfg.Package,
		ShimPrefix: cfg.ShimPrefix,
	}

	selected := make([]introspection.Operation, 0, len(operations))
	for _, op := range operations {
		if cfg.Blocked(op) {
			logger.Logger.Debugw("Skipping blocklisted operation", "operation", op.Name, "group", op.NativeGroup)
			data.Skipped = append(data.Skipped, op.Name)
			continue
		}
		selected = append(selected, op)
	}
	renames := enumRenames(selected, declaredNames(selected, cfg))

	for _, op := range selected {
		op = renameEnums(op, renames)
		logger.Logger.Debugw("Emitting operation", "operation", op.Name,
			"required", len(op.Required), "optional", len(op.Optional), "outputs", len(op.Output))
		acc.addOperation(op)
		data.Operations = append(data.Operations, op)
	}

	for imp := range acc.imports {
		data.Imports = append(data.Imports, imp)
	}
	sort.Strings(data.Imports)

	data.Enums = dedupEnums(acc.enums, cfg.EnumDedup)
	data.Functions = acc.functions.String()
	data.ErrorKinds = acc.errorKinds
	data.ErrorMessages = acc.errorMessages.String()
	data.ErrorNames = acc.errorNames.String()
	data.ShimDecls = acc.shimDecls.String()
	data.ShimImpls = acc.shimImpls.String()
	return data
}
