// Package introspection parses the libvips operation catalog dump into
// Operations with classified Parameters.
//
// The dump is line oriented. Every operation looks like
//
//	OPERATION:
//	resize:VipsResize
//	resize an image
//	REQUIRED:
//	PARAM:
//	in
//	Input
//	Input image argument
//	VipsImage
//	PARAM:
//	OUTPUT:out
//	...
//	OPTIONAL:
//	PARAM:
//	...
//
// Blank lines are ignored. Any other deviation aborts parsing.
package introspection

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cshum/vipsbindgen/internal/logger"
	"github.com/cshum/vipsbindgen/internal/naming"
	"github.com/cshum/vipsbindgen/internal/paramtype"
)

const (
	markerOperation = "OPERATION:"
	markerRequired  = "REQUIRED:"
	markerOptional  = "OPTIONAL:"
	markerParam     = "PARAM:"
	prefixOutput    = "OUTPUT:"
)

// ParseError is a malformed introspection dump
type ParseError struct {
	Line      int
	Operation string
	Msg       string
}

func (e *ParseError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("introspection line %d (%s): %s", e.Line, e.Operation, e.Msg)
	}
	return fmt.Sprintf("introspection line %d: %s", e.Line, e.Msg)
}

type line struct {
	no   int
	text string
}

// Parser turns the introspection dump into operations
type Parser struct {
	rules Rules
	lines []line
	pos   int
	// op is the operation being parsed, for error messages
	op string
	// last is the line number of the last line read, for EOF errors
	last int
}

// NewParser creates a parser applying the given catalog corrections
func NewParser(rules Rules) *Parser {
	return &Parser{rules: rules}
}

// Parse parses a dump with the default catalog corrections
func Parse(text string) ([]Operation, error) {
	return NewParser(DefaultRules()).Parse(strings.NewReader(text))
}

// Parse reads the whole dump and returns its operations in dump order
func (p *Parser) Parse(r io.Reader) ([]Operation, error) {
	if err := p.load(r); err != nil {
		return nil, err
	}

	var operations []Operation
	for p.pos < len(p.lines) {
		op, skipped, err := p.parseOperation()
		if err != nil {
			return nil, err
		}
		if skipped {
			continue
		}
		logger.Logger.Debugw("parsed operation",
			"name", op.Name,
			"group", op.NativeGroup,
			"required", len(op.Required),
			"optional", len(op.Optional),
			"output", len(op.Output))
		operations = append(operations, op)
	}
	return operations, nil
}

// load reads non-blank lines, keeping their line numbers
func (p *Parser) load(r io.Reader) error {
	p.lines, p.pos, p.op, p.last = nil, 0, "", 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	no := 0
	for scanner.Scan() {
		no++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		p.lines = append(p.lines, line{no: no, text: text})
	}
	p.last = no
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "failed to read introspection dump")
	}
	return nil
}

func (p *Parser) errorf(no int, format string, args ...interface{}) error {
	return errors.WithStack(&ParseError{
		Line:      no,
		Operation: p.op,
		Msg:       fmt.Sprintf(format, args...),
	})
}

func (p *Parser) next() (line, bool) {
	if p.pos >= len(p.lines) {
		return line{no: p.last}, false
	}
	l := p.lines[p.pos]
	p.pos++
	return l, true
}

// until collects lines up to the first line equal to one of the markers.
// The marker is not consumed.
func (p *Parser) until(markers ...string) []line {
	start := p.pos
	for p.pos < len(p.lines) {
		for _, marker := range markers {
			if p.lines[p.pos].text == marker {
				return p.lines[start:p.pos]
			}
		}
		p.pos++
	}
	return p.lines[start:p.pos]
}

// expect consumes a marker line
func (p *Parser) expect(marker string) error {
	l, ok := p.next()
	if !ok {
		return p.errorf(l.no, "unexpected end of dump, expected %s", marker)
	}
	if l.text != marker {
		return p.errorf(l.no, "expected %s, got %q", marker, l.text)
	}
	return nil
}

// parseOperation parses one operation block. Operations matching
// Rules.SkipOperations are consumed without parsing their parameters.
func (p *Parser) parseOperation() (Operation, bool, error) {
	p.op = ""
	if err := p.expect(markerOperation); err != nil {
		return Operation{}, false, err
	}

	header, ok := p.next()
	if !ok {
		return Operation{}, false, p.errorf(header.no, "missing operation header")
	}
	nativeName, group, found := strings.Cut(header.text, ":")
	if !found || nativeName == "" || group == "" || strings.Contains(group, ":") {
		return Operation{}, false, p.errorf(header.no, "malformed operation header %q, want name:group", header.text)
	}
	p.op = nativeName

	if p.rules.skipped(nativeName) {
		p.until(markerOperation)
		logger.Logger.Debugw("skipped operation", "name", nativeName, "group", group)
		return Operation{}, true, nil
	}

	descLines := p.until(markerRequired, markerOptional, markerOperation)
	if len(descLines) == 0 {
		return Operation{}, false, p.errorf(header.no, "missing description")
	}
	description := make([]string, 0, len(descLines))
	for _, l := range descLines {
		description = append(description, l.text)
	}

	if err := p.expect(markerRequired); err != nil {
		return Operation{}, false, err
	}
	requiredBlocks, err := p.blocks(p.until(markerOptional, markerOperation))
	if err != nil {
		return Operation{}, false, err
	}
	if err := p.expect(markerOptional); err != nil {
		return Operation{}, false, err
	}
	optionalBlocks, err := p.blocks(p.until(markerOperation))
	if err != nil {
		return Operation{}, false, err
	}

	op := Operation{
		Name:        p.operationName(nativeName),
		NativeName:  nativeName,
		NativeGroup: group,
		Description: strings.Join(description, " "),
	}

	var order uint8
	substituted := false
	for _, block := range requiredBlocks {
		if !substituted {
			if s, ok := p.rules.substitution(group, order); ok {
				params := s.synthesize(order)
				for i := range params {
					params[i].Name = p.parameterName(params[i].NativeName)
				}
				logger.Logger.Debugw("substituted required parameters",
					"operation", nativeName,
					"discarded", block[0].text,
					"params", s.Params)
				op.Required = append(op.Required, params...)
				order += uint8(len(params))
				substituted = true
				continue
			}
		}

		prev := ""
		if order == 1 && len(op.Required) > 0 {
			if _, ok := op.Required[0].Type.(paramtype.ArrayImage); ok {
				prev = op.Required[0].Name
			}
		}
		param, isOutput, err := p.parseParam(block, order, prev)
		if err != nil {
			return Operation{}, false, err
		}
		if isOutput {
			op.Output = append(op.Output, param)
		} else {
			op.Required = append(op.Required, param)
		}
		order++
	}

	for _, block := range optionalBlocks {
		param, isOutput, err := p.parseParam(block, 0, "")
		if err != nil {
			return Operation{}, false, err
		}
		if isOutput {
			op.OptionalOutput = append(op.OptionalOutput, param)
		} else {
			op.Optional = append(op.Optional, param)
		}
	}

	return op, false, nil
}

// blocks splits a section into parameter blocks at PARAM: separators
func (p *Parser) blocks(lines []line) ([][]line, error) {
	var blocks [][]line
	var current []line
	for i, l := range lines {
		if l.text == markerParam {
			if len(current) > 0 {
				blocks = append(blocks, current)
			}
			current = nil
			continue
		}
		if i == 0 {
			return nil, p.errorf(l.no, "expected %s, got %q", markerParam, l.text)
		}
		current = append(current, l)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks, nil
}

func (p *Parser) operationName(nativeName string) string {
	if renamed, ok := p.rules.OperationRenames[nativeName]; ok {
		return renamed
	}
	return naming.ToSnakeCase(nativeName)
}

func (p *Parser) parameterName(nativeName string) string {
	name := naming.ToCamelCase(naming.ToSnakeCase(nativeName))
	if p.rules.ReservedNames[name] {
		return name + p.rules.ReservedSuffix
	}
	return name
}

// parseParam parses name, nick, description, type descriptor and any extra
// descriptor lines
func (p *Parser) parseParam(block []line, order uint8, prev string) (Parameter, bool, error) {
	if len(block) < 4 {
		return Parameter{}, false, p.errorf(block[0].no,
			"parameter block has %d lines, want name, nick, description and type", len(block))
	}

	nativeName := block[0].text
	isOutput := strings.HasPrefix(nativeName, prefixOutput)
	if isOutput {
		nativeName = strings.TrimPrefix(nativeName, prefixOutput)
	}
	if nativeName == "" {
		return Parameter{}, false, p.errorf(block[0].no, "empty parameter name")
	}

	typ, err := p.parseType(block[3], block[4:], prev)
	if err != nil {
		return Parameter{}, false, err
	}

	return Parameter{
		Order:       order,
		Name:        p.parameterName(nativeName),
		NativeName:  nativeName,
		Nick:        block[1].text,
		Description: block[2].text,
		Type:        typ,
	}, isOutput, nil
}
