package generator

import (
	"fmt"
	"strings"

	"github.com/cshum/vipsbindgen/internal/introspection"
	"github.com/cshum/vipsbindgen/internal/naming"
	"github.com/cshum/vipsbindgen/internal/paramtype"
)

// slot is a required input or output in native call order
type slot struct {
	param  introspection.Parameter
	output bool
}

// callOrder merges required inputs and outputs by their catalog order
func callOrder(op introspection.Operation) []slot {
	slots := make([]slot, 0, len(op.Required)+len(op.Output))
	ri, oi := 0, 0
	for ri < len(op.Required) || oi < len(op.Output) {
		if oi >= len(op.Output) || (ri < len(op.Required) && op.Required[ri].Order <= op.Output[oi].Order) {
			slots = append(slots, slot{param: op.Required[ri]})
			ri++
		} else {
			slots = append(slots, slot{param: op.Output[oi], output: true})
			oi++
		}
	}
	return slots
}

// call collects one shim invocation, on the Go side and in C
type call struct {
	prelude []string // Go statements ahead of the call
	outputs []string // Go declarations of out slots
	goArgs  []string // cgo arguments to the shim
	cParams []string // shim parameter declarations
	cArgs   []string // positional arguments the shim forwards to libvips
	options []option // by-name arguments, after the positional ones
	results []string // Go expressions returned on success
	zeros   []string // Go expressions returned on failure
	imports map[string]bool
	// buffer is the required byte input that output images read from
	buffer string
}

// option is a by-name argument of the native call
type option struct {
	key   string
	cName string
	// handle options are forwarded only when set
	handle bool
}

func newCall() *call {
	return &call{imports: map[string]bool{}}
}

// bufferInput names the required byte input of a loader, if any
func bufferInput(op introspection.Operation) string {
	for _, p := range op.Required {
		if _, ok := p.Type.(paramtype.ArrayByte); ok {
			return p.Name
		}
	}
	return ""
}

// cParam formats a C declaration, keeping the pointer star next to the name
func cParam(cType, name string) string {
	if strings.HasSuffix(cType, "*") {
		return cType + name
	}
	return cType + " " + name
}

// local is the Go variable holding the C representation of a parameter
func local(name string) string {
	return "c" + naming.ToPascalCase(strings.TrimSuffix(name, "_"))
}

func (c *call) param(cType, name string) {
	c.cParams = append(c.cParams, cParam(cType, name))
	c.cArgs = append(c.cArgs, name)
}

func (c *call) deferred(decl, cleanup string) {
	c.prelude = append(c.prelude, decl, "defer "+cleanup)
}

// addInput passes a required input positionally
func (c *call) addInput(p introspection.Parameter) {
	name, cName := p.Name, p.CName()
	t := p.Type
	cType := t.CType(paramtype.Required)
	v := local(name)

	switch t.(type) {
	case paramtype.Int, paramtype.UInt, paramtype.Double, paramtype.Enum:
		c.goArgs = append(c.goArgs, fmt.Sprintf("%s(%s)", t.CgoType(paramtype.Required), name))
	case paramtype.Bool:
		c.goArgs = append(c.goArgs, fmt.Sprintf("C.gboolean(boolToInt(%s))", name))
	case paramtype.Str:
		c.deferred(fmt.Sprintf("%s := C.CString(%s)", v, name), fmt.Sprintf("freeCString(%s)", v))
		c.goArgs = append(c.goArgs, v)
	case paramtype.ArrayInt:
		c.deferred(fmt.Sprintf("%s, %sLen := intArrayToC(%s)", v, v, name), fmt.Sprintf("freeIntArray(%s)", v))
		c.goArgs = append(c.goArgs, v, v+"Len")
	case paramtype.ArrayDouble:
		c.deferred(fmt.Sprintf("%s, %sLen := doubleArrayToC(%s)", v, v, name), fmt.Sprintf("freeDoubleArray(%s)", v))
		c.goArgs = append(c.goArgs, v, v+"Len")
	case paramtype.ArrayImage:
		c.deferred(fmt.Sprintf("%s := imageArrayToC(%s)", v, name), fmt.Sprintf("freeImageArray(%s)", v))
		c.goArgs = append(c.goArgs, v)
	case paramtype.ArrayByte:
		c.goArgs = append(c.goArgs, fmt.Sprintf("bytesPointer(%s)", name), fmt.Sprintf("C.size_t(len(%s))", name))
	case paramtype.Image:
		c.goArgs = append(c.goArgs, fmt.Sprintf("imageToC(%s)", name))
	case paramtype.Interpolator:
		c.goArgs = append(c.goArgs, fmt.Sprintf("interpolateToC(%s)", name))
	case paramtype.Blob:
		c.deferred(fmt.Sprintf("%s := bytesToBlob(%s)", v, name), fmt.Sprintf("unrefBlob(%s)", v))
		c.goArgs = append(c.goArgs, v)
	default:
		panic(fmt.Sprintf("unhandled parameter kind %T", t))
	}

	c.param(cType, cName)
	if lenType, _, ok := paramtype.LengthSlot(t, paramtype.Required); ok {
		c.param(lenType, lengthName(cName, t))
	}
}

// lengthName names the C length slot paired with an array
func lengthName(cName string, t paramtype.Type) string {
	if _, ok := t.(paramtype.ArrayByte); ok {
		return cName + "_len"
	}
	return cName + "_n"
}

// addOutput passes a pointer the native call writes through and converts it
// to the Go return value
func (c *call) addOutput(p introspection.Parameter) {
	cName := p.CName()
	t := p.Type
	v := local(p.Name)
	cgoType := t.CgoType(paramtype.Output)
	if strings.HasPrefix(cgoType, "unsafe.") {
		c.imports["unsafe"] = true
	}

	c.outputs = append(c.outputs, fmt.Sprintf("var %s %s", v, cgoType))
	c.goArgs = append(c.goArgs, "&"+v)
	c.param(t.CType(paramtype.Output), cName)

	if lenType, lenCgoType, ok := paramtype.LengthSlot(t, paramtype.Output); ok {
		c.outputs = append(c.outputs, fmt.Sprintf("var %sLen %s", v, lenCgoType))
		c.goArgs = append(c.goArgs, "&"+v+"Len")
		c.param(lenType, lengthName(cName, t))
	}

	var result string
	switch t := t.(type) {
	case paramtype.Int:
		result = fmt.Sprintf("int(%s)", v)
	case paramtype.UInt:
		result = fmt.Sprintf("uint64(%s)", v)
	case paramtype.Double:
		result = fmt.Sprintf("float64(%s)", v)
	case paramtype.Bool:
		result = fmt.Sprintf("%s != 0", v)
	case paramtype.Enum:
		result = fmt.Sprintf("%s(%s)", t.GoType(), v)
	case paramtype.Str:
		result = fmt.Sprintf("C.GoString(%s)", v)
	case paramtype.ArrayInt:
		result = fmt.Sprintf("intArrayFromC(%s, %sLen)", v, v)
	case paramtype.ArrayDouble:
		result = fmt.Sprintf("doubleArrayFromC(%s, %sLen)", v, v)
	case paramtype.ArrayImage:
		result = fmt.Sprintf("imageArrayFromC(%s, %sLen)", v, v)
	case paramtype.ArrayByte:
		result = fmt.Sprintf("bytesFromC(%s, %sLen)", v, v)
	case paramtype.Image:
		if t.Prev != "" {
			// the image array length travels right after the out pointer
			c.goArgs = append(c.goArgs, fmt.Sprintf("C.int(len(%s))", t.Prev))
			c.param("int", cName+"_n")
		}
		if c.buffer != "" {
			result = fmt.Sprintf("newImageWithBuffer(%s, %s)", v, c.buffer)
		} else {
			result = fmt.Sprintf("newImage(%s)", v)
		}
	case paramtype.Interpolator:
		result = fmt.Sprintf("newInterpolate(%s)", v)
	case paramtype.Blob:
		result = fmt.Sprintf("blobToBytes(%s)", v)
	default:
		panic(fmt.Sprintf("unhandled parameter kind %T", t))
	}
	c.results = append(c.results, result)
	c.zeros = append(c.zeros, zeroValue(p.Type.GoType()))
}

// addOptional appends a by-name key and value to the native call
func (c *call) addOptional(p introspection.Parameter) {
	cName := p.CName()
	t := p.Type
	field := "options." + p.FieldName()
	v := local(p.FieldName())

	switch t.(type) {
	case paramtype.Int, paramtype.UInt, paramtype.Double, paramtype.Enum:
		c.goArgs = append(c.goArgs, fmt.Sprintf("%s(%s)", t.CgoType(paramtype.Optional), field))
	case paramtype.Bool:
		c.goArgs = append(c.goArgs, fmt.Sprintf("C.gboolean(boolToInt(%s))", field))
	case paramtype.Str:
		c.deferred(fmt.Sprintf("%s := C.CString(%s)", v, field), fmt.Sprintf("freeCString(%s)", v))
		c.goArgs = append(c.goArgs, v)
	case paramtype.ArrayInt:
		c.deferred(fmt.Sprintf("%s := newArrayInt(%s)", v, field), fmt.Sprintf("unrefArrayInt(%s)", v))
		c.goArgs = append(c.goArgs, v)
	case paramtype.ArrayDouble:
		c.deferred(fmt.Sprintf("%s := newArrayDouble(%s)", v, field), fmt.Sprintf("unrefArrayDouble(%s)", v))
		c.goArgs = append(c.goArgs, v)
	case paramtype.ArrayImage:
		c.deferred(fmt.Sprintf("%s := newArrayImage(%s)", v, field), fmt.Sprintf("unrefArrayImage(%s)", v))
		c.goArgs = append(c.goArgs, v)
	case paramtype.ArrayByte, paramtype.Blob:
		c.deferred(fmt.Sprintf("%s := bytesToBlob(%s)", v, field), fmt.Sprintf("unrefBlob(%s)", v))
		c.goArgs = append(c.goArgs, v)
	case paramtype.Image:
		c.goArgs = append(c.goArgs, fmt.Sprintf("imageToC(%s)", field))
	case paramtype.Interpolator:
		c.goArgs = append(c.goArgs, fmt.Sprintf("interpolateToC(%s)", field))
	default:
		panic(fmt.Sprintf("unhandled parameter kind %T", t))
	}

	var handle bool
	switch t.(type) {
	case paramtype.Image, paramtype.Interpolator:
		handle = true
	}
	c.cParams = append(c.cParams, cParam(t.CType(paramtype.Optional), cName))
	c.options = append(c.options, option{key: p.NativeName, cName: cName, handle: handle})
}
