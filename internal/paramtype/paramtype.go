// Package paramtype is the closed set of libvips argument kinds and the rules
// for how each kind crosses the cgo boundary.
package paramtype

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Role is the slot a parameter occupies in a native call
type Role int

const (
	// Required is a positional input
	Required Role = iota
	// Optional is a by-name input appended as a key/value pair
	Optional
	// Output is a pointer the native call writes through
	Output
)

// Type is one libvips argument kind. The set of implementations is closed.
type Type interface {
	// GoType is the type used for wrapper parameters, options fields and returns
	GoType() string
	// CType is the C shim declaration of the primary slot for the role
	CType(role Role) string
	// CgoType is the Go spelling of the value handed to the shim for the role.
	// For Output it is the type of the local the shim writes through.
	CgoType(role Role) string
	// DefaultExpr is a Go expression for the default value
	DefaultExpr() string
	// Doc is the documentation fragment, one entry per line
	Doc() []string

	isType()
}

// Int is a gint argument
type Int struct {
	Min, Max, Default int
}

// UInt is a guint64 argument
type UInt struct {
	Min, Max, Default uint64
}

// Double is a gdouble argument
type Double struct {
	Min, Max, Default float64
}

// Str is a string argument
type Str struct{}

// Bool is a gboolean argument
type Bool struct {
	Default bool
}

// ArrayInt is a VipsArrayInt argument
type ArrayInt struct{}

// ArrayDouble is a VipsArrayDouble argument
type ArrayDouble struct{}

// ArrayImage is a VipsArrayImage argument
type ArrayImage struct{}

// ArrayByte is a memory area passed as pointer and length
type ArrayByte struct{}

// Image is a VipsImage argument. Prev names the image array whose length the
// native call expects right after this slot.
type Image struct {
	Prev string
}

// Interpolator is a VipsInterpolate argument
type Interpolator struct{}

// Blob is a VipsBlob argument
type Blob struct{}

func (Int) isType()          {}
func (UInt) isType()         {}
func (Double) isType()       {}
func (Str) isType()          {}
func (Bool) isType()         {}
func (ArrayInt) isType()     {}
func (ArrayDouble) isType()  {}
func (ArrayImage) isType()   {}
func (ArrayByte) isType()    {}
func (Image) isType()        {}
func (Interpolator) isType() {}
func (Blob) isType()         {}
func (Enum) isType()         {}

func (Int) GoType() string          { return "int" }
func (UInt) GoType() string         { return "uint64" }
func (Double) GoType() string       { return "float64" }
func (Str) GoType() string          { return "string" }
func (Bool) GoType() string         { return "bool" }
func (ArrayInt) GoType() string     { return "[]int" }
func (ArrayDouble) GoType() string  { return "[]float64" }
func (ArrayImage) GoType() string   { return "[]*Image" }
func (ArrayByte) GoType() string    { return "[]byte" }
func (Image) GoType() string        { return "*Image" }
func (Interpolator) GoType() string { return "*Interpolate" }
func (Blob) GoType() string         { return "[]byte" }

// scalar returns the C type of a value slot, or its pointer for outputs
func scalar(cType string, role Role) string {
	switch {
	case role != Output:
		return cType
	case strings.HasSuffix(cType, "*"):
		return cType + "*"
	}
	return cType + " *"
}

func (Int) CType(role Role) string    { return scalar("int", role) }
func (UInt) CType(role Role) string   { return scalar("guint64", role) }
func (Double) CType(role Role) string { return scalar("double", role) }
func (Bool) CType(role Role) string   { return scalar("gboolean", role) }

func (Str) CType(role Role) string {
	if role == Output {
		return "char **"
	}
	return "const char *"
}

func (ArrayInt) CType(role Role) string {
	switch role {
	case Optional:
		return "VipsArrayInt *"
	case Output:
		return "int **"
	}
	return "int *"
}

func (ArrayDouble) CType(role Role) string {
	switch role {
	case Optional:
		return "VipsArrayDouble *"
	case Output:
		return "double **"
	}
	return "double *"
}

func (ArrayImage) CType(role Role) string {
	switch role {
	case Optional:
		return "VipsArrayImage *"
	case Output:
		return "VipsImage ***"
	}
	return "VipsImage **"
}

func (ArrayByte) CType(role Role) string {
	switch role {
	case Optional:
		return "VipsBlob *"
	case Output:
		return "void **"
	}
	return "void *"
}

func (Image) CType(role Role) string        { return scalar("VipsImage *", role) }
func (Interpolator) CType(role Role) string { return scalar("VipsInterpolate *", role) }
func (Blob) CType(role Role) string         { return scalar("VipsBlob *", role) }

func (Int) CgoType(Role) string    { return "C.int" }
func (UInt) CgoType(Role) string   { return "C.guint64" }
func (Double) CgoType(Role) string { return "C.double" }
func (Str) CgoType(Role) string    { return "*C.char" }
func (Bool) CgoType(Role) string   { return "C.gboolean" }

func (ArrayInt) CgoType(role Role) string {
	if role == Optional {
		return "*C.VipsArrayInt"
	}
	return "*C.int"
}

func (ArrayDouble) CgoType(role Role) string {
	if role == Optional {
		return "*C.VipsArrayDouble"
	}
	return "*C.double"
}

func (ArrayImage) CgoType(role Role) string {
	if role == Optional {
		return "*C.VipsArrayImage"
	}
	return "**C.VipsImage"
}

func (ArrayByte) CgoType(role Role) string {
	if role == Optional {
		return "*C.VipsBlob"
	}
	return "unsafe.Pointer"
}

func (Image) CgoType(Role) string        { return "*C.VipsImage" }
func (Interpolator) CgoType(Role) string { return "*C.VipsInterpolate" }
func (Blob) CgoType(Role) string         { return "*C.VipsBlob" }

func (t Int) DefaultExpr() string    { return strconv.Itoa(t.Default) }
func (t UInt) DefaultExpr() string   { return strconv.FormatUint(t.Default, 10) }
func (t Double) DefaultExpr() string { return floatExpr(t.Default) }
func (Str) DefaultExpr() string      { return `""` }
func (t Bool) DefaultExpr() string   { return strconv.FormatBool(t.Default) }

func (ArrayInt) DefaultExpr() string     { return "nil" }
func (ArrayDouble) DefaultExpr() string  { return "nil" }
func (ArrayImage) DefaultExpr() string   { return "nil" }
func (ArrayByte) DefaultExpr() string    { return "nil" }
func (Image) DefaultExpr() string        { return "nil" }
func (Interpolator) DefaultExpr() string { return "nil" }
func (Blob) DefaultExpr() string         { return "nil" }

// floatExpr renders v as a Go expression assignable to float64
func floatExpr(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "math.Inf(1)"
	case math.IsInf(v, -1):
		return "math.Inf(-1)"
	case math.IsNaN(v):
		return "math.NaN()"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func rangeDoc(min, max, def string) []string {
	return []string{fmt.Sprintf("min: %s, max: %s, default: %s", min, max, def)}
}

func (t Int) Doc() []string {
	return rangeDoc(strconv.Itoa(t.Min), strconv.Itoa(t.Max), strconv.Itoa(t.Default))
}

func (t UInt) Doc() []string {
	return rangeDoc(
		strconv.FormatUint(t.Min, 10),
		strconv.FormatUint(t.Max, 10),
		strconv.FormatUint(t.Default, 10))
}

func (t Double) Doc() []string {
	return rangeDoc(formatFloat(t.Min), formatFloat(t.Max), formatFloat(t.Default))
}

func (t Bool) Doc() []string {
	return []string{fmt.Sprintf("default: %t", t.Default)}
}

func (Str) Doc() []string          { return nil }
func (ArrayInt) Doc() []string     { return nil }
func (ArrayDouble) Doc() []string  { return nil }
func (ArrayImage) Doc() []string   { return nil }
func (ArrayByte) Doc() []string    { return nil }
func (Image) Doc() []string        { return nil }
func (Interpolator) Doc() []string { return nil }
func (Blob) Doc() []string         { return nil }

// LengthSlot reports the paired length slot that follows an array slot in a
// positional native call. ArrayImage inputs have none: their length travels
// with the following image (see Image.Prev).
func LengthSlot(t Type, role Role) (cType, cgoType string, ok bool) {
	if role == Optional {
		return "", "", false
	}
	switch t.(type) {
	case ArrayInt, ArrayDouble:
		return scalar("int", role), "C.int", true
	case ArrayByte:
		return scalar("size_t", role), "C.size_t", true
	case ArrayImage:
		if role == Output {
			return "int *", "C.int", true
		}
	}
	return "", "", false
}
