package paramtype

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allTypes = []Type{
	Int{}, UInt{}, Double{}, Str{}, Bool{},
	ArrayInt{}, ArrayDouble{}, ArrayImage{}, ArrayByte{},
	Image{}, Interpolator{}, Blob{},
	Enum{Name: "VipsKernel", Entries: []Entry{{Name: "VIPS_KERNEL_NEAREST", Nick: "nearest", Value: 0}}},
}

func TestEveryKindAnswersEveryQuery(t *testing.T) {
	for _, typ := range allTypes {
		assert.NotEmpty(t, typ.GoType(), "%T", typ)
		assert.NotEmpty(t, typ.DefaultExpr(), "%T", typ)
		for _, role := range []Role{Required, Optional, Output} {
			assert.NotEmpty(t, typ.CType(role), "%T %d", typ, role)
			assert.NotEmpty(t, typ.CgoType(role), "%T %d", typ, role)
		}
	}
}

func TestArraysAreBoxedByName(t *testing.T) {
	assert.Equal(t, "double *", ArrayDouble{}.CType(Required))
	assert.Equal(t, "VipsArrayDouble *", ArrayDouble{}.CType(Optional))
	assert.Equal(t, "*C.VipsArrayDouble", ArrayDouble{}.CgoType(Optional))

	assert.Equal(t, "int *", ArrayInt{}.CType(Required))
	assert.Equal(t, "VipsArrayInt *", ArrayInt{}.CType(Optional))

	assert.Equal(t, "VipsImage **", ArrayImage{}.CType(Required))
	assert.Equal(t, "VipsArrayImage *", ArrayImage{}.CType(Optional))

	assert.Equal(t, "void *", ArrayByte{}.CType(Required))
	assert.Equal(t, "VipsBlob *", ArrayByte{}.CType(Optional))
}

func TestOutputSlotsArePointers(t *testing.T) {
	assert.Equal(t, "VipsImage **", Image{}.CType(Output))
	assert.Equal(t, "double *", Double{}.CType(Output))
	assert.Equal(t, "char **", Str{}.CType(Output))
	assert.Equal(t, "gboolean *", Bool{}.CType(Output))
	assert.Equal(t, "int *", Enum{}.CType(Output))
}

func TestLengthSlot(t *testing.T) {
	cType, cgoType, ok := LengthSlot(ArrayDouble{}, Required)
	require.True(t, ok)
	assert.Equal(t, "int", cType)
	assert.Equal(t, "C.int", cgoType)

	cType, cgoType, ok = LengthSlot(ArrayByte{}, Output)
	require.True(t, ok)
	assert.Equal(t, "size_t *", cType)
	assert.Equal(t, "C.size_t", cgoType)

	_, _, ok = LengthSlot(ArrayImage{}, Required)
	assert.False(t, ok)
	_, _, ok = LengthSlot(ArrayDouble{}, Optional)
	assert.False(t, ok)
	_, _, ok = LengthSlot(Image{}, Required)
	assert.False(t, ok)
}

func TestDefaultExpr(t *testing.T) {
	assert.Equal(t, "1", Double{Min: 0, Max: 10, Default: 1}.DefaultExpr())
	assert.Equal(t, "0.5", Double{Default: 0.5}.DefaultExpr())
	assert.Equal(t, "1e+07", Double{Default: 1e7}.DefaultExpr())
	assert.Equal(t, "math.Inf(-1)", Double{Default: math.Inf(-1)}.DefaultExpr())
	assert.Equal(t, "-3", Int{Default: -3}.DefaultExpr())
	assert.Equal(t, "18446744073709551615", UInt{Default: math.MaxUint64}.DefaultExpr())
	assert.Equal(t, "false", Bool{}.DefaultExpr())
	assert.Equal(t, `""`, Str{}.DefaultExpr())
	assert.Equal(t, "nil", Image{}.DefaultExpr())
}

func TestRangeDoc(t *testing.T) {
	assert.Equal(t, []string{"min: 0, max: 10, default: 1"}, Double{Min: 0, Max: 10, Default: 1}.Doc())
	assert.Equal(t, []string{"min: -Inf, max: +Inf, default: 0"},
		Double{Min: math.Inf(-1), Max: math.Inf(1)}.Doc())
	assert.Equal(t, []string{"default: true"}, Bool{Default: true}.Doc())
	assert.Nil(t, Image{}.Doc())
}

func interpretation(def int) Enum {
	return Enum{
		Name: "VipsInterpretation",
		Entries: []Entry{
			{Name: "VIPS_INTERPRETATION_B_W", Nick: "b-w", Value: 1},
			{Name: "VIPS_INTERPRETATION_sRGB", Nick: "srgb", Value: 22},
			{Name: "VIPS_INTERPRETATION_LABS", Nick: "labs", Value: 21},
		},
		Default: def,
	}
}

func TestEnumDefault(t *testing.T) {
	e := interpretation(22)
	entry, err := e.DefaultEntry()
	require.NoError(t, err)
	assert.Equal(t, "srgb", entry.Nick)
	assert.Equal(t, "Interpretation", e.GoType())
	assert.Equal(t, "InterpretationSrgb", e.DefaultExpr())
	assert.Equal(t, "InterpretationLabs", e.ValueName(e.Entries[2]))
}

func TestEnumGoNameOverride(t *testing.T) {
	e := interpretation(22)
	e.GoName = "ColourInterpretation"
	assert.Equal(t, "ColourInterpretation", e.GoType())
	assert.Equal(t, "ColourInterpretationSrgb", e.DefaultExpr())
	assert.Equal(t, "ColourInterpretationLabs -> VIPS_INTERPRETATION_LABS = 21", e.Doc()[2])
}

func TestEnumDefaultMustMatchOnce(t *testing.T) {
	_, err := interpretation(99).DefaultEntry()
	assert.Error(t, err)
	assert.Panics(t, func() { interpretation(99).DefaultExpr() })

	dup := interpretation(1)
	dup.Entries = append(dup.Entries, Entry{Name: "VIPS_INTERPRETATION_GREY", Nick: "grey", Value: 1})
	_, err = dup.DefaultEntry()
	assert.Error(t, err)
}

func TestEnumDoc(t *testing.T) {
	assert.Equal(t, []string{
		"InterpretationBW -> VIPS_INTERPRETATION_B_W = 1 [DEFAULT]",
		"InterpretationSrgb -> VIPS_INTERPRETATION_sRGB = 22",
		"InterpretationLabs -> VIPS_INTERPRETATION_LABS = 21",
	}, interpretation(1).Doc())
}
