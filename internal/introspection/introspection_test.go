package introspection

import (
	"bytes"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cshum/vipsbindgen/internal/paramtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
	"gopkg.in/yaml.v3"
)

func loadCatalog(t *testing.T) (string, []Operation) {
	t.Helper()
	data, err := os.ReadFile("testdata/catalog.dump")
	require.NoError(t, err)
	ops, err := Parse(string(data))
	require.NoError(t, err)
	return string(data), ops
}

func findOperation(t *testing.T, ops []Operation, name string) Operation {
	t.Helper()
	for _, op := range ops {
		if op.Name == name {
			return op
		}
	}
	require.Failf(t, "operation not found", "%s", name)
	return Operation{}
}

func names(params []Parameter) []string {
	var result []string
	for _, p := range params {
		result = append(result, p.Name)
	}
	return result
}

func TestParseIsTotal(t *testing.T) {
	text, ops := loadCatalog(t)
	require.Len(t, ops, strings.Count(text, "OPERATION:\n"))

	// every PARAM: block yields one parameter, except the affine coefficients
	blocks := strings.Split(text, "OPERATION:\n")[1:]
	for i, op := range ops {
		want := strings.Count(blocks[i], "PARAM:\n")
		if op.NativeGroup == "VipsAffine" {
			want += 3
		}
		assert.Equal(t, want, op.ParamCount(), op.Name)
	}
}

func TestParseOrderAndClassification(t *testing.T) {
	_, ops := loadCatalog(t)

	resize := findOperation(t, ops, "resize")
	assert.Equal(t, "resize", resize.NativeName)
	assert.Equal(t, "VipsResize", resize.NativeGroup)
	assert.Equal(t, "resize an image", resize.Description)
	assert.Equal(t, "Resize", resize.GoName())
	assert.Equal(t, []string{"in", "scale"}, names(resize.Required))
	assert.Equal(t, []string{"out"}, names(resize.Output))
	assert.Empty(t, resize.Optional)

	assert.Equal(t, uint8(0), resize.Required[0].Order)
	assert.Equal(t, uint8(1), resize.Output[0].Order)
	assert.Equal(t, uint8(2), resize.Required[1].Order)
	assert.Equal(t, paramtype.Image{}, resize.Required[0].Type)
	assert.Equal(t, paramtype.Double{Min: 0, Max: 10, Default: 1}, resize.Required[1].Type)
	assert.Equal(t, "Scale image by this factor", resize.Required[1].Description)
	assert.Equal(t, "Scale factor", resize.Required[1].Nick)
}

func TestParseOptional(t *testing.T) {
	_, ops := loadCatalog(t)

	png := findOperation(t, ops, "pngsave")
	require.Len(t, png.Optional, 1)
	strip := png.Optional[0]
	assert.Equal(t, "strip", strip.Name)
	assert.Equal(t, "strip", strip.NativeName)
	assert.Equal(t, "Strip", strip.FieldName())
	assert.Equal(t, uint8(0), strip.Order)
	assert.Equal(t, paramtype.Bool{Default: false}, strip.Type)
	assert.Equal(t, paramtype.Str{}, png.Required[1].Type)

	load := findOperation(t, ops, "jpegload_buffer")
	assert.Equal(t, "JpegloadBuffer", load.GoName())
	assert.Equal(t, paramtype.ArrayByte{}, load.Required[0].Type)
	failOn := load.Optional[1]
	assert.Equal(t, "failOn", failOn.Name)
	assert.Equal(t, "fail-on", failOn.NativeName)
	assert.Equal(t, "FailOn", failOn.FieldName())
	assert.Equal(t, "fail_on", failOn.CName())
}

func TestParseOptionalOutputs(t *testing.T) {
	_, ops := loadCatalog(t)

	maxOp := findOperation(t, ops, "max")
	assert.Equal(t, []string{"size"}, names(maxOp.Optional))
	assert.Equal(t, []string{"x"}, names(maxOp.OptionalOutput))
	assert.Equal(t, paramtype.Double{Min: math.Inf(-1), Max: math.Inf(1)}, maxOp.Output[0].Type)
}

func TestParseAffineSubstitution(t *testing.T) {
	_, ops := loadCatalog(t)

	affine := findOperation(t, ops, "affine")
	assert.Equal(t, []string{"in", "a", "b", "c", "d"}, names(affine.Required))
	assert.Equal(t, []string{"out"}, names(affine.Output))

	coefficients := affine.Required[1:]
	for i, p := range coefficients {
		assert.Equal(t, coefficients[0].Order+uint8(i), p.Order, p.Name)
		assert.Equal(t, paramtype.Double{Min: math.Inf(-1), Max: math.Inf(1), Default: 0}, p.Type)
		assert.Equal(t, "Transformation Matrix coefficient", p.Description)
	}
	assert.Equal(t, uint8(2), coefficients[0].Order)

	// optional parameters are untouched
	assert.Equal(t, []string{"interpolate", "oarea", "extend"}, names(affine.Optional))
	assert.Equal(t, paramtype.Interpolator{}, affine.Optional[0].Type)
	assert.Equal(t, paramtype.ArrayInt{}, affine.Optional[1].Type)
}

func TestParseSubstitutionDiscardsOriginalEntries(t *testing.T) {
	dump := `OPERATION:
affine:VipsAffine
affine transform of an image
REQUIRED:
PARAM:
in
Input
Input image argument
VipsImage
PARAM:
OUTPUT:out
Output
Output image
VipsImage
PARAM:
bogus
Bogus
whatever upstream reports
int:0:1:0
OPTIONAL:
`
	ops, err := Parse(dump)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, []string{"in", "a", "b", "c", "d"}, names(ops[0].Required))
	for _, p := range ops[0].Required[1:] {
		assert.IsType(t, paramtype.Double{}, p.Type)
	}
}

func TestParsePreviousImageArray(t *testing.T) {
	_, ops := loadCatalog(t)

	bandjoin := findOperation(t, ops, "bandjoin")
	assert.Equal(t, paramtype.ArrayImage{}, bandjoin.Required[0].Type)
	assert.Equal(t, paramtype.Image{Prev: "in"}, bandjoin.Output[0].Type)

	// an image following a plain image carries no back reference
	match := findOperation(t, ops, "matches")
	assert.Equal(t, paramtype.Image{}, match.Required[1].Type)
}

func TestParseRenames(t *testing.T) {
	_, ops := loadCatalog(t)

	match := findOperation(t, ops, "matches")
	assert.Equal(t, "match", match.NativeName)
	assert.Equal(t, "Matches", match.GoName())
	assert.Equal(t, []string{"ref", "sec", "xr1"}, names(match.Required))

	dump := `OPERATION:
thing:VipsThing
a thing
REQUIRED:
PARAM:
type
Type
Kind of thing
int:0:3:0
PARAM:
len
Length
Length of thing
int:0:3:0
OPTIONAL:
`
	parsed, err := Parse(dump)
	require.NoError(t, err)
	assert.Equal(t, []string{"type_", "len_"}, names(parsed[0].Required))
	assert.Equal(t, "Type", parsed[0].Required[0].FieldName())
	assert.Equal(t, "type", parsed[0].Required[0].CName())

	rules := DefaultRules()
	rules.ReservedSuffix = "p"
	rules.OperationRenames["thing"] = "stuff"
	parsed, err = NewParser(rules).Parse(strings.NewReader(dump))
	require.NoError(t, err)
	assert.Equal(t, "stuff", parsed[0].Name)
	assert.Equal(t, []string{"typep", "lenp"}, names(parsed[0].Required))
}

func TestParseSkipsStreamingOperations(t *testing.T) {
	dump := `OPERATION:
jpegload_source:VipsForeignLoadJpegSource
load image from jpeg source
REQUIRED:
PARAM:
source
Source
Source to load from
VipsSource-input source
PARAM:
OUTPUT:out
Output
Output image
VipsImage
OPTIONAL:
PARAM:
shrink
Shrink
Shrink factor on load
int:1:16:1

OPERATION:
invert:VipsInvert
invert an image
REQUIRED:
PARAM:
in
Input
Input image
VipsImage
PARAM:
OUTPUT:out
Output
Output image
VipsImage
OPTIONAL:

OPERATION:
jpegsave_target:VipsForeignSaveJpegTarget
save image to jpeg target
REQUIRED:
PARAM:
in
Input
Image to save
VipsImage
PARAM:
target
Target
Target to save to
VipsTarget-output target
OPTIONAL:
`
	parsed, err := Parse(dump)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, "invert", parsed[0].Name)

	rules := DefaultRules()
	rules.SkipOperations = nil
	_, err = NewParser(rules).Parse(strings.NewReader(dump))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jpegload_source")
}

func TestParseEnums(t *testing.T) {
	_, ops := loadCatalog(t)

	colourspace := findOperation(t, ops, "colourspace")
	space, ok := colourspace.Required[1].Type.(paramtype.Enum)
	require.True(t, ok)
	assert.Equal(t, "VipsInterpretation", space.Name)
	assert.False(t, space.Flags)
	assert.Len(t, space.Entries, 4)
	assert.Equal(t, paramtype.Entry{Name: "VIPS_INTERPRETATION_B_W", Nick: "b-w", Value: 1}, space.Entries[1])
	assert.Equal(t, "InterpretationSrgb", space.DefaultExpr())

	save := findOperation(t, ops, "jpegsave_buffer")
	keep, ok := save.Optional[2].Type.(paramtype.Enum)
	require.True(t, ok)
	assert.True(t, keep.Flags)
	assert.Equal(t, "Keep", keep.GoType())
	assert.Equal(t, "KeepAll", keep.DefaultExpr())
}

func TestParseBlob(t *testing.T) {
	_, ops := loadCatalog(t)
	profile := findOperation(t, ops, "profile_load")
	assert.Equal(t, paramtype.Blob{}, profile.Output[0].Type)
}

func TestParseEmptyAndBlankInput(t *testing.T) {
	ops, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, ops)

	ops, err = Parse("\n\n\r\n")
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestParseErrors(t *testing.T) {
	archive, err := txtar.ParseFile("testdata/errors.txtar")
	require.NoError(t, err)

	want := map[string]struct {
		line int
		msg  string
	}{
		"missing-operation.dump":   {1, "expected OPERATION:"},
		"bad-header.dump":          {2, "malformed operation header"},
		"missing-description.dump": {2, "missing description"},
		"missing-optional.dump":    {9, "expected OPTIONAL:"},
		"unsupported-type.dump":    {9, "unsupported type descriptor"},
		"bad-int.dump":             {9, "invalid int"},
		"short-range.dump":         {9, "min:max:default"},
		"bad-bool.dump":            {9, "bool default"},
		"enum-default.dump":        {12, "matches 0 entries"},
		"extra-line.dump":          {10, "unexpected line"},
		"short-block.dump":         {6, "parameter block has 3 lines"},
		"stray-line.dump":          {5, "expected PARAM:"},
	}
	require.Len(t, archive.Files, len(want))

	for _, file := range archive.Files {
		t.Run(file.Name, func(t *testing.T) {
			expected, ok := want[file.Name]
			require.True(t, ok)

			ops, err := Parse(string(file.Data))
			require.Error(t, err)
			assert.Nil(t, ops)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, expected.line, parseErr.Line)
			assert.Contains(t, parseErr.Msg, expected.msg)
		})
	}
}

func TestParseErrorNamesOperation(t *testing.T) {
	archive, err := txtar.ParseFile("testdata/errors.txtar")
	require.NoError(t, err)
	for _, file := range archive.Files {
		if file.Name != "bad-int.dump" {
			continue
		}
		_, err := Parse(string(file.Data))
		assert.EqualError(t, err, `introspection line 9 (embed): invalid int "big" in "int:0:big:0"`)
	}
}

func TestDump(t *testing.T) {
	_, ops := loadCatalog(t)

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, ops[:3], "yaml"))

	var records []map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 3)
	assert.Equal(t, "resize", records[0]["name"])
	assert.Contains(t, buf.String(), "kind: Double")
	assert.Contains(t, buf.String(), "prev: in")

	buf.Reset()
	require.NoError(t, Dump(&buf, ops[:1], "json"))
	assert.Contains(t, buf.String(), `"native_group": "VipsResize"`)

	assert.Error(t, Dump(&buf, ops, "xml"))
}
