package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/cshum/vipsbindgen/internal/generator"
	"github.com/cshum/vipsbindgen/internal/introspection"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, Default(), *cfg)
	assert.Equal(t, generator.DefaultConfig(), cfg.GeneratorConfig())
	assert.Equal(t, introspection.DefaultRules(), cfg.ParserRules())
}

func TestFileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
output_dir = "./out"

[generator]
package = "libvips"
blocklist = ["crop", "VipsLinear"]
enum_dedup = "identity"

[rules.operation_renames]
match = "matched"

[[rules.substitutions]]
group = "VipsAffine"
position = 2
params = ["a", "b", "c", "d"]
description = "coefficient"
`)
	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, "./out", cfg.OutputDir)
	assert.Equal(t, "libvips", cfg.Generator.Package)
	assert.Equal(t, "vipsgen", cfg.Generator.ShimPrefix)

	gen := cfg.GeneratorConfig()
	assert.Equal(t, map[string]bool{"crop": true, "VipsLinear": true}, gen.Blocklist)
	assert.Equal(t, generator.DedupIdentity, gen.EnumDedup)

	rules := cfg.ParserRules()
	assert.Equal(t, map[string]string{"match": "matched"}, rules.OperationRenames)
	require.Len(t, rules.Substitutions, 1)
	assert.Equal(t, uint8(2), rules.Substitutions[0].Position)
	assert.Equal(t, []string{"a", "b", "c", "d"}, rules.Substitutions[0].Params)
	assert.True(t, rules.ReservedNames["type"])
	assert.Equal(t, []string{"_source", "_target", "_mime"}, rules.SkipOperations)
}

func TestEnvAndFlagPrecedence(t *testing.T) {
	path := writeFile(t, "output_dir = \"./from-file\"\n[generator]\nicc_default = \"cmyk\"\n")
	t.Setenv("VIPSBINDGEN_OUTPUT_DIR", "./from-env")
	t.Setenv("VIPSBINDGEN_GENERATOR_SHIM_PREFIX", "shim")

	v := NewViper()
	cfg, err := Load(v, path)
	require.NoError(t, err)
	assert.Equal(t, "./from-env", cfg.OutputDir)
	assert.Equal(t, "shim", cfg.Generator.ShimPrefix)
	assert.Equal(t, "cmyk", cfg.Generator.ICCDefault)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("out", "", "")
	require.NoError(t, flags.Parse([]string{"--out", "./from-flag"}))
	v = NewViper()
	require.NoError(t, v.BindPFlag("output_dir", flags.Lookup("out")))
	cfg, err = Load(v, path)
	require.NoError(t, err)
	assert.Equal(t, "./from-flag", cfg.OutputDir)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)

	_, err = Load(NewViper(), writeFile(t, "output_dir = [unclosed\n"))
	assert.Error(t, err)

	_, err = Load(NewViper(), writeFile(t, "[generator]\nenum_dedup = \"semantic\"\n"))
	assert.ErrorContains(t, err, `unknown enum_dedup mode "semantic"`)

	_, err = Load(NewViper(), writeFile(t, "[generator]\npackage = \"\"\n"))
	assert.Error(t, err)
}

func TestWriteTOMLLoadsBack(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTOML(&buf, Default()))
	assert.Contains(t, buf.String(), "[generator]")
	assert.Contains(t, buf.String(), "[[rules.substitutions]]")

	cfg, err := Load(NewViper(), writeFile(t, buf.String()))
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}
