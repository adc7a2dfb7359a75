// Package config loads vipsbindgen settings. Precedence, lowest first:
// defaults, the TOML file, VIPSBINDGEN_* environment variables, command line
// flags bound to the viper instance.
package config

import (
	"io"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/cshum/vipsbindgen/internal/generator"
	"github.com/cshum/vipsbindgen/internal/introspection"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. VIPSBINDGEN_OUTPUT_DIR
const EnvPrefix = "VIPSBINDGEN"

// DefaultFileName is the config file looked up in the working directory
const DefaultFileName = "vipsbindgen.toml"

// Config is the complete generator configuration
type Config struct {
	OutputDir   string `mapstructure:"output_dir" toml:"output_dir"`
	TemplateDir string `mapstructure:"template_dir" toml:"template_dir"`

	Introspect IntrospectConfig `mapstructure:"introspect" toml:"introspect"`
	Generator  GeneratorConfig  `mapstructure:"generator" toml:"generator"`
	Rules      RulesConfig      `mapstructure:"rules" toml:"rules"`
	Format     FormatConfig     `mapstructure:"format" toml:"format"`
	PkgConfig  PkgConfigConfig  `mapstructure:"pkgconfig" toml:"pkgconfig"`
}

// IntrospectConfig selects where the catalog dump comes from
type IntrospectConfig struct {
	// Input is a dump file, or "-" for stdin. It takes precedence over Command.
	Input string `mapstructure:"input" toml:"input"`
	// Command runs the introspection executable, split with shell quoting rules
	Command string `mapstructure:"command" toml:"command"`
}

// GeneratorConfig mirrors generator.Config
type GeneratorConfig struct {
	Package       string   `mapstructure:"package" toml:"package"`
	ShimPrefix    string   `mapstructure:"shim_prefix" toml:"shim_prefix"`
	Blocklist     []string `mapstructure:"blocklist" toml:"blocklist"`
	BuiltinErrors []string `mapstructure:"builtin_errors" toml:"builtin_errors"`
	ICCDefault    string   `mapstructure:"icc_default" toml:"icc_default"`
	EnumDedup     string   `mapstructure:"enum_dedup" toml:"enum_dedup"`
}

// RulesConfig mirrors introspection.Rules
type RulesConfig struct {
	OperationRenames map[string]string            `mapstructure:"operation_renames" toml:"operation_renames"`
	ReservedNames    []string                     `mapstructure:"reserved_names" toml:"reserved_names"`
	ReservedSuffix   string                       `mapstructure:"reserved_suffix" toml:"reserved_suffix"`
	Substitutions    []introspection.Substitution `mapstructure:"substitutions" toml:"substitutions"`
	SkipOperations   []string                     `mapstructure:"skip_operations" toml:"skip_operations"`
}

// FormatConfig controls the external formatters
type FormatConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled"`
	// ClangStyle is passed to clang-format as --style
	ClangStyle string `mapstructure:"clang_style" toml:"clang_style"`
}

// PkgConfigConfig controls native library discovery
type PkgConfigConfig struct {
	Package    string `mapstructure:"package" toml:"package"`
	MinVersion string `mapstructure:"min_version" toml:"min_version"`
}

// Default returns the configuration for stock libvips
func Default() Config {
	gen := generator.DefaultConfig()
	rules := introspection.DefaultRules()

	return Config{
		OutputDir: "./vips",
		Introspect: IntrospectConfig{
			Command: "vips-introspect",
		},
		Generator: GeneratorConfig{
			Package:       gen.Package,
			ShimPrefix:    gen.ShimPrefix,
			Blocklist:     append([]string(nil), generator.DefaultBlocklist...),
			BuiltinErrors: gen.BuiltinErrors,
			ICCDefault:    gen.ICCDefault,
			EnumDedup:     string(gen.EnumDedup),
		},
		Rules: RulesConfig{
			OperationRenames: rules.OperationRenames,
			ReservedNames:    sortedNames(rules.ReservedNames),
			ReservedSuffix:   rules.ReservedSuffix,
			Substitutions:    rules.Substitutions,
			SkipOperations:   rules.SkipOperations,
		},
		Format: FormatConfig{
			Enabled:    true,
			ClangStyle: "{BasedOnStyle: LLVM, IndentWidth: 4}",
		},
		PkgConfig: PkgConfigConfig{
			Package:    "vips",
			MinVersion: ">= 8.10.0",
		},
	}
}

func sortedNames(names map[string]bool) []string {
	result := make([]string, 0, len(names))
	for name := range names {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// SetDefaults registers every key with its default, which also makes each key
// reachable through its environment variable
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("template_dir", d.TemplateDir)

	v.SetDefault("introspect.input", d.Introspect.Input)
	v.SetDefault("introspect.command", d.Introspect.Command)

	v.SetDefault("generator.package", d.Generator.Package)
	v.SetDefault("generator.shim_prefix", d.Generator.ShimPrefix)
	v.SetDefault("generator.blocklist", d.Generator.Blocklist)
	v.SetDefault("generator.builtin_errors", d.Generator.BuiltinErrors)
	v.SetDefault("generator.icc_default", d.Generator.ICCDefault)
	v.SetDefault("generator.enum_dedup", d.Generator.EnumDedup)

	v.SetDefault("rules.operation_renames", d.Rules.OperationRenames)
	v.SetDefault("rules.reserved_names", d.Rules.ReservedNames)
	v.SetDefault("rules.reserved_suffix", d.Rules.ReservedSuffix)
	v.SetDefault("rules.substitutions", d.Rules.Substitutions)
	v.SetDefault("rules.skip_operations", d.Rules.SkipOperations)

	v.SetDefault("format.enabled", d.Format.Enabled)
	v.SetDefault("format.clang_style", d.Format.ClangStyle)

	v.SetDefault("pkgconfig.package", d.PkgConfig.Package)
	v.SetDefault("pkgconfig.min_version", d.PkgConfig.MinVersion)
}

// NewViper returns a viper instance with defaults and environment binding
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads the config file into v and unmarshals the result. With an empty
// path, DefaultFileName is used when present in the working directory.
func Load(v *viper.Viper, path string) (*Config, error) {
	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	} else {
		v.SetConfigName(strings.TrimSuffix(DefaultFileName, ".toml"))
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "failed to read config file")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the generator cannot honor
func (c *Config) Validate() error {
	switch generator.DedupMode(c.Generator.EnumDedup) {
	case generator.DedupText, generator.DedupIdentity:
	default:
		return errors.WithHint(
			errors.Newf("unknown enum_dedup mode %q", c.Generator.EnumDedup),
			`use "text" or "identity"`)
	}
	if c.Generator.Package == "" {
		return errors.New("generator.package must not be empty")
	}
	if c.Generator.ShimPrefix == "" {
		return errors.New("generator.shim_prefix must not be empty")
	}
	for _, s := range c.Rules.Substitutions {
		if s.Group == "" || len(s.Params) == 0 {
			return errors.Newf("substitution %+v needs a group and params", s)
		}
	}
	return nil
}

// GeneratorConfig converts the settings for the code emitter
func (c *Config) GeneratorConfig() generator.Config {
	blocklist := make(map[string]bool, len(c.Generator.Blocklist))
	for _, name := range c.Generator.Blocklist {
		blocklist[name] = true
	}
	return generator.Config{
		Package:       c.Generator.Package,
		ShimPrefix:    c.Generator.ShimPrefix,
		Blocklist:     blocklist,
		BuiltinErrors: c.Generator.BuiltinErrors,
		ICCDefault:    c.Generator.ICCDefault,
		EnumDedup:     generator.DedupMode(c.Generator.EnumDedup),
	}
}

// ParserRules converts the settings for the catalog parser
func (c *Config) ParserRules() introspection.Rules {
	reserved := make(map[string]bool, len(c.Rules.ReservedNames))
	for _, name := range c.Rules.ReservedNames {
		reserved[name] = true
	}
	renames := make(map[string]string, len(c.Rules.OperationRenames))
	for from, to := range c.Rules.OperationRenames {
		renames[from] = to
	}
	return introspection.Rules{
		OperationRenames: renames,
		ReservedNames:    reserved,
		ReservedSuffix:   c.Rules.ReservedSuffix,
		Substitutions:    c.Rules.Substitutions,
		SkipOperations:   c.Rules.SkipOperations,
	}
}

// WriteTOML writes c as a TOML document
func WriteTOML(w io.Writer, c Config) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	return nil
}
