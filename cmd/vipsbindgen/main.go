package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/cockroachdb/errors"
	"github.com/cshum/vipsbindgen/internal/config"
	"github.com/cshum/vipsbindgen/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app is the state shared by all commands
type app struct {
	v          *viper.Viper
	cfg        *config.Config
	configFile string
	verbosity  int
	jsonLogs   bool
	stdin      io.Reader
}

func newRootCmd(stdin io.Reader) *cobra.Command {
	a := &app{v: config.NewViper(), stdin: stdin}

	rootCmd := &cobra.Command{
		Use:   "vipsbindgen",
		Short: "Generate Go bindings for libvips from its operation catalog",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Initialize(a.verbosity, a.jsonLogs); err != nil {
				return err
			}
			cfg, err := config.Load(a.v, a.configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&a.verbosity, "verbose", "v", "increase verbosity (-v info, -vv debug)")
	flags.BoolVar(&a.jsonLogs, "json", false, "log as JSON")
	flags.StringVar(&a.configFile, "config", "", "config file (default ./"+config.DefaultFileName+" when present)")
	flags.StringP("input", "i", "", `introspection dump file, "-" for stdin (default: run introspect.command)`)
	flags.String("introspect", "", "introspection command line (default: introspect.command)")
	flags.StringP("out", "o", "", "output directory of the generated files")
	flags.String("templates", "", "template directory (default: embedded templates)")
	flags.String("package", "", "package name of the generated files")
	flags.Bool("format", true, "run gofmt and clang-format over the output")
	a.bind(rootCmd, map[string]string{
		"input":      "introspect.input",
		"introspect": "introspect.command",
		"out":        "output_dir",
		"templates":  "template_dir",
		"package":    "generator.package",
		"format":     "format.enabled",
	})

	rootCmd.AddCommand(
		a.newGenerateCmd(),
		a.newCheckCmd(),
		a.newParseCmd(),
		a.newListCmd(),
		a.newFlagsCmd(),
		a.newTemplatesCmd(),
		a.newConfigCmd(),
	)
	return rootCmd
}

// bind maps flags to config keys so flags take precedence over file and env
func (a *app) bind(cmd *cobra.Command, keys map[string]string) {
	for flag, key := range keys {
		f := cmd.PersistentFlags().Lookup(flag)
		if err := a.v.BindPFlag(key, f); err != nil {
			panic(errors.NewAssertionErrorWithWrappedErrf(err, "bind flag %s", flag))
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdin).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		if details := errors.FlattenDetails(err); details != "" {
			fmt.Fprintln(os.Stderr, details)
		}
		stop()
		os.Exit(1)
	}
}
