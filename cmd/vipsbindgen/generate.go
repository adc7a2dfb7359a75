package main

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cshum/vipsbindgen/internal/format"
	"github.com/cshum/vipsbindgen/internal/generator"
	"github.com/cshum/vipsbindgen/internal/templates"
	"github.com/spf13/cobra"
)

func (a *app) templateLoader() (generator.TemplateLoader, error) {
	funcMap := generator.GetTemplateFuncMap()
	if a.cfg.TemplateDir != "" {
		return generator.NewOSTemplateLoader(a.cfg.TemplateDir, funcMap)
	}
	return generator.NewFSTemplateLoader(templates.Templates, funcMap), nil
}

func (a *app) formatters() generator.Formatters {
	if !a.cfg.Format.Enabled {
		return nil
	}
	clang := format.ClangFormat(a.cfg.Format.ClangStyle)
	return generator.Formatters{
		".go": format.Gofmt(),
		".c":  clang,
		".h":  clang,
	}
}

// prepare parses the catalog and emits the template data
func (a *app) prepare(ctx context.Context) (generator.TemplateLoader, *generator.TemplateData, error) {
	loader, err := a.templateLoader()
	if err != nil {
		return nil, nil, err
	}
	ops, err := a.loadOperations(ctx)
	if err != nil {
		return nil, nil, err
	}
	return loader, generator.Emit(ops, a.cfg.GeneratorConfig()), nil
}

func (a *app) newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate wrappers, error taxonomy and C shims",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, data, err := a.prepare(cmd.Context())
			if err != nil {
				return err
			}
			files, err := generator.Generate(cmd.Context(), loader, data, a.cfg.OutputDir, a.formatters())
			if err != nil {
				return err
			}
			for _, file := range files {
				fmt.Fprintln(cmd.OutOrStdout(), file)
			}
			return nil
		},
	}
}

func (a *app) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the generated files are up to date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, data, err := a.prepare(cmd.Context())
			if err != nil {
				return err
			}
			drifts, err := generator.Check(cmd.Context(), loader, data, a.cfg.OutputDir, a.formatters())
			if err != nil {
				return err
			}
			for _, drift := range drifts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:\n%s\n", drift.File, drift.Diff)
			}
			if len(drifts) > 0 {
				return errors.WithHint(
					errors.Newf("%d generated files are out of date", len(drifts)),
					"run `vipsbindgen generate`")
			}
			return nil
		},
	}
}
