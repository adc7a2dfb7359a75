package generator

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cshum/vipsbindgen/internal/logger"
)

// Formatter normalizes generated source text
type Formatter interface {
	Format(ctx context.Context, src []byte) ([]byte, error)
}

// Formatters maps an output file extension, e.g. ".go", to its formatter
type Formatters map[string]Formatter

// Render renders every template and runs the result through the formatter
// registered for its extension. Keys are output file names.
func Render(
	ctx context.Context,
	templateLoader TemplateLoader,
	templateData *TemplateData,
	formatters Formatters,
) (map[string][]byte, error) {
	templateFiles, err := templateLoader.ListFiles()
	if err != nil {
		return nil, err
	}
	if len(templateFiles) == 0 {
		return nil, errors.New("no templates found")
	}

	rendered := make(map[string][]byte, len(templateFiles))
	for _, templateFile := range templateFiles {
		// "ops.go.tmpl" -> "ops.go"
		name := strings.TrimSuffix(filepath.Base(templateFile), ".tmpl")

		content, err := templateLoader.Render(templateFile, templateData)
		if err != nil {
			return nil, err
		}
		if formatter, ok := formatters[filepath.Ext(name)]; ok && formatter != nil {
			content, err = formatter.Format(ctx, content)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to format %s", name)
			}
		}
		rendered[name] = content
	}
	return rendered, nil
}

// Generate renders all templates into outputDir and returns the written paths
func Generate(
	ctx context.Context,
	templateLoader TemplateLoader,
	templateData *TemplateData,
	outputDir string,
	formatters Formatters,
) ([]string, error) {
	rendered, err := Render(ctx, templateLoader, templateData, formatters)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create output directory")
	}

	var generatedFiles []string
	for _, name := range sortedKeys(rendered) {
		outputFile := filepath.Join(outputDir, name)
		if err := os.WriteFile(outputFile, rendered[name], 0644); err != nil {
			return nil, errors.Wrapf(err, "failed to write %s", outputFile)
		}
		generatedFiles = append(generatedFiles, outputFile)
	}

	logger.Logger.Infow("Generated files",
		"dir", outputDir,
		"files", len(generatedFiles),
		"operations", len(templateData.Operations),
		"skipped", len(templateData.Skipped))
	return generatedFiles, nil
}
