package generator

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"
	"github.com/cshum/vipsbindgen/internal/logger"
)

// TemplateLoader is an interface for loading and rendering artifact templates
type TemplateLoader interface {
	// LoadTemplate loads a template by name
	LoadTemplate(name string) (*template.Template, error)

	// ListFiles returns a list of all template files
	ListFiles() ([]string, error)

	// Render executes a template against data
	Render(templateName string, data interface{}) ([]byte, error)
}

// FSTemplateLoader loads templates from any fs.FS implementation
type FSTemplateLoader struct {
	fs      fs.FS
	funcMap template.FuncMap
}

// NewFSTemplateLoader creates a new template loader from any fs.FS implementation
func NewFSTemplateLoader(filesystem fs.FS, funcMap template.FuncMap) TemplateLoader {
	return &FSTemplateLoader{
		fs:      filesystem,
		funcMap: funcMap,
	}
}

// NewOSTemplateLoader creates a template loader from the OS filesystem
func NewOSTemplateLoader(rootDir string, funcMap template.FuncMap) (TemplateLoader, error) {
	if _, err := os.Stat(rootDir); os.IsNotExist(err) {
		return nil, errors.WithHint(
			errors.Newf("template directory does not exist: %s", rootDir),
			"extract the embedded templates with `vipsbindgen templates extract`")
	}
	return &FSTemplateLoader{
		fs:      os.DirFS(rootDir),
		funcMap: funcMap,
	}, nil
}

// LoadTemplate loads a template from the filesystem
func (t *FSTemplateLoader) LoadTemplate(templatePath string) (*template.Template, error) {
	content, err := fs.ReadFile(t.fs, templatePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read template %s", templatePath)
	}

	tmpl, err := template.New(templatePath).Funcs(t.funcMap).Parse(string(content))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse template %s", templatePath)
	}
	return tmpl, nil
}

// ListFiles returns the .tmpl files at the root of the filesystem, sorted
func (t *FSTemplateLoader) ListFiles() ([]string, error) {
	entries, err := fs.ReadDir(t.fs, ".")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list template files")
	}

	var templateFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".tmpl") {
			templateFiles = append(templateFiles, entry.Name())
		}
	}
	sort.Strings(templateFiles)
	return templateFiles, nil
}

// Render executes a template against data
func (t *FSTemplateLoader) Render(templateName string, data interface{}) ([]byte, error) {
	tmpl, err := t.LoadTemplate(templateName)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, errors.Wrapf(err, "failed to execute template %s", templateName)
	}
	return buf.Bytes(), nil
}

// ExtractEmbeddedFS extracts an embedded filesystem to a directory
func ExtractEmbeddedFS(filesystem fs.FS, destDir string) ([]string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create destination directory")
	}

	var extracted []string
	err := fs.WalkDir(filesystem, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == "." {
			return nil
		}

		if d.IsDir() {
			dirPath := filepath.Join(destDir, path)
			if err := os.MkdirAll(dirPath, 0755); err != nil {
				return errors.Wrapf(err, "failed to create directory %s", dirPath)
			}
			return nil
		}
		if !strings.HasSuffix(path, ".tmpl") {
			return nil
		}

		content, err := fs.ReadFile(filesystem, path)
		if err != nil {
			return errors.Wrapf(err, "failed to read file %s", path)
		}
		outPath := filepath.Join(destDir, path)
		if err := os.WriteFile(outPath, content, 0644); err != nil {
			return errors.Wrapf(err, "failed to write file %s", outPath)
		}

		logger.Logger.Infow("Extracted template", "path", outPath)
		extracted = append(extracted, outPath)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to extract filesystem")
	}
	return extracted, nil
}
