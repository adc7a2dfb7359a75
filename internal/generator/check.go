package generator

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
)

// Drift is a generated file whose checked-in content differs from a fresh
// rendering
type Drift struct {
	File string
	Diff string
}

// Check renders all templates and compares them with the files in dir. A
// missing file is reported as drift.
func Check(
	ctx context.Context,
	templateLoader TemplateLoader,
	templateData *TemplateData,
	dir string,
	formatters Formatters,
) ([]Drift, error) {
	rendered, err := Render(ctx, templateLoader, templateData, formatters)
	if err != nil {
		return nil, err
	}

	var drifts []Drift
	for _, name := range sortedKeys(rendered) {
		path := filepath.Join(dir, name)
		existing, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			drifts = append(drifts, Drift{File: path, Diff: "missing"})
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}
		if diff := cmp.Diff(string(existing), string(rendered[name])); diff != "" {
			drifts = append(drifts, Drift{File: path, Diff: diff})
		}
	}
	return drifts, nil
}
