package introspection

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cshum/vipsbindgen/internal/paramtype"
	"gopkg.in/yaml.v3"
)

type parameterRecord struct {
	Order       uint8    `json:"order" yaml:"order"`
	Name        string   `json:"name" yaml:"name"`
	NativeName  string   `json:"native_name" yaml:"native_name"`
	Nick        string   `json:"nick" yaml:"nick"`
	Description string   `json:"description" yaml:"description"`
	Kind        string   `json:"kind" yaml:"kind"`
	GoType      string   `json:"go_type" yaml:"go_type"`
	Default     string   `json:"default" yaml:"default"`
	Prev        string   `json:"prev,omitempty" yaml:"prev,omitempty"`
	Doc         []string `json:"doc,omitempty" yaml:"doc,omitempty"`
}

type operationRecord struct {
	Name           string            `json:"name" yaml:"name"`
	NativeName     string            `json:"native_name" yaml:"native_name"`
	NativeGroup    string            `json:"native_group" yaml:"native_group"`
	Description    string            `json:"description" yaml:"description"`
	Required       []parameterRecord `json:"required" yaml:"required"`
	Optional       []parameterRecord `json:"optional,omitempty" yaml:"optional,omitempty"`
	Output         []parameterRecord `json:"output,omitempty" yaml:"output,omitempty"`
	OptionalOutput []parameterRecord `json:"optional_output,omitempty" yaml:"optional_output,omitempty"`
}

func parameterRecords(params []Parameter) []parameterRecord {
	records := make([]parameterRecord, 0, len(params))
	for _, p := range params {
		record := parameterRecord{
			Order:       p.Order,
			Name:        p.Name,
			NativeName:  p.NativeName,
			Nick:        p.Nick,
			Description: p.Description,
			Kind:        strings.TrimPrefix(fmt.Sprintf("%T", p.Type), "paramtype."),
			GoType:      p.Type.GoType(),
			Default:     p.Type.DefaultExpr(),
			Doc:         p.Type.Doc(),
		}
		if img, ok := p.Type.(paramtype.Image); ok {
			record.Prev = img.Prev
		}
		records = append(records, record)
	}
	return records
}

// Dump writes the parsed operations as "yaml" or "json" for inspection
func Dump(w io.Writer, operations []Operation, format string) error {
	records := make([]operationRecord, 0, len(operations))
	for _, op := range operations {
		records = append(records, operationRecord{
			Name:           op.Name,
			NativeName:     op.NativeName,
			NativeGroup:    op.NativeGroup,
			Description:    op.Description,
			Required:       parameterRecords(op.Required),
			Optional:       parameterRecords(op.Optional),
			Output:         parameterRecords(op.Output),
			OptionalOutput: parameterRecords(op.OptionalOutput),
		})
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(records), "failed to encode operations as json")
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return errors.Wrap(err, "failed to encode operations as yaml")
		}
		return errors.Wrap(enc.Close(), "failed to flush yaml")
	}
	return errors.Newf("unknown dump format %q", format)
}
