package paramtype

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cshum/vipsbindgen/internal/naming"
)

// Entry is one value of a libvips enum or flags type
type Entry struct {
	Name  string // C name, e.g. VIPS_INTERPRETATION_sRGB
	Nick  string // short name, e.g. srgb
	Value int
}

// Enum is a GEnum or GFlags argument
type Enum struct {
	Name    string // C type name, e.g. VipsInterpretation
	Entries []Entry
	Default int
	Flags   bool
	// GoName overrides the derived Go type name when that name is taken
	GoName string
}

// GoType returns the generated Go type name
func (e Enum) GoType() string {
	if e.GoName != "" {
		return e.GoName
	}
	return naming.EnumTypeName(e.Name)
}

func (Enum) CType(role Role) string { return scalar("int", role) }
func (Enum) CgoType(Role) string    { return "C.int" }

// ValueName returns the Go constant name for an entry
func (e Enum) ValueName(entry Entry) string {
	return naming.EnumValueName(e.GoType(), entry.Nick)
}

// DefaultEntry returns the single entry whose value is the default
func (e Enum) DefaultEntry() (Entry, error) {
	var found []Entry
	for _, entry := range e.Entries {
		if entry.Value == e.Default {
			found = append(found, entry)
		}
	}
	if len(found) != 1 {
		return Entry{}, errors.Newf("enum %s: default %d matches %d entries, want exactly one",
			e.Name, e.Default, len(found))
	}
	return found[0], nil
}

// DefaultExpr returns the constant of the default entry. Values built by the
// catalog parser always resolve.
func (e Enum) DefaultExpr() string {
	entry, err := e.DefaultEntry()
	if err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "unresolved enum default"))
	}
	return e.ValueName(entry)
}

// Doc lists every entry, marking the default
func (e Enum) Doc() []string {
	lines := make([]string, 0, len(e.Entries))
	for _, entry := range e.Entries {
		line := fmt.Sprintf("%s -> %s = %d", e.ValueName(entry), entry.Name, entry.Value)
		if entry.Value == e.Default {
			line += " [DEFAULT]"
		}
		lines = append(lines, line)
	}
	return lines
}
