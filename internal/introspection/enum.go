package introspection

import (
	"strconv"
	"strings"

	"github.com/cshum/vipsbindgen/internal/paramtype"
)

// parseEnum parses enum-<Name> or flags-<Name> followed by value:nick:name
// entry lines and a trailing default value line
func (p *Parser) parseEnum(tag line, extra []line) (paramtype.Type, error) {
	kind, name, _ := strings.Cut(tag.text, "-")
	if name == "" {
		return nil, p.errorf(tag.no, "missing enum name in %q", tag.text)
	}
	if len(extra) == 0 {
		return nil, p.errorf(tag.no, "enum %s has no default value line", name)
	}

	entries := make([]paramtype.Entry, 0, len(extra)-1)
	for _, l := range extra[:len(extra)-1] {
		fields := strings.SplitN(l.text, ":", 3)
		if len(fields) != 3 {
			return nil, p.errorf(l.no, "enum entry %q must be value:nick:name", l.text)
		}
		value, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, p.errorf(l.no, "invalid enum value %q", fields[0])
		}
		entries = append(entries, paramtype.Entry{
			Name:  fields[2],
			Nick:  fields[1],
			Value: value,
		})
	}

	last := extra[len(extra)-1]
	def, err := strconv.Atoi(last.text)
	if err != nil {
		return nil, p.errorf(last.no, "invalid enum default %q", last.text)
	}

	enum := paramtype.Enum{
		Name:    name,
		Entries: entries,
		Default: def,
		Flags:   kind == "flags",
	}
	if _, err := enum.DefaultEntry(); err != nil {
		return nil, p.errorf(last.no, "%s", err.Error())
	}
	return enum, nil
}
