package introspection

import (
	"strconv"
	"strings"

	"github.com/cshum/vipsbindgen/internal/paramtype"
)

// parseType maps a type descriptor line, plus the extra lines that follow
// it, to a parameter kind
func (p *Parser) parseType(tag line, extra []line, prev string) (paramtype.Type, error) {
	text := tag.text

	if strings.HasPrefix(text, "enum-") || strings.HasPrefix(text, "flags-") {
		return p.parseEnum(tag, extra)
	}
	if len(extra) > 0 {
		return nil, p.errorf(extra[0].no, "unexpected line %q after type %q", extra[0].text, text)
	}

	kind, fields, _ := strings.Cut(text, ":")
	switch {
	case text == "string":
		return paramtype.Str{}, nil
	case text == "VipsImage":
		return paramtype.Image{Prev: prev}, nil
	case text == "VipsBlob":
		return paramtype.Blob{}, nil
	case strings.HasPrefix(text, "VipsInterpolate"):
		return paramtype.Interpolator{}, nil
	case text == "byte-data":
		return paramtype.ArrayByte{}, nil
	case text == "array of int":
		return paramtype.ArrayInt{}, nil
	case text == "array of double":
		return paramtype.ArrayDouble{}, nil
	case text == "array of images":
		return paramtype.ArrayImage{}, nil
	case kind == "bool":
		switch fields {
		case "0":
			return paramtype.Bool{Default: false}, nil
		case "1":
			return paramtype.Bool{Default: true}, nil
		}
		return nil, p.errorf(tag.no, "bool default must be 0 or 1, got %q", fields)
	case kind == "int":
		values, err := p.rangeFields(tag, fields)
		if err != nil {
			return nil, err
		}
		var nums [3]int
		for i, v := range values {
			if nums[i], err = strconv.Atoi(v); err != nil {
				return nil, p.errorf(tag.no, "invalid int %q in %q", v, text)
			}
		}
		return paramtype.Int{Min: nums[0], Max: nums[1], Default: nums[2]}, nil
	case kind == "uint64":
		values, err := p.rangeFields(tag, fields)
		if err != nil {
			return nil, err
		}
		var nums [3]uint64
		for i, v := range values {
			if nums[i], err = strconv.ParseUint(v, 10, 64); err != nil {
				return nil, p.errorf(tag.no, "invalid uint64 %q in %q", v, text)
			}
		}
		return paramtype.UInt{Min: nums[0], Max: nums[1], Default: nums[2]}, nil
	case kind == "double":
		values, err := p.rangeFields(tag, fields)
		if err != nil {
			return nil, err
		}
		var nums [3]float64
		for i, v := range values {
			if nums[i], err = strconv.ParseFloat(v, 64); err != nil {
				return nil, p.errorf(tag.no, "invalid double %q in %q", v, text)
			}
		}
		return paramtype.Double{Min: nums[0], Max: nums[1], Default: nums[2]}, nil
	}

	return nil, p.errorf(tag.no, "unsupported type descriptor %q", text)
}

// rangeFields splits min:max:default
func (p *Parser) rangeFields(tag line, fields string) ([]string, error) {
	values := strings.Split(fields, ":")
	if len(values) != 3 {
		return nil, p.errorf(tag.no, "type %q must carry min:max:default", tag.text)
	}
	return values, nil
}
