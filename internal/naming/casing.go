// Package naming converts libvips catalog identifiers into Go and C identifiers.
package naming

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts PascalCase, camelCase or kebab-case to snake_case.
// Acronyms stay together ("HTTPSConnection" -> "https_connection").
func ToSnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(s)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '-' || r == ' ' {
			result.WriteRune('_')
			continue
		}

		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			prevUpper := unicode.IsUpper(prev)
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			separated := prev == '_' || prev == '-' || prev == ' '

			if !separated && (!prevUpper || nextLower) {
				result.WriteRune('_')
			}
		}

		result.WriteRune(r)
	}

	return strings.ToLower(result.String())
}

// ToPascalCase converts snake_case or kebab-case to PascalCase
func ToPascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})

	var result strings.Builder
	for _, part := range parts {
		// Capitalize first letter, keep rest as-is
		runes := []rune(part)
		result.WriteRune(unicode.ToUpper(runes[0]))
		result.WriteString(string(runes[1:]))
	}

	return result.String()
}

// ToCamelCase converts snake_case or kebab-case to camelCase
func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	if len(pascal) == 0 {
		return pascal
	}

	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// EnumTypeName converts a libvips enum type name to a Go type name,
// e.g. VipsForeignTiffCompression -> TiffCompression
func EnumTypeName(cName string) string {
	cName = strings.TrimPrefix(cName, "Vips")
	cName = strings.TrimPrefix(cName, "Foreign")
	return cName
}

// EnumValueName builds the Go constant name for an enum entry from its nick,
// e.g. (Interpretation, b-w) -> InterpretationBW
func EnumValueName(typeName, nick string) string {
	return typeName + ToPascalCase(nick)
}
