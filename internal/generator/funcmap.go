package generator

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"
)

// bytesPerRow matches the row width used for hex literals.
const bytesPerRow = 12

// stringLiteral renders b as a quoted Go string. Invalid UTF-8 is escaped
// byte by byte, so the literal decodes to exactly b.
func stringLiteral(b []byte) string {
	return strconv.Quote(string(b))
}

// bytesLiteral renders b as a string conversion of a hex byte slice, one
// row of bytesPerRow bytes per line.
func bytesLiteral(b []byte) string {
	if len(b) == 0 {
		return `""`
	}
	var sb strings.Builder
	sb.WriteString("string([]byte{")
	for i, c := range b {
		if i%bytesPerRow == 0 {
			sb.WriteString("\n")
		} else {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "0x%02x,", c)
	}
	sb.WriteString("\n})")
	return sb.String()
}

// literal renders content using the named encoding.
func literal(content []byte, encoding string) (string, error) {
	switch encoding {
	case "", "string":
		return stringLiteral(content), nil
	case "bytes":
		return bytesLiteral(content), nil
	default:
		return "", fmt.Errorf("unknown encoding %q", encoding)
	}
}

// GetCommonFuncMap returns the template functions available to every
// generator template.
func GetCommonFuncMap() template.FuncMap {
	return template.FuncMap{
		"literal": literal,
		"quote":   strconv.Quote,
	}
}
