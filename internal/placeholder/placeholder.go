// Package placeholder implements strict, single-pass substitution of {name}
// tokens in serialized configuration text. An unresolved placeholder is an
// error, never a silent pass-through, and substituted values are not
// re-expanded even if they themselves contain braces.
package placeholder

import (
	"fmt"
	"strings"
)

// MissingKeyError is returned when a template references a placeholder for
// which no value was supplied.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("no value supplied for placeholder %q", e.Key)
}

// SyntaxError is returned for malformed templates, e.g. an unterminated
// opening brace.
type SyntaxError struct {
	Offset int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid placeholder syntax at offset %d: %s", e.Offset, e.Reason)
}

// Apply substitutes every {name} token in template with the corresponding
// value from vars. Doubled braces ("{{" and "}}") escape to literal braces.
//
// Substitution is a single pass: a value containing further {name} tokens is
// inserted verbatim. Referencing a name absent from vars returns a
// *MissingKeyError.
func Apply(template string, vars map[string]string) (string, error) {
	var out strings.Builder
	out.Grow(len(template))

	for i := 0; i < len(template); {
		c := template[i]
		switch c {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				out.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return "", &SyntaxError{Offset: i, Reason: "unterminated '{'"}
			}
			name := template[i+1 : i+1+end]
			value, ok := vars[name]
			if !ok {
				return "", &MissingKeyError{Key: name}
			}
			out.WriteString(value)
			i += end + 2
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				out.WriteByte('}')
				i += 2
				continue
			}
			return "", &SyntaxError{Offset: i, Reason: "single '}' outside placeholder"}
		default:
			out.WriteByte(c)
			i++
		}
	}

	return out.String(), nil
}
