package listing

import "strings"

// decodeName resolves shell-style quoting on a raw name token. The shell
// that produced the listing only quotes names that need it, and picks
// single or double quotes depending on whether the name requires escaping,
// so all three shapes occur in real input: unquoted, double-quoted with
// backslash escapes, and single-quoted literal.
func decodeName(raw string) (string, *ParseError) {
	if raw == "" {
		return "", &ParseError{Kind: KindMissingName}
	}

	if len(raw) >= 2 {
		if raw[0] == '"' && raw[len(raw)-1] == '"' {
			value, err := unescapeDoubleQuoted(raw[1 : len(raw)-1])
			if err != nil {
				return "", err
			}
			if value == "" {
				return "", &ParseError{Kind: KindEmptyQuotedName}
			}
			return value, nil
		}

		if raw[0] == '\'' && raw[len(raw)-1] == '\'' {
			value := raw[1 : len(raw)-1]
			if value == "" {
				return "", &ParseError{Kind: KindEmptyQuotedName}
			}
			return value, nil
		}
	}

	return raw, nil
}

// unescapeDoubleQuoted decodes the interior of a double-quoted name.
// A backslash introduces an escape: n, r and t map to their control
// characters, anything else is taken literally. A trailing backslash with
// nothing after it is an unterminated escape.
func unescapeDoubleQuoted(s string) (string, *ParseError) {
	var b strings.Builder
	b.Grow(len(s))

	escaped := false
	for _, r := range s {
		if escaped {
			switch r {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteRune(r)
			}
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}

	if escaped {
		return "", &ParseError{Kind: KindInvalidEscapeSequence}
	}
	return b.String(), nil
}
