package listing

import "fmt"

// Kind identifies the specific way a listing line failed to parse.
type Kind int

const (
	// KindMissingFileMode means the file mode column was absent.
	KindMissingFileMode Kind = iota
	// KindMissingLinkCount means the link count column was absent.
	KindMissingLinkCount
	// KindMissingOwner means the owner column was absent.
	KindMissingOwner
	// KindMissingGroup means the group column was absent.
	KindMissingGroup
	// KindMissingSize means the size column was absent.
	KindMissingSize
	// KindInvalidSize means the size column was present but not a base-10
	// 64-bit integer. ParseError.Token carries the offending token.
	KindInvalidSize
	// KindMissingMonth means the timestamp month column was absent.
	KindMissingMonth
	// KindMissingDay means the timestamp day column was absent.
	KindMissingDay
	// KindMissingTimestamp means the time-or-year column was absent.
	KindMissingTimestamp
	// KindMissingName means no name remained after the fixed columns.
	KindMissingName
	// KindEmptyQuotedName means a quoted name was empty after unwrapping.
	KindEmptyQuotedName
	// KindInvalidEscapeSequence means a double-quoted name ended in an
	// unterminated backslash escape.
	KindInvalidEscapeSequence
)

// String returns the human-readable description of the failure kind.
// For KindInvalidSize the description does not include the offending
// token; see ParseError.Error for the full rendering.
func (k Kind) String() string {
	switch k {
	case KindMissingFileMode:
		return "missing file mode field"
	case KindMissingLinkCount:
		return "missing link count field"
	case KindMissingOwner:
		return "missing owner field"
	case KindMissingGroup:
		return "missing group field"
	case KindMissingSize:
		return "missing size field"
	case KindInvalidSize:
		return "invalid size value"
	case KindMissingMonth:
		return "missing timestamp month field"
	case KindMissingDay:
		return "missing timestamp day field"
	case KindMissingTimestamp:
		return "missing timestamp time or year field"
	case KindMissingName:
		return "missing file name"
	case KindEmptyQuotedName:
		return "empty quoted file name"
	case KindInvalidEscapeSequence:
		return "unterminated escape sequence in file name"
	default:
		return fmt.Sprintf("unknown parse failure (%d)", int(k))
	}
}

// ParseError reports the first malformed line encountered during a parse.
// Line holds the offending line after whitespace trimming, exactly as it
// was handed to the classifier.
type ParseError struct {
	Kind  Kind
	Token string // offending size token, set only for KindInvalidSize
	Line  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s in line `%s`", e.describe(), e.Line)
}

func (e *ParseError) describe() string {
	if e.Kind == KindInvalidSize {
		return fmt.Sprintf("invalid size value `%s`", e.Token)
	}
	return e.Kind.String()
}
