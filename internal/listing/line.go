package listing

import (
	"strconv"
	"strings"
)

// The long listing format carries a fixed 8-column prefix before the name:
//
//	<mode> <links> <owner> <group> <size> <month> <day> <time-or-year> <name...>
//
// columns walks that prefix in order so the layout assumption lives in one
// place. Any layout change (supporting other ls variants) only touches this.
type columns struct {
	fields []string
	pos    int
}

func splitColumns(line string) *columns {
	return &columns{fields: strings.Fields(line)}
}

// next consumes one column, failing with the given kind if it is absent.
func (c *columns) next(missing Kind) (string, *ParseError) {
	if c.pos >= len(c.fields) {
		return "", &ParseError{Kind: missing}
	}
	field := c.fields[c.pos]
	c.pos++
	return field, nil
}

// rest rejoins every remaining column with single spaces, reconstructing a
// name that may itself have contained internal whitespace.
func (c *columns) rest() string {
	return strings.Join(c.fields[c.pos:], " ")
}

// lineEntry is one classified listing line. A nil *lineEntry from
// classifyLine means the line was recognized but carries no entry.
type lineEntry struct {
	name   string
	size   int64
	folder bool
}

// classifyLine tokenizes one trimmed line and classifies it as a file, a
// folder, or a line to skip (nil, nil). Blank lines and "total N" headers
// are administrative output, not entries. Symbolic links and block/char
// devices are skipped: their size column does not carry byte-size
// semantics under this model.
func classifyLine(line string) (*lineEntry, *ParseError) {
	if line == "" || strings.HasPrefix(line, "total ") {
		return nil, nil
	}

	cols := splitColumns(line)

	mode, err := cols.next(KindMissingFileMode)
	if err != nil {
		return nil, err
	}
	if len(mode) == 10 {
		switch mode[0] {
		case 'l', 'b', 'c':
			return nil, nil
		}
	}

	// Link count, owner and group must be present but are not retained.
	if _, err := cols.next(KindMissingLinkCount); err != nil {
		return nil, err
	}
	if _, err := cols.next(KindMissingOwner); err != nil {
		return nil, err
	}
	if _, err := cols.next(KindMissingGroup); err != nil {
		return nil, err
	}

	sizeToken, err := cols.next(KindMissingSize)
	if err != nil {
		return nil, err
	}
	size, perr := strconv.ParseInt(sizeToken, 10, 64)
	if perr != nil {
		return nil, &ParseError{Kind: KindInvalidSize, Token: sizeToken}
	}

	// Month, day and time-or-year must be present but are not retained.
	if _, err := cols.next(KindMissingMonth); err != nil {
		return nil, err
	}
	if _, err := cols.next(KindMissingDay); err != nil {
		return nil, err
	}
	if _, err := cols.next(KindMissingTimestamp); err != nil {
		return nil, err
	}

	rawName := cols.rest()
	if rawName == "" {
		return nil, &ParseError{Kind: KindMissingName}
	}

	// With -p directories carry a trailing slash. Strip every trailing
	// slash before quote handling.
	folder := strings.HasSuffix(rawName, "/")
	if folder {
		rawName = strings.TrimRight(rawName, "/")
	}

	name, err := decodeName(rawName)
	if err != nil {
		return nil, err
	}

	// Self and parent references never count as entries.
	if name == "." || name == ".." {
		return nil, nil
	}

	if folder {
		if name == "" {
			return nil, nil
		}
		return &lineEntry{name: name, folder: true}, nil
	}

	return &lineEntry{name: name, size: size}, nil
}
