// Package listing parses the textual output of a long-format directory
// listing (`ls -lpa` style) into a structured inventory of files and
// folders. It is the core of lsinv: pure, synchronous and free of I/O, so
// it can run against text captured over SSH, a container exec, or any
// other shell that only hands back bytes.
//
// Parsing is fail-fast: a single malformed line aborts the whole parse
// with a *ParseError naming the failure and the offending line. Callers
// are expected to re-run the upstream listing command rather than consume
// a partially trusted result.
package listing

import (
	"sort"
	"strings"
)

// FileEntry is one regular file from a listing.
type FileEntry struct {
	Name      string
	SizeBytes int64
}

// Listing is the parsed result: files and folders, each independently
// sorted ascending by name. Duplicate names are kept, not merged. The "."
// and ".." directory references never appear, and neither do symbolic
// links or block/character devices. A Listing is immutable once returned.
type Listing struct {
	Files   []FileEntry
	Folders []string
}

// Parse converts the full captured output of `ls -lpa` into a Listing.
//
// A single leading continuation marker (backslash followed by a newline,
// either line-ending convention) is stripped once; some capture shells
// echo one before the real output. Every line is trimmed and classified:
// blank lines and "total N" headers are skipped, everything else must be a
// well-formed listing line. The first malformed line fails the whole parse
// with a *ParseError carrying the trimmed line text.
func Parse(input string) (*Listing, error) {
	if rest, ok := strings.CutPrefix(input, "\\\r\n"); ok {
		input = rest
	} else if rest, ok := strings.CutPrefix(input, "\\\n"); ok {
		input = rest
	}

	var files []FileEntry
	var folders []string

	for _, raw := range strings.Split(input, "\n") {
		line := strings.TrimSpace(raw)

		entry, err := classifyLine(line)
		if err != nil {
			err.Line = line
			return nil, err
		}
		if entry == nil {
			continue
		}

		if entry.folder {
			folders = append(folders, entry.name)
		} else {
			files = append(files, FileEntry{Name: entry.name, SizeBytes: entry.size})
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	sort.Strings(folders)

	return &Listing{Files: files, Folders: folders}, nil
}
