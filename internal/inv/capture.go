package inv

import "io"

// CaptureStore holds raw listing text blobs keyed by name. Captures are
// taken on hosts where only a shell is available and parsed later, so the
// store deals in opaque bytes. All operations stream through
// io.Reader/io.Writer to avoid loading large captures into memory.
type CaptureStore interface {
	// Put stores a capture under the given key, overwriting any previous
	// capture with the same key. size is the number of bytes that will be
	// read from r.
	Put(key string, r io.Reader, size int64) error

	// Get retrieves a capture by key and writes it to w.
	Get(key string, w io.Writer) error

	// List returns the keys of stored captures with the given prefix,
	// sorted ascending. An empty prefix lists everything.
	List(prefix string) ([]string, error)

	// ValidateSetup verifies that the store is accessible and properly
	// configured.
	ValidateSetup() error
}
