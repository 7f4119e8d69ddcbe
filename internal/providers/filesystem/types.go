package filesystem

import (
	"errors"
	"io/fs"
	"os"
)

// Permissions for entries created on behalf of clients.
const (
	DirPerm  fs.FileMode = 0o755
	FilePerm fs.FileMode = 0o644
)

// listBatch is how many names List pulls from the directory per read.
const listBatch = 64

var (
	ErrEmptyPath   = errors.New("empty path")
	ErrEscapesRoot = errors.New("path escapes root")
	ErrRootTarget  = errors.New("operation not permitted on root")
	ErrNotDir      = errors.New("root is not a directory")
)

// Listing is the serialized content of one directory.
type Listing struct {
	// Data holds "name\n" for every listed entry.
	Data []byte
	// Entries is the number of names in Data.
	Entries int
	// Truncated is set when entries were left out because Data was full.
	Truncated bool
}

// Upload summarizes a completed (or aborted) upload.
type Upload struct {
	Written int64
	MIME    string
}

// Describe returns the OS level description of err without the host path,
// e.g. "no such file or directory".
func Describe(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return linkErr.Err.Error()
	}
	for _, sentinel := range []error{ErrEscapesRoot, ErrRootTarget, ErrEmptyPath} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "operation failed"
}
