package filesystem

import (
	"errors"
	"io"
	"os"
)

// List serializes the entries of dir as "name\n" lines into at most capacity
// bytes. "." and ".." are never listed. Once the next name no longer fits,
// listing stops and the result is marked truncated; this is not an error.
//
// An empty directory yields an empty Listing.
func List(dir string, capacity int) (Listing, error) {
	f, err := os.Open(dir)
	if err != nil {
		return Listing{}, err
	}
	defer f.Close()

	l := Listing{Data: make([]byte, 0, capacity)}
	for {
		names, err := f.Readdirnames(listBatch)
		for _, name := range names {
			if name == "." || name == ".." {
				continue
			}
			if len(l.Data)+len(name)+1 > capacity {
				l.Truncated = true
				return l, nil
			}
			l.Data = append(l.Data, name...)
			l.Data = append(l.Data, '\n')
			l.Entries++
		}
		if errors.Is(err, io.EOF) {
			return l, nil
		}
		if err != nil {
			return Listing{}, err
		}
	}
}
