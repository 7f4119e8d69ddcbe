package filesystem

import (
	"errors"
	"io"
	"os"

	"github.com/gabriel-vasile/mimetype"
)

// Create makes target as a directory when dir is set, otherwise as an empty
// regular file. An existing regular file is left untouched (touch semantics);
// an existing directory is an error in both modes, as is an existing file in
// directory mode.
func Create(target string, dir bool) error {
	if dir {
		return os.Mkdir(target, DirPerm)
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY, FilePerm)
	if err != nil {
		return err
	}
	return f.Close()
}

// Stream truncates target and fills it with everything read from r until
// EOF, using buf as the transfer buffer. On a read or write error the
// partially written file stays behind.
func Stream(target string, r io.Reader, buf []byte) (Upload, error) {
	var up Upload

	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, FilePerm)
	if err != nil {
		return up, err
	}

	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			if up.Written == 0 {
				up.MIME = mimetype.Detect(buf[:n]).String()
			}
			if _, werr := f.Write(buf[:n]); werr != nil {
				f.Close()
				return up, werr
			}
			up.Written += int64(n)
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			f.Close()
			return up, rerr
		}
	}

	return up, f.Close()
}
