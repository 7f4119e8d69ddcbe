package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/multierr"
)

// Delete removes target. Files, symlinks and other non-directories are
// removed directly; directories are removed together with everything below
// them.
func Delete(target string) error {
	fi, err := os.Lstat(target)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return os.Remove(target)
	}
	return removeTree(target)
}

// removeTree deletes a directory tree best-effort. The tree is enumerated
// first, every entry under its own path and without following symlinks.
// Non-directories go first, then directories deepest first, then root.
// A failure on one entry does not stop the others; all failures are
// returned together.
func removeTree(root string) error {
	var (
		mu    sync.Mutex
		files []string
		dirs  []string
		errs  error
	)

	conf := fastwalk.Config{Follow: false}
	walkErr := fastwalk.Walk(&conf, root, func(p string, d fs.DirEntry, err error) error {
		mu.Lock()
		defer mu.Unlock()

		if err != nil {
			errs = multierr.Append(errs, err)
			return nil
		}
		if p == root {
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, p)
		} else {
			files = append(files, p)
		}
		return nil
	})
	errs = multierr.Append(errs, walkErr)

	for _, p := range files {
		errs = multierr.Append(errs, os.Remove(p))
	}

	sort.Slice(dirs, func(i, j int) bool {
		return depth(dirs[i]) > depth(dirs[j])
	})
	for _, p := range dirs {
		errs = multierr.Append(errs, os.Remove(p))
	}

	return multierr.Append(errs, os.Remove(root))
}

func depth(p string) int {
	return strings.Count(filepath.Clean(p), string(filepath.Separator))
}
