package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Resolver maps client supplied paths onto the exported directory tree.
//
// Client paths are always relative to the root: "/" is the root itself and
// "/a/b" is root/a/b. A Resolver holds no per-request state and is safe for
// concurrent use.
type Resolver struct {
	root    string
	contain bool
}

// NewResolver returns a Resolver for root. The root is made absolute and its
// symlinks are evaluated once, so every containment check compares canonical
// paths. With contain set to false, paths that resolve outside of root are
// accepted.
func NewResolver(root string, contain bool) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", root, err)
	}
	canon, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", root, err)
	}
	fi, err := os.Stat(canon)
	if err != nil {
		return nil, fmt.Errorf("stat root %q: %w", canon, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDir, canon)
	}
	return &Resolver{root: canon, contain: contain}, nil
}

// Root returns the canonical root directory.
func (r *Resolver) Root() string {
	return r.root
}

// Contained reports whether the containment check is enforced.
func (r *Resolver) Contained() bool {
	return r.contain
}

// Resolve canonicalizes an existing path. Symlinks are followed all the way,
// and the result must lie within the root.
func (r *Resolver) Resolve(p string) (string, error) {
	joined, err := r.join(p)
	if err != nil {
		return "", err
	}
	canon, err := filepath.EvalSymlinks(joined)
	if err != nil {
		return "", err
	}
	return r.check(canon)
}

// ResolveTarget resolves a path that is about to be created or overwritten.
// Only the parent directory has to exist; it is canonicalized and the final
// component is appended as given. If the final component is an existing
// symlink, the link is followed and its destination checked as well, since
// writing through it would land there.
func (r *Resolver) ResolveTarget(p string) (string, error) {
	target, err := r.resolveParent(p)
	if err != nil {
		return "", err
	}

	fi, err := os.Lstat(target)
	switch {
	case err == nil && fi.Mode()&fs.ModeSymlink != 0:
		canon, err := filepath.EvalSymlinks(target)
		if err != nil {
			return "", err
		}
		return r.check(canon)
	case err == nil, errors.Is(err, fs.ErrNotExist):
		return target, nil
	default:
		return "", err
	}
}

// ResolveEntry resolves an existing entry without following a symlink in the
// final component, so operating on a link affects the link itself.
func (r *Resolver) ResolveEntry(p string) (string, error) {
	target, err := r.resolveParent(p)
	if err != nil {
		return "", err
	}
	if _, err := os.Lstat(target); err != nil {
		return "", err
	}
	return target, nil
}

func (r *Resolver) resolveParent(p string) (string, error) {
	joined, err := r.join(p)
	if err != nil {
		return "", err
	}
	if joined == r.root {
		return "", ErrRootTarget
	}

	parent, err := filepath.EvalSymlinks(filepath.Dir(joined))
	if err != nil {
		return "", err
	}
	parent, err = r.check(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(parent, filepath.Base(joined)), nil
}

// join places p below the root. A path that climbs out of the root through
// ".." is rejected here, before anything outside the root is touched;
// symlinks are only caught once the caller canonicalizes.
func (r *Resolver) join(p string) (string, error) {
	if p == "" {
		return "", ErrEmptyPath
	}
	rel := strings.TrimLeft(filepath.FromSlash(p), string(filepath.Separator))
	return r.check(filepath.Join(r.root, rel))
}

func (r *Resolver) check(p string) (string, error) {
	if !r.contain {
		return p, nil
	}
	rel, err := filepath.Rel(r.root, p)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrEscapesRoot
	}
	return p, nil
}

// IsDirPath reports whether a raw client path names a directory, which is
// signalled by a trailing slash.
func IsDirPath(p string) bool {
	return strings.HasSuffix(p, "/")
}
