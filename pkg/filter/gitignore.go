package filter

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	gitignore "github.com/monochromegane/go-gitignore"
	"github.com/spf13/afero"
)

// GitignoreFile is the name looked up at each directory root.
const GitignoreFile = ".gitignore"

// ForRoot returns a matcher bound to a directory root. When the spec asks for
// .gitignore support and root contains one, its rules are added; otherwise m
// is returned unchanged. A missing .gitignore is not an error.
func (m *Matcher) ForRoot(fsys afero.Fs, root string) (*Matcher, error) {
	if !m.spec.Gitignore {
		return m, nil
	}

	name := filepath.Join(root, GitignoreFile)
	f, err := fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return m, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	bound := *m
	bound.root = root
	bound.ignore = gitignore.NewGitIgnoreFromReader(root, f)
	return &bound, nil
}

// joinRoot rebuilds the path the gitignore matcher expects; it computes the
// relative path against the root itself.
func joinRoot(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}
