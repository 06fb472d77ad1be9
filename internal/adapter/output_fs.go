package adapter

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// OutputFS abstracts the filesystem operations the analysis needs against
// the build output and source trees.
type OutputFS interface {
	// FindOutputFile walks root looking for a file with the given base name
	// and returns its full path, or an error when none exists.
	FindOutputFile(root, basename string) (string, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path string) ([]byte, error)

	// ListDir returns the sorted base names of the entries in dir.
	ListDir(dir string) ([]string, error)

	// RemoveAll removes a directory tree, ignoring missing paths.
	RemoveAll(path string) error
}

// LocalOutputFS is the os-backed OutputFS implementation.
type LocalOutputFS struct{}

// NewLocalOutputFS constructs a LocalOutputFS.
func NewLocalOutputFS() *LocalOutputFS {
	return &LocalOutputFS{}
}

// FindOutputFile walks root looking for a file named basename.
func (a *LocalOutputFS) FindOutputFile(root, basename string) (string, error) {
	found := ""

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && d.Name() == basename {
			found = path
			return filepath.SkipAll
		}

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk %s: %w", root, err)
	}

	if found == "" {
		return "", fmt.Errorf("could not find %s in %s", basename, root)
	}

	return found, nil
}

// ReadFile loads file contents from disk.
func (a *LocalOutputFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// ListDir returns the sorted base names of the entries in dir.
func (a *LocalOutputFS) ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	sort.Strings(names)

	return names, nil
}

// RemoveAll removes a directory and all its contents.
func (a *LocalOutputFS) RemoveAll(path string) error {
	return os.RemoveAll(path)
}
