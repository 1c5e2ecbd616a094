package pkghelper

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Error codes reported through HostError, matching the host function
// convention of negative results.
const (
	codeInvalidName = -1
	codeNotCached   = -2
	codeNoSource    = -3
	codeIO          = -4
)

// DirStore implements Store over a cache directory: one file per
// package, named after the package.
type DirStore struct {
	Root string

	// Fetch downloads a package's payload.  When nil, Install can only
	// report cache hits.
	Fetch func(name string) ([]byte, error)
}

// NewDirStore returns a DirStore rooted at dir.
func NewDirStore(dir string) *DirStore {
	return &DirStore{Root: dir}
}

// Check reports whether name is present in the cache directory.
func (s *DirStore) Check(name string) (bool, error) {
	path, err := s.path("check", name)
	if err != nil {
		return false, err
	}
	_, statErr := os.Stat(path)
	if statErr == nil {
		return true, nil
	}
	if os.IsNotExist(statErr) {
		return false, nil
	}
	return false, &HostError{Op: "check", Code: codeIO}
}

// Install fetches the package unless already cached.
func (s *DirStore) Install(name string) (InstallResult, error) {
	cached, err := s.Check(name)
	if err != nil {
		return 0, &HostError{Op: "install", Code: errCode(err)}
	}
	if cached {
		return AlreadyCached, nil
	}
	if s.Fetch == nil {
		return 0, &HostError{Op: "install", Code: codeNoSource}
	}

	data, err := s.Fetch(name)
	if err != nil {
		return 0, &HostError{Op: "install", Code: codeIO}
	}
	path, err := s.path("install", name)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return 0, &HostError{Op: "install", Code: codeIO}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, &HostError{Op: "install", Code: codeIO}
	}
	return Installed, nil
}

// Restore copies a cached package to dest.
func (s *DirStore) Restore(name, dest string) error {
	path, err := s.path("restore", name)
	if err != nil {
		return err
	}
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return &HostError{Op: "restore", Code: codeNotCached}
		}
		return &HostError{Op: "restore", Code: codeIO}
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return &HostError{Op: "restore", Code: codeIO}
	}
	return nil
}

// ListCached returns the cache directory's entries, sorted by name.
func (s *DirStore) ListCached() ([]string, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &HostError{Op: "list", Code: codeIO}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// path validates name and joins it under Root.  Path separators and
// traversal in package names are rejected outright.
func (s *DirStore) path(op, name string) (string, error) {
	if name == "" || strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return "", &HostError{Op: op, Code: codeInvalidName}
	}
	return filepath.Join(s.Root, name), nil
}

func errCode(err error) int {
	var he *HostError
	if errors.As(err, &he) {
		return he.Code
	}
	return codeIO
}
