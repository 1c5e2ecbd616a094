// Package pkghelper forwards package cache commands (check, install,
// restore, list) to a host-provided store.  It keeps no state of its
// own; all it adds over the store is CLI formatting and exit codes.
package pkghelper

import "fmt"

// InstallResult distinguishes a fresh install from a cache hit.
type InstallResult int

const (
	Installed InstallResult = iota
	AlreadyCached
)

// HostError carries the numeric error code a host function reported.
type HostError struct {
	Op   string // "check", "install", "restore", "list"
	Code int
}

func (e *HostError) Error() string {
	return fmt.Sprintf("%s failed (error %d)", e.Op, e.Code)
}

// Store is the host-side package cache.  In the wasm environment the
// implementation is backed by host functions over browser storage; for
// native use and tests, DirStore serves the same contract from a
// directory.
type Store interface {
	// Check reports whether the package is cached.
	Check(name string) (bool, error)

	// Install downloads the package unless it is already cached.
	Install(name string) (InstallResult, error)

	// Restore copies a cached package to the destination path.
	Restore(name, dest string) error

	// ListCached returns the cached package names, sorted.
	ListCached() ([]string, error)
}
