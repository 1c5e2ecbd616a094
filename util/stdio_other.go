//go:build !unix

package util

import "os"

// NewNonBlockingFile falls back to plain reads on platforms without
// O_NONBLOCK semantics for standard streams.  Reads may block, which
// stalls the relay's pacing but preserves correctness: EOF and hard
// errors are still reported through the same interface.
func NewNonBlockingFile(f *os.File) (NonBlockingReader, error) {
	return FromReader(f), nil
}
