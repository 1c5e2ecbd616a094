//go:build unix

package util

import (
	"io"
	"os"

	"golang.org/x/sys/unix"

	"lwnet/internal/errors"
)

// fdSource reads a file descriptor directly with unix.Read, bypassing
// the runtime poller so a read on an O_NONBLOCK descriptor genuinely
// returns EAGAIN instead of parking the goroutine.
type fdSource struct {
	fd int
}

// NewNonBlockingFile puts f into non-blocking mode and returns a
// NonBlockingReader over its descriptor.  Intended for os.Stdin.
func NewNonBlockingFile(f *os.File) (NonBlockingReader, error) {
	fd := int(f.Fd())
	if err := unix.SetNonblock(fd, true); err != nil {
		return nil, errors.WrapDevice("setnonblock", -1, err)
	}
	return &fdSource{fd: fd}, nil
}

func (s *fdSource) ReadNonBlock(p []byte) (int, error) {
	n, err := unix.Read(s.fd, p)
	switch {
	case n > 0:
		return n, nil
	case err == nil:
		// Zero-byte read with no error is EOF at the fd level.
		return 0, io.EOF
	case err == unix.EAGAIN || err == unix.EWOULDBLOCK:
		return 0, errors.ErrNotReady
	case err == unix.EINTR:
		return 0, errors.ErrNotReady
	default:
		return 0, err
	}
}
