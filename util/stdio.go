package util

import (
	"io"

	"lwnet/internal/errors"
)

// NonBlockingReader is the relay's input primitive.  A single call
// returns exactly one of:
//
//   - n > 0 bytes read,
//   - (0, io.EOF) once the stream is exhausted (permanent),
//   - (0, errors.ErrNotReady) when nothing is available right now,
//   - (0, err) for a hard failure.
//
// The underlying mechanism (O_NONBLOCK flags, buffered readers) never
// leaks past this interface.
type NonBlockingReader interface {
	ReadNonBlock(p []byte) (int, error)
}

// readerSource adapts a plain io.Reader.  Useful for pipes and tests
// where reads complete immediately; a zero-byte read with no error is
// reported as not-ready.
type readerSource struct {
	r io.Reader
}

// FromReader wraps r as a NonBlockingReader.
func FromReader(r io.Reader) NonBlockingReader {
	return &readerSource{r: r}
}

func (s *readerSource) ReadNonBlock(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if n > 0 {
		return n, nil
	}
	if err == nil {
		return 0, errors.ErrNotReady
	}
	if errors.Is(err, io.EOF) {
		return 0, io.EOF
	}
	return 0, err
}
