package util

import "sync"

// ChunkSize is the transport's per-call byte bound.  Every read and
// write against the device moves at most one chunk.
const ChunkSize = 4096

// BufPool provides reusable chunk buffers for the relay loop, reducing
// GC pressure on the polling hot path.
var BufPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, ChunkSize)
		return &buf
	},
}

// GetBuf retrieves a chunk buffer from the pool.  Callers must return
// it with [PutBuf] when finished.
func GetBuf() *[]byte {
	return BufPool.Get().(*[]byte)
}

// PutBuf returns a buffer to the pool for reuse.
func PutBuf(buf *[]byte) {
	if buf == nil {
		return
	}
	BufPool.Put(buf)
}
