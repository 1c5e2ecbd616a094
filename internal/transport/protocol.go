package transport

import "unsafe"

// protocol.go - the ioctl request numbers shared with the kernel
// driver.  The encoding mirrors the kernel's _IOC macro: direction in
// bits 30-31, argument size in bits 16-29, magic in bits 8-15, command
// number in bits 0-7.

// openArgs is the LWNET_OPEN argument block.  Field order and sizes
// match the driver's struct lwnet_open_args exactly.
type openArgs struct {
	Host   [256]byte // NUL-terminated hostname
	Port   int32
	ConnID int32 // out: assigned by the driver
}

const iocMagic = 'N'

// _IOC direction bits.
const (
	iocWrite = 1
	iocRead  = 2
)

func ioc(dir, nr, size uintptr) uintptr {
	return dir<<30 | size<<16 | iocMagic<<8 | nr
}

// Request numbers.  lwnetOpen is _IOWR('N', 1, struct lwnet_open_args),
// lwnetClose is _IOW('N', 2, int), lwnetPoll is _IOR('N', 4, int).
var (
	lwnetOpen  = ioc(iocRead|iocWrite, 1, unsafe.Sizeof(openArgs{}))
	lwnetClose = ioc(iocWrite, 2, unsafe.Sizeof(int32(0)))
	lwnetPoll  = ioc(iocRead, 4, unsafe.Sizeof(int32(0)))
)

// setHost copies host into the argument block, NUL-terminated.  The
// caller has already validated the length bound.
func (a *openArgs) setHost(host string) {
	n := copy(a.Host[:len(a.Host)-1], host)
	a.Host[n] = 0
}
