//go:build linux

package transport

import (
	"context"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"lwnet/internal/errors"
)

var _ Transport = (*Device)(nil)

// Device speaks the command interface to the lwnet kernel driver
// through a char device fd.  One Device serves at most one connection
// at a time; the fd is the process's single device handle.
type Device struct {
	fd   int
	path string
}

// OpenDevice acquires the device handle.  A missing or unopenable
// device means the driver is not loaded; the error unwraps to
// errors.ErrDeviceUnavailable.
func OpenDevice(path string) (*Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", path, err, errors.ErrDeviceUnavailable)
	}
	return &Device{fd: fd, path: path}, nil
}

// Open issues LWNET_OPEN and returns the driver-assigned conn_id.
func (d *Device) Open(_ context.Context, host string, port int) (int, error) {
	var args openArgs
	args.setHost(host)
	args.Port = int32(port)

	if errno := d.ioctl(lwnetOpen, unsafe.Pointer(&args)); errno != 0 {
		return 0, &errors.OpenError{Host: host, Port: port, Code: -int(errno), Err: errno}
	}
	return int(args.ConnID), nil
}

// Poll issues LWNET_POLL for the current connection.
func (d *Device) Poll(_ context.Context, connID int) (Status, error) {
	var status int32
	if errno := d.ioctl(lwnetPoll, unsafe.Pointer(&status)); errno != 0 {
		return StatusError, errors.WrapDevice("poll", connID, errno)
	}
	return Status(status), nil
}

// Read drains up to MaxChunk available bytes from the connection.
func (d *Device) Read(_ context.Context, connID int, p []byte) (int, error) {
	if len(p) > MaxChunk {
		p = p[:MaxChunk]
	}
	n, err := unix.Read(d.fd, p)
	switch {
	case n > 0:
		return n, nil
	case err == unix.EAGAIN || err == unix.EWOULDBLOCK:
		return 0, errors.ErrNotReady
	case err != nil:
		return 0, errors.WrapDevice("read", connID, err)
	default:
		// Driver returned 0 bytes without an error: nothing buffered.
		return 0, errors.ErrNotReady
	}
}

// Write hands up to MaxChunk bytes to the driver and reports how many
// it accepted.
func (d *Device) Write(_ context.Context, connID int, p []byte) (int, error) {
	if len(p) > MaxChunk {
		p = p[:MaxChunk]
	}
	n, err := unix.Write(d.fd, p)
	switch {
	case err == unix.EAGAIN || err == unix.EWOULDBLOCK:
		return 0, errors.ErrNotReady
	case err != nil:
		return 0, errors.WrapDevice("write", connID, err)
	default:
		return n, nil
	}
}

// Close issues LWNET_CLOSE for connID.
func (d *Device) Close(_ context.Context, connID int) error {
	id := int32(connID)
	if errno := d.ioctl(lwnetClose, unsafe.Pointer(&id)); errno != 0 {
		return &errors.CloseError{ConnID: connID, Err: errno}
	}
	return nil
}

// Release closes the device fd.
func (d *Device) Release() error {
	if d.fd < 0 {
		return nil
	}
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}

func (d *Device) ioctl(req uintptr, arg unsafe.Pointer) unix.Errno {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), req, uintptr(arg))
	return errno
}
