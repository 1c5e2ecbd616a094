//go:build !linux

package transport

import (
	"context"
	"fmt"

	"lwnet/internal/errors"
)

// OpenDevice is unsupported off Linux: the lwnet driver is
// kernel-resident.  The websocket bridge backend works everywhere.
func OpenDevice(path string) (*Device, error) {
	return nil, fmt.Errorf("%s: lwnet device requires linux: %w", path, errors.ErrDeviceUnavailable)
}

// Device satisfies Transport so callers compile on every platform;
// OpenDevice never returns one here.
type Device struct{}

func (d *Device) Open(context.Context, string, int) (int, error) {
	return 0, errors.ErrDeviceUnavailable
}

func (d *Device) Poll(context.Context, int) (Status, error) {
	return StatusError, errors.ErrDeviceUnavailable
}

func (d *Device) Read(context.Context, int, []byte) (int, error) {
	return 0, errors.ErrDeviceUnavailable
}

func (d *Device) Write(context.Context, int, []byte) (int, error) {
	return 0, errors.ErrDeviceUnavailable
}

func (d *Device) Close(context.Context, int) error { return errors.ErrDeviceUnavailable }

func (d *Device) Release() error { return nil }
