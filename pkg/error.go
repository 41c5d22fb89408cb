package pkg

import "errors"

// Daemon-wide sentinel errors.
var (
	// ErrNoDevice indicates the HID device is not present.
	ErrNoDevice = errors.New("device not present")

	// ErrDisconnected indicates the device session has been torn down
	// following a read or write failure.
	ErrDisconnected = errors.New("device disconnected")

	// ErrTimeout indicates a timed read returned with no frame available.
	ErrTimeout = errors.New("read timeout")

	// ErrInvalidState indicates an operation was attempted while the
	// daemon or device was in an incompatible state.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidParameter indicates a caller-supplied argument was out
	// of range or otherwise unusable.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrBufferTooSmall indicates a destination buffer could not hold
	// the requested data.
	ErrBufferTooSmall = errors.New("buffer too small")

	// ErrNotSupported indicates an unsupported operation or command.
	ErrNotSupported = errors.New("not supported")

	// ErrBusy indicates the resource is already in use.
	ErrBusy = errors.New("resource busy")

	// ErrAlreadyRunning indicates the daemon event loop is already running.
	ErrAlreadyRunning = errors.New("already running")

	// ErrNotRunning indicates an operation requires a running event loop.
	ErrNotRunning = errors.New("not running")
)
