package pkg

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	// Verify all sentinel errors are distinct
	errs := []error{
		ErrNoDevice,
		ErrDisconnected,
		ErrTimeout,
		ErrInvalidState,
		ErrInvalidParameter,
		ErrBufferTooSmall,
		ErrNotSupported,
		ErrBusy,
		ErrAlreadyRunning,
		ErrNotRunning,
	}

	for i, err1 := range errs {
		if err1 == nil {
			t.Errorf("error %d is nil", i)
			continue
		}
		for j, err2 := range errs {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("error %d and %d are equal", i, j)
			}
		}
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err     error
		wantMsg string
	}{
		{ErrNoDevice, "device not present"},
		{ErrDisconnected, "device disconnected"},
		{ErrTimeout, "read timeout"},
		{ErrInvalidState, "invalid state"},
		{ErrInvalidParameter, "invalid parameter"},
		{ErrBufferTooSmall, "buffer too small"},
		{ErrNotSupported, "not supported"},
		{ErrBusy, "resource busy"},
		{ErrAlreadyRunning, "already running"},
		{ErrNotRunning, "not running"},
	}

	for _, tt := range tests {
		t.Run(tt.wantMsg, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("error.Error() = %v, want %v", got, tt.wantMsg)
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	wrapped := fmt.Errorf("during reconnect: %w", ErrNoDevice)
	if !errors.Is(wrapped, ErrNoDevice) {
		t.Errorf("wrapped error does not match ErrNoDevice: %v", wrapped)
	}
}
