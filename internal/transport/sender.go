package transport

import (
	"github.com/ardnew/deckd/internal/proto"
	"github.com/ardnew/deckd/pkg"
)

// FrameWriter writes one fixed-size frame to the device session. Session
// implements this; tests substitute a fake to exercise Send without
// real hardware.
type FrameWriter interface {
	WriteFrame(frame [proto.FrameSize]byte) error
}

// Send sequences payload as a header frame followed by N continuation
// frames and writes each via w. padUsed and patched are logged only,
// per spec: they never affect behavior, only observability.
func Send(w FrameWriter, cmd uint16, payload []byte, padUsed, patched int) error {
	total := uint32(len(payload))

	first := payload
	rest := []byte(nil)
	if len(first) > proto.MaxFirstPayload {
		first = payload[:proto.MaxFirstPayload]
		rest = payload[proto.MaxFirstPayload:]
	}

	frame, err := proto.BuildHeaderFrame(cmd, first, total)
	if err != nil {
		return err
	}
	if err := w.WriteFrame(frame); err != nil {
		return err
	}

	sent := len(first)
	for len(rest) > 0 {
		chunk := rest
		if len(chunk) > proto.FrameSize {
			chunk = rest[:proto.FrameSize]
		}
		cframe, err := proto.BuildContinuationFrame(chunk)
		if err != nil {
			return err
		}
		if err := w.WriteFrame(cframe); err != nil {
			return err
		}
		sent += len(chunk)
		rest = rest[len(chunk):]
	}

	pkg.LogInfo(pkg.ComponentTransport, "command sent",
		"cmd", cmd, "bytes", sent, "pad_used", padUsed, "patched", patched)
	return nil
}
