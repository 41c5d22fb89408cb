// Package proto builds and validates the fixed-size HID frames exchanged
// with the device, and mitigates the device's forbidden-byte constraint
// on outbound payloads.
package proto

import (
	"encoding/binary"

	"github.com/ardnew/deckd/pkg"
)

// FrameSize is the fixed size, in bytes, of every HID report exchanged
// with the device.
const FrameSize = 1024

// HeaderSize is the number of bytes consumed by the frame header on a
// command's first frame. Continuation frames carry no header.
const HeaderSize = 8

// MaxFirstPayload is the largest payload slice a single header frame
// can carry.
const MaxFirstPayload = FrameSize - HeaderSize

// Header bytes, fixed for every command frame.
const (
	headerByte0 = 0x7C
	headerByte1 = 0x7C
)

// Known outbound command identifiers.
const (
	CmdFullPage    uint16 = 0x0001 // full-page update, ZIP payload
	CmdSmallWindow uint16 = 0x0006 // small-window/keep-alive, ASCII payload
	CmdBrightness  uint16 = 0x000A // brightness, ASCII 0..100
	CmdLabelStyle  uint16 = 0x000B // label-style, opaque blob
	CmdPartialPage uint16 = 0x000D // partial-page update, ZIP payload
)

// Known inbound command identifiers.
const (
	CmdButtonEventA uint16 = 0x0101
	CmdButtonEventB uint16 = 0x0102
	CmdDeviceInfo   uint16 = 0x0303 // captured, not decoded
)

// BuildHeaderFrame assembles the first frame of a command: header bytes,
// big-endian command id, little-endian total payload length, and up to
// MaxFirstPayload bytes of payload starting at byte 8. The returned
// buffer is always exactly FrameSize bytes, zero-padded past the
// supplied payload.
//
// The command id and total length fields intentionally use different
// endianness; this mirrors the device's wire format and must not be
// "normalized".
func BuildHeaderFrame(cmd uint16, payload []byte, totalLen uint32) ([FrameSize]byte, error) {
	var frame [FrameSize]byte
	if len(payload) > MaxFirstPayload {
		return frame, pkg.ErrBufferTooSmall
	}
	frame[0] = headerByte0
	frame[1] = headerByte1
	binary.BigEndian.PutUint16(frame[2:4], cmd)
	binary.LittleEndian.PutUint32(frame[4:8], totalLen)
	copy(frame[HeaderSize:], payload)
	return frame, nil
}

// BuildContinuationFrame assembles a raw continuation frame carrying up
// to FrameSize bytes of payload with no header. The final, short
// continuation frame is zero-padded to FrameSize.
func BuildContinuationFrame(payload []byte) ([FrameSize]byte, error) {
	var frame [FrameSize]byte
	if len(payload) > FrameSize {
		return frame, pkg.ErrBufferTooSmall
	}
	copy(frame[:], payload)
	return frame, nil
}

// HasHeader reports whether buf begins with the fixed header bytes.
func HasHeader(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == headerByte0 && buf[1] == headerByte1
}

// CommandID extracts the big-endian command id from a header frame.
// The caller must have already verified HasHeader(buf).
func CommandID(buf []byte) uint16 {
	return binary.BigEndian.Uint16(buf[2:4])
}

// TotalLength extracts the little-endian total payload length from a
// header frame. The caller must have already verified HasHeader(buf).
func TotalLength(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf[4:8])
}

// Payload returns the payload slice of a header frame, bytes 8 onward.
func Payload(buf []byte) []byte {
	if len(buf) <= HeaderSize {
		return nil
	}
	return buf[HeaderSize:]
}
