package proto

// ForbiddenBytes are the two values the device rejects at each
// recurring offset.
const (
	forbiddenZero   = 0x00
	forbiddenHeader = 0x7C
)

// PatchByte replaces an offending byte during last-resort mitigation.
const PatchByte = 0x11

// DefaultPadCap bounds the pad-length search in FindSafePad. The spec
// requires a cap of at least FrameSize; this value gives the search
// several frames of headroom before falling back to patching.
const DefaultPadCap = 4 * FrameSize

// offendingOffsets reports every offset within buf that violates the
// forbidden-byte invariant: position 1024k-8 for k >= 1, i.e. every
// FrameSize*k - HeaderSize measured from the start of a command's
// concatenated payload (the first frame's header is not part of buf).
func offendingOffsets(buf []byte) []int {
	var offsets []int
	for off := FrameSize - HeaderSize; off < len(buf); off += FrameSize {
		if buf[off] == forbiddenZero || buf[off] == forbiddenHeader {
			offsets = append(offsets, off)
		}
	}
	return offsets
}

// Satisfies reports whether buf satisfies the forbidden-byte invariant.
func Satisfies(buf []byte) bool {
	return len(offendingOffsets(buf)) == 0
}

// PatchResult summarizes the outcome of mitigating a payload.
type PatchResult struct {
	// PadUsed is the pad length (in bytes) that produced a clean
	// buffer, or 0 if no padding was needed or padding was not
	// attempted. When the search exhausts its cap, PadUsed is the cap
	// and the buffer built with it was patched (Patched > 0).
	PadUsed int
	// Patched is the number of offending bytes overwritten as a
	// last resort. Zero means padding alone sufficed.
	Patched int
}

// PatchInPlace overwrites every offending byte in buf with PatchByte and
// returns the count of bytes patched. This is the last-resort mitigation
// used when a pad-length search exhausts its cap.
func PatchInPlace(buf []byte) int {
	offsets := offendingOffsets(buf)
	for _, off := range offsets {
		buf[off] = PatchByte
	}
	return len(offsets)
}

// FindSafePad searches pad lengths p in [0, cap] and calls build(p) to
// construct a candidate buffer for each. It returns the first candidate
// whose forbidden-byte invariant is satisfied. If no candidate in range
// satisfies the invariant, the candidate built with p == cap is patched
// in place via PatchInPlace and returned with Patched > 0.
//
// build must be deterministic for a given p: repeated calls with the
// same p must produce identical bytes, so that repeating the same
// command yields identical device frames (see the idempotence testable
// property).
func FindSafePad(cap int, build func(p int) []byte) ([]byte, PatchResult) {
	if cap < 0 {
		cap = 0
	}
	var last []byte
	for p := 0; p <= cap; p++ {
		candidate := build(p)
		if Satisfies(candidate) {
			return candidate, PatchResult{PadUsed: p}
		}
		last = candidate
	}
	patched := PatchInPlace(last)
	return last, PatchResult{PadUsed: cap, Patched: patched}
}
