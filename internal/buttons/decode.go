// Package buttons decodes inbound HID button-event frames and drives
// the per-button press/hold/release state machine that emits semantic
// events to the daemon's subscriber.
package buttons

import "github.com/ardnew/deckd/internal/proto"

// NumButtons is the number of physical button slots, 0..13. Index 13 is
// the double-wide status tile.
const NumButtons = 14

// StatusIndex identifies the status tile among button indices.
const StatusIndex = 13

// Edge describes a clean press/release transition for one button, as
// produced by Decoder.Decode.
type Edge struct {
	Index   int
	Pressed bool
}

// SmallWindowMode mirrors the device's small-window display mode,
// carried in button 13's sub-state byte.
type SmallWindowMode int

// Small-window modes.
const (
	ModeStats SmallWindowMode = iota
	ModeClock
	ModeBackground
)

// Result is the outcome of decoding one inbound frame. A frame that is
// not a recognized button-event frame yields a zero Result. A
// recognized frame always carries a valid Mode (the sub-state byte is
// present on every button-event report); it carries an Edge only when
// the raw byte produced a clean transition.
type Result struct {
	Recognized bool
	Mode       SmallWindowMode
	Edge       Edge
	HasEdge    bool
}

// Decoder turns raw inbound HID frames into clean button edges. It
// retains the minimal state needed to interpret the status tile's
// alternating "down-like" reports (spec open question: there is no
// documentation that the device always alternates cleanly, so unmatched
// raw values simply produce no edge rather than asserting).
type Decoder struct {
	statusDown bool
}

// NewDecoder returns a decoder with the status tile initially up.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Reset clears the status tile's alternation state, used on reconnect.
func (d *Decoder) Reset() {
	d.statusDown = false
}

// Decode parses one inbound frame. Result.Recognized is false for
// frames that are not button-event frames (wrong header or command
// id, or shorter than 12 bytes). A button-event frame with an
// out-of-range button index is still recognized but carries only its
// Mode, with no Edge.
func (d *Decoder) Decode(frame []byte) Result {
	if !proto.HasHeader(frame) {
		return Result{}
	}
	cmd := proto.CommandID(frame)
	if cmd != proto.CmdButtonEventA && cmd != proto.CmdButtonEventB {
		return Result{}
	}
	if len(frame) < 12 {
		return Result{}
	}

	mode := SmallWindowMode(frame[8])
	index := int(frame[9])
	if index < 0 || index >= NumButtons {
		return Result{Recognized: true, Mode: mode}
	}
	raw := frame[11] == 0x01

	if index == StatusIndex {
		if !raw {
			return Result{Recognized: true, Mode: mode}
		}
		d.statusDown = !d.statusDown
		return Result{
			Recognized: true,
			Mode:       mode,
			Edge:       Edge{Index: StatusIndex, Pressed: d.statusDown},
			HasEdge:    true,
		}
	}

	return Result{
		Recognized: true,
		Mode:       mode,
		Edge:       Edge{Index: index, Pressed: raw},
		HasEdge:    true,
	}
}
