package buttons

import (
	"fmt"
	"time"
)

// Timing thresholds from the device's button-event contract.
const (
	TapThreshold      = 20 * time.Millisecond
	HoldThreshold     = 750 * time.Millisecond
	LongHoldThreshold = 5 * time.Second
)

// buttonState tracks one button's in-flight press.
type buttonState struct {
	downSince       time.Time
	holdEmitted     bool
	longHoldEmitted bool
	tapPending      bool
}

func (b *buttonState) down() bool {
	return !b.downSince.IsZero()
}

func (b *buttonState) clear() {
	*b = buttonState{}
}

// StateMachine tracks all 14 buttons and emits semantic event lines to
// a Sink. Only one subscriber is ever installed at a time.
type StateMachine struct {
	states [NumButtons]buttonState
	now    func() time.Time
}

// Sink receives emitted event lines, LF-terminated, exactly as written
// to the subscriber socket.
type Sink interface {
	Emit(line string)
}

// NewStateMachine returns a state machine using time.Now for its clock.
func NewStateMachine() *StateMachine {
	return &StateMachine{now: time.Now}
}

// Reset clears all button state, used on reconnect.
func (m *StateMachine) Reset() {
	for i := range m.states {
		m.states[i].clear()
	}
}

// HandleEdge processes one decoded edge and emits events to sink.
func (m *StateMachine) HandleEdge(edge Edge, sink Sink) {
	s := &m.states[edge.Index]
	now := m.now()

	if edge.Pressed {
		if !s.down() {
			s.downSince = now
			s.holdEmitted = false
			s.longHoldEmitted = false
			s.tapPending = true
			if edge.Index == StatusIndex {
				sink.Emit(fmt.Sprintf("button %d TAP", edge.Index+1))
			}
		}
		return
	}

	// released
	if !s.down() {
		return
	}
	held := now.Sub(s.downSince)

	if edge.Index == StatusIndex {
		sink.Emit(fmt.Sprintf("button %d RELEASED", edge.Index+1))
		s.clear()
		return
	}

	if held < HoldThreshold {
		sink.Emit(fmt.Sprintf("button %d TAP", edge.Index+1))
		sink.Emit(fmt.Sprintf("button %d RELEASED", edge.Index+1))
	} else {
		sink.Emit(fmt.Sprintf("button %d RELEASED", edge.Index+1))
	}
	s.clear()
}

// Tick runs the idle-tick pass for every held, non-status button,
// emitting HOLD/LONGHOLD transitions as their thresholds are crossed.
// It is called on every read timeout (no inbound frame).
func (m *StateMachine) Tick(sink Sink) {
	now := m.now()
	for i := range m.states {
		if i == StatusIndex {
			continue
		}
		s := &m.states[i]
		if !s.down() || !s.tapPending {
			continue
		}
		held := now.Sub(s.downSince)
		switch {
		case held >= HoldThreshold && !s.holdEmitted:
			sink.Emit(fmt.Sprintf("button %d HOLD (%.2fs)", i+1, held.Seconds()))
			s.holdEmitted = true
		case s.holdEmitted && held >= LongHoldThreshold && !s.longHoldEmitted:
			sink.Emit(fmt.Sprintf("button %d LONGHOLD (%.2fs)", i+1, held.Seconds()))
			s.longHoldEmitted = true
		}
	}
}
