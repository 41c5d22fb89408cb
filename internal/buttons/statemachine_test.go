package buttons

import (
	"testing"
	"time"
)

// recordingSink collects emitted lines in order.
type recordingSink struct {
	lines []string
}

func (r *recordingSink) Emit(line string) {
	r.lines = append(r.lines, line)
}

// fakeClock lets tests advance time deterministically.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time { return f.t }
func (f *fakeClock) advance(d time.Duration) {
	f.t = f.t.Add(d)
}

func newTestMachine() (*StateMachine, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	m := &StateMachine{now: clock.now}
	return m, clock
}

func TestStateMachine_ShortTap(t *testing.T) {
	m, clock := newTestMachine()
	sink := &recordingSink{}

	m.HandleEdge(Edge{Index: 2, Pressed: true}, sink)
	clock.advance(30 * time.Millisecond)
	m.HandleEdge(Edge{Index: 2, Pressed: false}, sink)

	want := []string{"button 3 TAP", "button 3 RELEASED"}
	if !equalSlices(sink.lines, want) {
		t.Errorf("lines = %v, want %v", sink.lines, want)
	}
}

func TestStateMachine_HoldThenRelease(t *testing.T) {
	m, clock := newTestMachine()
	sink := &recordingSink{}

	m.HandleEdge(Edge{Index: 6, Pressed: true}, sink)
	clock.advance(800 * time.Millisecond)
	m.Tick(sink)
	clock.advance(400 * time.Millisecond) // total 1.2s
	m.HandleEdge(Edge{Index: 6, Pressed: false}, sink)

	want := []string{"button 7 HOLD (0.80s)", "button 7 RELEASED"}
	if !equalSlices(sink.lines, want) {
		t.Errorf("lines = %v, want %v", sink.lines, want)
	}
}

func TestStateMachine_LongHold(t *testing.T) {
	m, clock := newTestMachine()
	sink := &recordingSink{}

	m.HandleEdge(Edge{Index: 0, Pressed: true}, sink)
	clock.advance(800 * time.Millisecond)
	m.Tick(sink)
	clock.advance(4300 * time.Millisecond) // total 5.1s
	m.Tick(sink)
	clock.advance(100 * time.Millisecond)
	m.HandleEdge(Edge{Index: 0, Pressed: false}, sink)

	want := []string{"button 1 HOLD (0.80s)", "button 1 LONGHOLD (5.10s)", "button 1 RELEASED"}
	if !equalSlices(sink.lines, want) {
		t.Errorf("lines = %v, want %v", sink.lines, want)
	}
}

func TestStateMachine_HoldNeverEmitsTap(t *testing.T) {
	m, clock := newTestMachine()
	sink := &recordingSink{}

	m.HandleEdge(Edge{Index: 3, Pressed: true}, sink)
	clock.advance(900 * time.Millisecond)
	m.Tick(sink)
	clock.advance(100 * time.Millisecond)
	m.HandleEdge(Edge{Index: 3, Pressed: false}, sink)

	for _, line := range sink.lines {
		if line == "button 4 TAP" {
			t.Fatalf("unexpected TAP in held-press sequence: %v", sink.lines)
		}
	}
}

func TestStateMachine_StatusButton(t *testing.T) {
	m, _ := newTestMachine()
	sink := &recordingSink{}

	m.HandleEdge(Edge{Index: StatusIndex, Pressed: true}, sink)
	m.HandleEdge(Edge{Index: StatusIndex, Pressed: false}, sink)

	want := []string{"button 14 TAP", "button 14 RELEASED"}
	if !equalSlices(sink.lines, want) {
		t.Errorf("lines = %v, want %v", sink.lines, want)
	}
}

func TestStateMachine_StatusButtonNeverHolds(t *testing.T) {
	m, clock := newTestMachine()
	sink := &recordingSink{}

	m.HandleEdge(Edge{Index: StatusIndex, Pressed: true}, sink)
	clock.advance(10 * time.Second)
	m.Tick(sink) // must be a no-op for the status tile

	want := []string{"button 14 TAP"}
	if !equalSlices(sink.lines, want) {
		t.Errorf("lines = %v, want %v", sink.lines, want)
	}
}

func TestStateMachine_ReleaseWithoutPressIsIgnored(t *testing.T) {
	m, _ := newTestMachine()
	sink := &recordingSink{}
	m.HandleEdge(Edge{Index: 5, Pressed: false}, sink)
	if len(sink.lines) != 0 {
		t.Errorf("expected no emissions for a bare release, got %v", sink.lines)
	}
}

func TestStateMachine_Reset(t *testing.T) {
	m, clock := newTestMachine()
	sink := &recordingSink{}
	m.HandleEdge(Edge{Index: 1, Pressed: true}, sink)
	m.Reset()
	clock.advance(2 * time.Second)
	m.Tick(sink)
	if len(sink.lines) != 0 {
		t.Errorf("expected no emissions after Reset, got %v", sink.lines)
	}
}

func equalSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
