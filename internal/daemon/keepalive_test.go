package daemon

import (
	"testing"
	"time"
)

func TestDaemon_HandleDisconnectClearsStateAndSchedulesReconnect(t *testing.T) {
	d := newTestDaemon(t)
	before := time.Now()

	d.handleDisconnect()

	if d.session.IsOpen() {
		t.Error("expected session closed after handleDisconnect")
	}
	if d.nextReconnect.Before(before) {
		t.Error("expected nextReconnect scheduled at or after the call time")
	}
}

func TestDaemon_AttemptReconnectRespectsBackoff(t *testing.T) {
	d := newTestDaemon(t)
	now := time.Now()

	d.attemptReconnect(now)
	scheduled := d.nextReconnect
	if !scheduled.After(now) {
		t.Fatalf("expected nextReconnect scheduled in the future, got %v (now %v)", scheduled, now)
	}

	d.attemptReconnect(now) // same instant: must be a no-op, still within backoff
	if d.nextReconnect != scheduled {
		t.Errorf("nextReconnect changed on a call still within backoff: %v != %v", d.nextReconnect, scheduled)
	}
}

func TestDaemon_RunKeepAliveNoDeviceTriggersDisconnect(t *testing.T) {
	d := newTestDaemon(t)
	d.window.mode = 0 // ModeStats

	d.runKeepAlive()

	if d.session.IsOpen() {
		t.Error("expected session to remain closed")
	}
}
