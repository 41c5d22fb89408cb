package daemon

import (
	"time"

	"github.com/ardnew/deckd/internal/buttons"
	"github.com/ardnew/deckd/pkg"
)

// KeepAliveInterval is how often the daemon refreshes and resends the
// small-window payload while the device is open.
const KeepAliveInterval = 24 * time.Second

// runKeepAlive refreshes telemetry (only when the last known mode is
// STATS) and resends the small-window payload. A write failure
// demotes the device to disconnected and notifies the subscriber.
func (d *Daemon) runKeepAlive() {
	if d.window.mode == buttons.ModeStats {
		d.window.cpu = d.sampler.CPU()
		d.window.mem = d.sampler.Memory()
		d.window.gpu = d.sampler.GPU()
	}
	d.window.clock = time.Now().Format("15:04:05")

	if err := d.sendSmallWindow(); err != nil {
		pkg.LogWarn(pkg.ComponentDaemon, "keep-alive send failed", "err", err)
		d.handleDisconnect()
		return
	}
	d.lastKeepAlive = time.Now()
}

// handleDisconnect tears down the device session, notifies the
// subscriber, and schedules the next reconnect attempt.
func (d *Daemon) handleDisconnect() {
	d.session.Close()
	d.Emit("evt disconnected")
	d.nextReconnect = time.Now()
}

// attemptReconnect tries to (re)open the device, subject to backoff. On
// success it clears button state, resets the keep-alive clock, and
// notifies the subscriber.
func (d *Daemon) attemptReconnect(now time.Time) {
	if now.Before(d.nextReconnect) {
		return
	}
	d.nextReconnect = now.Add(ReconnectBackoff)

	if err := d.session.Open(); err != nil {
		return
	}

	d.sm.Reset()
	d.decoder.Reset()
	d.lastKeepAlive = now
	d.Emit("evt connected")
	pkg.LogInfo(pkg.ComponentDaemon, "device reconnected")
}
