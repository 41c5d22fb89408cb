package daemon

import (
	"context"
	"time"

	"github.com/ardnew/deckd/internal/buttons"
	"github.com/ardnew/deckd/internal/server"
	"github.com/ardnew/deckd/internal/transport"
	"github.com/ardnew/deckd/pkg"
)

// tickSleep is the cooperative loop's idle sleep between iterations
// (spec.md §4.13 step 7 / §5's ~5ms suspension point).
const tickSleep = 5 * time.Millisecond

// Run binds the command socket and drives the single-threaded
// cooperative event loop until ctx is canceled (SIGINT/SIGTERM via the
// caller's signal.NotifyContext). It multiplexes reconnect attempts,
// socket accepts, timed HID reads, and keep-alive ticks — never more
// than one outstanding device write at a time, per spec.md §5.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.srv.Listen(); err != nil {
		return err
	}
	defer d.srv.Close()
	defer d.session.Close()
	defer func() {
		if d.subscriber != nil {
			_ = d.subscriber.Close()
		}
	}()

	hint := newReconnectHint()
	defer hint.Close()
	poller := newSocketPoller(d.srv)
	defer poller.Close()

	now := time.Now()
	d.nextReconnect = now
	d.lastKeepAlive = now

	for {
		select {
		case <-ctx.Done():
			pkg.LogInfo(pkg.ComponentDaemon, "shutting down")
			return nil
		default:
		}

		now = time.Now()

		// 1. Reconnect, subject to backoff; a hotplug hint shortcuts
		// the backoff the moment the kernel announces our device.
		if !d.session.IsOpen() {
			if hint.Pending() {
				d.nextReconnect = now
			}
			d.attemptReconnect(now)
		}

		// 2. Non-blocking accept and command dispatch. Dispatch writes
		// the response and closes the connection itself, except for
		// read-buttons, whose connection it retains as the subscriber
		// via Daemon.Subscribe.
		if conn, ok := d.srv.Accept(); ok {
			server.Dispatch(conn, d)
		}

		// 3-5. One timed HID read per iteration, only while a
		// subscriber actually wants button events.
		if d.subscriber != nil && d.session.IsOpen() {
			frame, outcome := d.session.ReadFrame()
			switch outcome {
			case transport.ReadFrame:
				d.handleFrame(frame[:])
			case transport.ReadTimedOut:
				d.sm.Tick(d)
			case transport.ReadDisconnected:
				d.handleDisconnect()
			}
		}

		// 6. Keep-alive, if due.
		if d.session.IsOpen() && time.Since(d.lastKeepAlive) >= KeepAliveInterval {
			d.runKeepAlive()
		}

		// 7. Idle wait.
		poller.Wait(tickSleep)
	}
}

// handleFrame decodes one inbound HID frame and feeds any resulting
// edge to the button state machine.
func (d *Daemon) handleFrame(frame []byte) {
	result := d.decoder.Decode(frame)
	if !result.Recognized {
		return
	}
	if result.HasEdge && result.Edge.Index == buttons.StatusIndex {
		d.window.mode = result.Mode
	}
	if result.HasEdge {
		d.sm.HandleEdge(result.Edge, d)
	}
}
