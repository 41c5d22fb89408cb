// Package daemon implements the event loop that owns the device
// session, the local command socket, and the button event subscriber:
// C12's keep-alive/reconnect logic and C13's cooperative orchestrator.
package daemon

import (
	"net"
	"os"
	"strconv"
	"time"

	"github.com/ardnew/deckd/internal/buttons"
	"github.com/ardnew/deckd/internal/config"
	"github.com/ardnew/deckd/internal/page"
	"github.com/ardnew/deckd/internal/proto"
	"github.com/ardnew/deckd/internal/server"
	"github.com/ardnew/deckd/internal/telemetry"
	"github.com/ardnew/deckd/internal/transport"
	"github.com/ardnew/deckd/pkg"
)

// ReconnectBackoff bounds how often a failed open() is retried.
const ReconnectBackoff = 500 * time.Millisecond

// windowState mirrors the device's small-window display state, kept
// in-process across keep-alive ticks and updated from inbound button
// 13 sub-state bytes.
type windowState struct {
	mode  buttons.SmallWindowMode
	cpu   int
	mem   int
	gpu   int
	clock string
}

// Daemon owns every process-singleton the event loop touches: the
// device session, the command socket, per-button state, and the single
// subscriber handle. It implements server.Handler so the dispatcher can
// call straight back into it.
type Daemon struct {
	cfg *config.Config

	session *transport.Session
	srv     *server.Server
	decoder *buttons.Decoder
	sm      *buttons.StateMachine
	sampler *telemetry.Sampler

	subscriber net.Conn
	window     windowState

	lastKeepAlive time.Time
	nextReconnect time.Time

	padCap int
}

// New returns a daemon configured from cfg. It does not open the device
// or bind the socket; call Run to start the event loop.
func New(cfg *config.Config, session *transport.Session) *Daemon {
	padCap := proto.DefaultPadCap
	if cfg.FastNoPad {
		// Per spec.md §6, fast-no-pad mode skips the pad search loop
		// and goes directly to the force-patch branch. A cap of 0
		// degenerates FindSafePad's search to a single try at p=0,
		// falling straight to PatchInPlace on failure.
		padCap = 0
	}

	return &Daemon{
		cfg:     cfg,
		session: session,
		srv:     server.New(cfg.SocketPath),
		decoder: buttons.NewDecoder(),
		sm:      buttons.NewStateMachine(),
		sampler: telemetry.NewSampler(cfg.GPUHelper),
		padCap:  padCap,
	}
}

// DevicePresent implements server.Handler.
func (d *Daemon) DevicePresent() bool {
	return d.session.IsOpen()
}

// SetBrightness implements server.Handler. n is already clamped to
// 0..100 by the dispatcher.
func (d *Daemon) SetBrightness(n int) error {
	payload := []byte(strconv.Itoa(n))
	patched := mitigateRaw(payload)
	return transport.Send(d.session, proto.CmdBrightness, payload, 0, patched)
}

// SetSmallWindow implements server.Handler: it updates the in-process
// small-window state (also touched by keep-alive and by button 13's
// sub-state byte) and sends the same wire payload format the keep-alive
// ticks use.
func (d *Daemon) SetSmallWindow(mode, cpuPct, memPct int, clock string, gpuPct int) error {
	d.window = windowState{
		mode:  buttons.SmallWindowMode(mode),
		cpu:   cpuPct,
		mem:   memPct,
		gpu:   gpuPct,
		clock: clock,
	}
	return d.sendSmallWindow()
}

func (d *Daemon) sendSmallWindow() error {
	payload := formatSmallWindow(d.window)
	patched := mitigateRaw(payload)
	return transport.Send(d.session, proto.CmdSmallWindow, payload, 0, patched)
}

func formatSmallWindow(w windowState) []byte {
	return []byte(strconv.Itoa(int(w.mode)) + "|" +
		strconv.Itoa(w.cpu) + "|" +
		strconv.Itoa(w.mem) + "|" +
		w.clock + "|" +
		strconv.Itoa(w.gpu))
}

// SetLabelStyle implements server.Handler: data is an opaque blob
// (already size-checked by the dispatcher) sent verbatim as command
// 0x000B.
func (d *Daemon) SetLabelStyle(data []byte) error {
	buf := append([]byte(nil), data...)
	patched := mitigateRaw(buf)
	return transport.Send(d.session, proto.CmdLabelStyle, buf, 0, patched)
}

// SetButtonsFile implements server.Handler: path names an existing ZIP
// archive on disk, re-packaged via page.Repackage to preserve its
// entries while applying the forbidden-byte mitigation pipeline.
func (d *Daemon) SetButtonsFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return pkg.ErrInvalidParameter
	}
	buf, result, err := page.Repackage(raw, d.padCap)
	if err != nil {
		return err
	}
	return transport.Send(d.session, proto.CmdFullPage, buf, result.PadUsed, result.Patched)
}

// ApplyPage implements server.Handler: icons are assembled into a fresh
// page archive via page.Assemble and sent under cmd (full or partial
// page update).
func (d *Daemon) ApplyPage(icons []page.Icon, cmd uint16) error {
	buf, result := page.Assemble(icons, d.padCap)
	return transport.Send(d.session, cmd, buf, result.PadUsed, result.Patched)
}

// Subscribe implements server.Handler: conn becomes the sole button
// event subscriber, replacing and closing any prior subscription (the
// spec allows at most one active subscriber).
func (d *Daemon) Subscribe(conn net.Conn) {
	if d.subscriber != nil {
		_ = d.subscriber.Close()
	}
	d.subscriber = conn
	d.decoder.Reset()
	pkg.LogInfo(pkg.ComponentDaemon, "subscriber attached")
}

// Emit implements buttons.Sink: it writes one LF-terminated line to the
// current subscriber, dropping the subscription on write failure.
func (d *Daemon) Emit(line string) {
	if d.subscriber == nil {
		return
	}
	if _, err := d.subscriber.Write([]byte(line + "\n")); err != nil {
		pkg.LogWarn(pkg.ComponentDaemon, "subscriber write failed", "err", err)
		_ = d.subscriber.Close()
		d.subscriber = nil
	}
}

// mitigateRaw patches buf in place if it violates the forbidden-byte
// invariant and returns the patched-byte count. Non-ZIP commands have
// no dummy-entry to pad with, so they go straight to the last-resort
// overwrite (spec.md §4.2, §9) rather than searching pad lengths.
func mitigateRaw(buf []byte) int {
	if proto.Satisfies(buf) {
		return 0
	}
	return proto.PatchInPlace(buf)
}
