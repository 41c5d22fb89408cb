// Package pkg provides shared utilities for the deckd daemon.
//
// This package contains common functionality used across the proto,
// page, transport, server, buttons, telemetry, and daemon packages:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel error values shared across subsystems
//   - Component identifiers for log filtering
//
// # Logging
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogInfo(pkg.ComponentTransport, "device opened", "vid", 0x1234)
//
// # Errors
//
//	if errors.Is(err, pkg.ErrNoDevice) {
//	    // respond "err no_device"
//	}
package pkg
