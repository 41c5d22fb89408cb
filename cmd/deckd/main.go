// Command deckd is a user-space device manager daemon for a 14-button
// USB-HID stream-deck-style controller. It owns the sole HID connection
// to the device and mediates between host applications and the device
// over a local Unix stream socket.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardnew/deckd/internal/config"
	"github.com/ardnew/deckd/internal/daemon"
	"github.com/ardnew/deckd/internal/transport"
	"github.com/ardnew/deckd/pkg"
	_ "github.com/ardnew/deckd/pkg/prof"
)

func main() {
	cfg := config.Parse()

	if cfg.Verbose {
		pkg.SetLogLevel(slog.LevelDebug)
	} else {
		pkg.SetLogLevel(slog.LevelInfo)
	}
	if cfg.JSONLogs {
		pkg.SetLogFormat(pkg.LogFormatJSON)
	}
	if cfg.Profile {
		pkg.LogInfo(pkg.ComponentDaemon, "profiling requested; build with -tags profile to serve /debug/pprof/")
	}

	session := transport.NewSession()
	d := daemon.New(cfg, session)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	signal.Ignore(syscall.SIGPIPE)

	pkg.LogInfo(pkg.ComponentDaemon, "starting", "socket", cfg.SocketPath, "fast_no_pad", cfg.FastNoPad)

	if err := d.Run(ctx); err != nil {
		pkg.LogError(pkg.ComponentDaemon, "fatal error", "err", err)
		os.Exit(1)
	}
}
