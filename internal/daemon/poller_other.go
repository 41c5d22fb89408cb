//go:build !linux

package daemon

import (
	"time"

	"github.com/ardnew/deckd/internal/server"
)

// socketPoller is a plain sleep on platforms without the epoll-based
// wait step.
type socketPoller struct{}

func newSocketPoller(_ *server.Server) *socketPoller {
	return nil
}

func (p *socketPoller) Wait(timeout time.Duration) {
	time.Sleep(timeout)
}

func (p *socketPoller) Close() {}
