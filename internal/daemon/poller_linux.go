//go:build linux

package daemon

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/ardnew/deckd/internal/server"
	"github.com/ardnew/deckd/pkg"
)

// socketPoller waits on the command socket's file descriptor between
// orchestrator iterations, adapted from the teacher's epoll-based
// multiplexer (host/hal/linux/poller.go) onto the typed
// golang.org/x/sys/unix wrappers instead of raw syscall.Syscall. It
// only ever shortens the orchestrator's idle sleep; correctness never
// depends on it waking early, so every error is logged and swallowed.
type socketPoller struct {
	epfd int
}

// newSocketPoller registers srv's listening socket with a fresh epoll
// instance. It returns nil if the server is not yet listening or the
// epoll instance cannot be created; callers must treat a nil poller as
// a plain sleep.
func newSocketPoller(srv *server.Server) *socketPoller {
	rc, ok := srv.RawConn()
	if !ok {
		return nil
	}

	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		pkg.LogWarn(pkg.ComponentDaemon, "epoll create failed", "err", err)
		return nil
	}

	var ctrlErr error
	err = rc.Control(func(fd uintptr) {
		ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
		ctrlErr = unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, int(fd), &ev)
	})
	if err != nil || ctrlErr != nil {
		pkg.LogWarn(pkg.ComponentDaemon, "epoll ctl add failed", "err", err, "ctrl_err", ctrlErr)
		_ = unix.Close(epfd)
		return nil
	}

	return &socketPoller{epfd: epfd}
}

// Wait blocks up to timeout, returning early if the listening socket
// becomes readable (a client connection is pending). The orchestrator
// always performs its own non-blocking accept afterward regardless of
// why Wait returned.
func (p *socketPoller) Wait(timeout time.Duration) {
	if p == nil {
		time.Sleep(timeout)
		return
	}
	var events [1]unix.EpollEvent
	ms := int(timeout / time.Millisecond)
	if ms < 0 {
		ms = 0
	}
	if _, err := unix.EpollWait(p.epfd, events[:], ms); err != nil && err != unix.EINTR {
		pkg.LogWarn(pkg.ComponentDaemon, "epoll wait failed", "err", err)
	}
}

// Close releases the epoll instance.
func (p *socketPoller) Close() {
	if p == nil {
		return
	}
	_ = unix.Close(p.epfd)
}
