// Package server implements the local command socket: clients connect,
// send one newline-terminated command, and receive a single response
// line, except for the read-buttons subscription which keeps its
// connection open as the button-event stream.
package server

import (
	"net"
	"os"
	"syscall"
	"time"

	"github.com/ardnew/deckd/pkg"
)

// acceptPollInterval bounds how long a single Accept call blocks before
// the orchestrator's non-blocking accept step gives up for this tick.
const acceptPollInterval = 1 * time.Millisecond

// Server owns the bound Unix stream socket.
type Server struct {
	path string
	ln   *net.UnixListener
}

// New returns an unbound server for the given socket path.
func New(path string) *Server {
	return &Server{path: path}
}

// Listen binds the socket, removing any stale file left from a prior
// run (e.g. an unclean shutdown).
func (s *Server) Listen() error {
	_ = os.Remove(s.path)

	addr, err := net.ResolveUnixAddr("unix", s.path)
	if err != nil {
		return err
	}
	ln, err := net.ListenUnix("unix", addr)
	if err != nil {
		return err
	}
	s.ln = ln
	pkg.LogInfo(pkg.ComponentServer, "listening", "path", s.path)
	return nil
}

// Accept performs one non-blocking accept attempt: it returns ok=false
// if no client connection arrived within acceptPollInterval, which is
// how the orchestrator's single-threaded loop multiplexes accepts with
// everything else without spawning a goroutine.
func (s *Server) Accept() (net.Conn, bool) {
	if s.ln == nil {
		return nil, false
	}
	if err := s.ln.SetDeadline(time.Now().Add(acceptPollInterval)); err != nil {
		pkg.LogWarn(pkg.ComponentServer, "set accept deadline failed", "err", err)
	}
	conn, err := s.ln.Accept()
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, false
		}
		pkg.LogWarn(pkg.ComponentServer, "accept error", "err", err)
		return nil, false
	}
	return conn, true
}

// RawConn exposes the listening socket's syscall.RawConn so the
// orchestrator can register its file descriptor with an OS-level
// multiplexer (see internal/daemon's epoll-based wait step). It returns
// false if the server is not yet listening.
func (s *Server) RawConn() (syscall.RawConn, bool) {
	if s.ln == nil {
		return nil, false
	}
	rc, err := s.ln.SyscallConn()
	if err != nil {
		return nil, false
	}
	return rc, true
}

// Close closes the listener and unlinks the socket path.
func (s *Server) Close() {
	if s.ln != nil {
		_ = s.ln.Close()
	}
	_ = os.Remove(s.path)
}
