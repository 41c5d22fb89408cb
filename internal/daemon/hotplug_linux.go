//go:build linux

package daemon

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/ardnew/deckd/internal/transport"
	"github.com/ardnew/deckd/pkg"
)

// ueventBufferSize bounds a single netlink uevent read, matching the
// teacher's host/hal/linux/hotplug.go sizing.
const ueventBufferSize = 4096

// reconnectHint is a best-effort udev hotplug signal that lets the
// reconnect loop skip ahead of its 500ms poll backoff when the kernel
// announces our fixed vendor/product pair. It is purely a latency
// optimization (spec.md §7/SPEC_FULL.md §7): the poll loop is always
// the correctness backstop, since uevents can be missed or unavailable
// (e.g. inside a container without netlink access).
type reconnectHint struct {
	fd      int
	buf     [ueventBufferSize]byte
	matchID string
}

// newReconnectHint opens a netlink kobject-uevent socket, adapted from
// the teacher's hotplugMonitor onto golang.org/x/sys/unix. It returns
// nil if the socket cannot be created or bound (e.g. insufficient
// privilege), in which case the reconnect loop falls back to pure
// polling.
func newReconnectHint() *reconnectHint {
	fd, err := unix.Socket(unix.AF_NETLINK,
		unix.SOCK_DGRAM|unix.SOCK_CLOEXEC|unix.SOCK_NONBLOCK,
		unix.NETLINK_KOBJECT_UEVENT)
	if err != nil {
		pkg.LogWarn(pkg.ComponentDaemon, "hotplug socket unavailable", "err", err)
		return nil
	}

	addr := &unix.SockaddrNetlink{Family: unix.AF_NETLINK, Groups: 1}
	if err := unix.Bind(fd, addr); err != nil {
		pkg.LogWarn(pkg.ComponentDaemon, "hotplug bind failed", "err", err)
		_ = unix.Close(fd)
		return nil
	}

	return &reconnectHint{
		fd:      fd,
		matchID: fmt.Sprintf("%04x:%04x", transport.VendorID, transport.ProductID),
	}
}

// Pending drains any queued uevents and reports whether one plausibly
// matches our device (an "add" or "bind" event naming both our vendor
// and product ID, or any usb_device add/bind event when IDs are unavailable on
// the uevent itself and must be re-read from sysfs by the reconnect
// attempt instead).
func (h *reconnectHint) Pending() bool {
	if h == nil {
		return false
	}
	found := false
	for {
		n, err := unix.Read(h.fd, h.buf[:])
		if err != nil {
			break
		}
		if n <= 0 {
			break
		}
		if h.matches(h.buf[:n]) {
			found = true
		}
	}
	return found
}

// matches reports whether a raw uevent names a usb_device add/bind
// action and, when vendor/product fields are present, whether they
// match our fixed pair.
func (h *reconnectHint) matches(data []byte) bool {
	action, subsystem, devtype := "", "", ""
	vendor, product := "", ""

	for _, line := range bytes.Split(data, []byte{0}) {
		s := string(line)
		idx := strings.IndexByte(s, '=')
		if idx < 0 {
			continue
		}
		key, value := s[:idx], s[idx+1:]
		switch key {
		case "ACTION":
			action = value
		case "SUBSYSTEM":
			subsystem = value
		case "DEVTYPE":
			devtype = value
		case "ID_VENDOR_ID":
			vendor = strings.ToLower(value)
		case "ID_MODEL_ID":
			product = strings.ToLower(value)
		}
	}

	if subsystem != "usb" || devtype != "usb_device" {
		return false
	}
	if action != "add" && action != "bind" {
		return false
	}
	if vendor == "" && product == "" {
		return true
	}
	want := strings.SplitN(h.matchID, ":", 2)
	return vendor == want[0] && product == want[1]
}

// Close releases the netlink socket.
func (h *reconnectHint) Close() {
	if h == nil {
		return
	}
	_ = unix.Close(h.fd)
}
