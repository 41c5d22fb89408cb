package server

import (
	"bufio"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/ardnew/deckd/internal/page"
	"github.com/ardnew/deckd/internal/proto"
	"github.com/ardnew/deckd/pkg"
)

// maxCommandLine bounds a single command line, matching the spec's
// "inputs are small (<=2 KiB)" concurrency note.
const maxCommandLine = 2048

// maxLabelStyleFile bounds the label-style payload read from disk.
const maxLabelStyleFile = 4096

// Responses are fixed ASCII lines.
const (
	respOK       = "ok"
	respErr      = "err"
	respNoDevice = "err no_device"
)

// Handler is implemented by the daemon orchestrator and executes the
// effect of each command verb. Handler methods are called from the
// single event-loop goroutine; implementations must not block.
type Handler interface {
	DevicePresent() bool
	SetBrightness(n int) error
	SetSmallWindow(mode, cpuPct, memPct int, clock string, gpuPct int) error
	SetLabelStyle(data []byte) error
	SetButtonsFile(path string) error
	ApplyPage(icons []page.Icon, cmd uint16) error
	Subscribe(conn net.Conn)
}

// Dispatch reads one newline-terminated command from conn and executes
// it against h, writing a response line. It returns true if conn was
// retained as the button-event subscriber (the read-buttons command),
// in which case the caller must not close conn.
func Dispatch(conn net.Conn, h Handler) bool {
	line, err := readCommandLine(conn)
	if err != nil {
		pkg.LogWarn(pkg.ComponentServer, "read command failed", "err", err)
		return false
	}

	verb, rest := splitVerb(line)

	if verb == "read-buttons" {
		h.Subscribe(conn)
		return true
	}
	if verb == "ping" {
		if h.DevicePresent() {
			writeLine(conn, respOK)
		} else {
			writeLine(conn, respNoDevice)
		}
		return false
	}

	if !h.DevicePresent() {
		writeLine(conn, respNoDevice)
		return false
	}

	var result error
	switch verb {
	case "set-brightness":
		result = dispatchBrightness(h, rest)
	case "set-small-window":
		result = dispatchSmallWindow(h, rest)
	case "set-label-style":
		result = dispatchLabelStyle(h, rest)
	case "set-buttons":
		result = h.SetButtonsFile(strings.TrimSpace(rest))
	case "set-buttons-explicit":
		result = dispatchExplicit(h, rest, 1, 13, proto.CmdFullPage)
	case "set-buttons-explicit-14":
		result = dispatchExplicit(h, rest, 1, 14, proto.CmdFullPage)
	case "set-partial-explicit":
		result = dispatchExplicit(h, rest, 1, 13, proto.CmdPartialPage)
	default:
		result = errUnknownCommand
	}

	if result != nil {
		writeLine(conn, respErr)
	} else {
		writeLine(conn, respOK)
	}
	return false
}

var errUnknownCommand = pkg.ErrNotSupported

func readCommandLine(conn net.Conn) (string, error) {
	r := bufio.NewReaderSize(io.LimitReader(conn, maxCommandLine), maxCommandLine)
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func writeLine(conn net.Conn, line string) {
	if _, err := conn.Write([]byte(line + "\n")); err != nil {
		pkg.LogWarn(pkg.ComponentServer, "write response failed", "err", err)
	}
	_ = conn.Close()
}

func splitVerb(line string) (verb, rest string) {
	line = strings.TrimSpace(line)
	i := strings.IndexByte(line, ' ')
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}

func dispatchBrightness(h Handler, rest string) error {
	n, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return pkg.ErrInvalidParameter
	}
	if n < 0 {
		n = 0
	}
	if n > 100 {
		n = 100
	}
	return h.SetBrightness(n)
}

func dispatchSmallWindow(h Handler, rest string) error {
	fields := strings.Fields(rest)
	if len(fields) != 5 {
		return pkg.ErrInvalidParameter
	}
	mode, err := strconv.Atoi(fields[0])
	if err != nil {
		return pkg.ErrInvalidParameter
	}
	cpuPct, err := strconv.Atoi(fields[1])
	if err != nil {
		return pkg.ErrInvalidParameter
	}
	memPct, err := strconv.Atoi(fields[2])
	if err != nil {
		return pkg.ErrInvalidParameter
	}
	clock := fields[3]
	gpuPct, err := strconv.Atoi(fields[4])
	if err != nil {
		return pkg.ErrInvalidParameter
	}
	return h.SetSmallWindow(mode, cpuPct, memPct, clock, gpuPct)
}

func dispatchLabelStyle(h Handler, rest string) error {
	path := strings.TrimSpace(rest)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() > maxLabelStyleFile {
		return pkg.ErrInvalidParameter
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return pkg.ErrInvalidParameter
	}
	return h.SetLabelStyle(data)
}

// dispatchExplicit parses "--button-N=path [--label-N=text] ..." flags
// for N in [minIndex, maxIndex] (1-based on the wire, 0-based
// internally), builds the icon list, and applies it via cmd.
func dispatchExplicit(h Handler, rest string, minIndex, maxIndex int, cmd uint16) error {
	type pending struct {
		path  string
		label string
		has   bool
	}
	slots := make([]pending, maxIndex+1) // 1-based

	for _, tok := range strings.Fields(rest) {
		if !strings.HasPrefix(tok, "--") {
			continue
		}
		kv := strings.SplitN(tok[2:], "=", 2)
		if len(kv) != 2 {
			continue
		}
		key, val := kv[0], kv[1]

		if strings.HasPrefix(key, "button-") {
			n, err := strconv.Atoi(strings.TrimPrefix(key, "button-"))
			if err != nil || n < minIndex || n > maxIndex {
				continue
			}
			slots[n].path = val
			slots[n].has = true
		} else if strings.HasPrefix(key, "label-") {
			n, err := strconv.Atoi(strings.TrimPrefix(key, "label-"))
			if err != nil || n < minIndex || n > maxIndex {
				continue
			}
			slots[n].label = val
		}
	}

	var icons []page.Icon
	for n := minIndex; n <= maxIndex; n++ {
		if !slots[n].has {
			continue
		}
		data, err := os.ReadFile(slots[n].path)
		if err != nil {
			continue
		}
		icons = append(icons, page.Icon{
			Index: n - 1,
			Name:  iconFileName(n, slots[n].path),
			Label: slots[n].label,
			Data:  data,
		})
	}

	if len(icons) == 0 {
		return pkg.ErrInvalidParameter
	}
	return h.ApplyPage(icons, cmd)
}

func iconFileName(n int, path string) string {
	base := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		base = path[i+1:]
	}
	return strconv.Itoa(n) + "_" + base
}
