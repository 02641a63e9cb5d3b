// Package host connects the decoders and encoders to a Linux machine: GPIO
// lines through the kernel character device or periph.io, and edge captures
// recorded by a logic sampler and streamed over a serial port.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/womat/debug"
	"go.bug.st/serial"

	"github.com/sparques/rcpulse"
)

// ErrBadCapture is returned for capture lines that cannot be parsed.
var ErrBadCapture = errors.New("malformed capture line")

// Edge is one level change of a captured signal.
type Edge struct {
	High bool
	// At is the time of the edge since the start of the capture.
	At time.Duration
}

// ParseEdge parses a capture line of the form "<level> <microseconds>",
// level being 0 or 1.
func ParseEdge(line string) (Edge, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Edge{}, fmt.Errorf("%q: %w", line, ErrBadCapture)
	}

	var e Edge
	switch fields[0] {
	case "0":
	case "1":
		e.High = true
	default:
		return Edge{}, fmt.Errorf("level %q: %w", fields[0], ErrBadCapture)
	}

	us, err := strconv.ParseUint(fields[1], 10, 63)
	if err != nil {
		return Edge{}, fmt.Errorf("time %q: %w", fields[1], ErrBadCapture)
	}
	e.At = time.Duration(us) * time.Microsecond
	return e, nil
}

// Replay feeds the edges read from r to h, stamping clock with the time of
// each edge first. Empty lines and lines starting with # are skipped.
// It returns the number of edges delivered.
func Replay(r io.Reader, clock *rcpulse.StampClock, h rcpulse.EdgeHandler) (int, error) {
	scanner := bufio.NewScanner(r)
	n := 0
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		e, err := ParseEdge(text)
		if err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		clock.Stamp(e.At)
		h.PinChanged(e.High)
		n++
	}
	if err := scanner.Err(); err != nil {
		return n, err
	}
	debug.DebugLog.Printf("replayed %d edges from %d lines\n", n, line)
	return n, nil
}

// OpenCapture opens the serial port a logic sampler streams its capture on.
// An empty port name picks the most recently connected port.
func OpenCapture(port string, baud int) (serial.Port, error) {
	if port == "" {
		ports, err := serial.GetPortsList()
		if err != nil {
			return nil, err
		}
		if len(ports) == 0 {
			return nil, errors.New("no serial ports found")
		}
		port = ports[len(ports)-1]
	}

	debug.TraceLog.Printf("opening %s at %d baud\n", port, baud)
	p, err := serial.Open(port, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", port, err)
	}
	debug.InfoLog.Printf("capturing from %s\n", port)
	return p, nil
}
