package serial

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	goserial "github.com/tarm/serial"
	"go.bug.st/serial/enumerator"
)

// Port is the subset of a serial port the sensor handles need.
type Port interface {
	io.ReadWriteCloser
	Flush() error
}

// Opener opens a serial port. Tests replace it with an in-memory port.
var Opener = OpenPort

// OpenPort opens name at baud, 8N1. A zero readTimeout blocks reads until
// at least one byte arrives.
func OpenPort(name string, baud int, readTimeout time.Duration) (Port, error) {
	config := &goserial.Config{
		Name:        name,
		Baud:        baud,
		Parity:      goserial.ParityNone,
		Size:        8,
		StopBits:    goserial.Stop1,
		ReadTimeout: readTimeout,
	}
	p, err := goserial.OpenPort(config)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DefaultPortPatterns matches the USB-serial adapters the sensor ships with.
var DefaultPortPatterns = []string{"/dev/cu.usbserial*", "/dev/tty.usbserial*", "/dev/ttyUSB*", "/dev/ttyACM*", "COM*"}

// ListPorts returns the serial ports whose names match any of patterns, or
// every port when no pattern is given.
func ListPorts(patterns ...string) []string {
	names := enumeratePorts()
	out := make([]string, 0, len(names))
	for _, n := range names {
		if matchAny(n, patterns) {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

func enumeratePorts() []string {
	details, err := enumerator.GetDetailedPortsList()
	if err == nil && len(details) > 0 {
		names := make([]string, 0, len(details))
		for _, d := range details {
			names = append(names, d.Name)
		}
		return names
	}
	if runtime.GOOS == "windows" {
		return nil
	}
	// Unix-like: try common device paths.
	names := make([]string, 0, 32)
	for _, pat := range []string{"/dev/ttyUSB*", "/dev/ttyACM*", "/dev/ttyS*", "/dev/cu.*", "/dev/tty.*"} {
		matches, _ := filepath.Glob(pat)
		for _, m := range matches {
			if _, err := os.Stat(m); err == nil {
				names = append(names, m)
			}
		}
	}
	return names
}

func matchAny(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}

// AutoDetectPort probes candidate ports for a sensor answering a distance read.
func AutoDetectPort(baud int) string {
	for _, name := range ListPorts(DefaultPortPatterns...) {
		if TestPort(name, baud) {
			return name
		}
	}
	return ""
}

// TestPort tries to open the port and read the distance register.
func TestPort(name string, baud int) bool {
	p, err := Opener(name, baud, 300*time.Millisecond)
	if err != nil {
		return false
	}
	defer func() { _ = p.Close() }()

	resp, err := transact(p, ReadRequest(RegDistance), readResponseLen, 300*time.Millisecond)
	if err != nil {
		return false
	}
	_, err = DecodeReadResponse(resp)
	return err == nil
}
