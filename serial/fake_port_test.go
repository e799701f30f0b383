package serial

import (
	"bytes"
	"io"
	"os"
	"sync"
	"testing"
	"time"
)

// fakePort simulates the sensor end of a serial link. Reads with nothing
// buffered behave like a read timeout.
type fakePort struct {
	mu      sync.Mutex
	rx      bytes.Buffer
	writes  [][]byte
	respond func(req []byte) []byte
	closed  bool
}

func (f *fakePort) Read(b []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, os.ErrClosed
	}
	if f.rx.Len() == 0 {
		return 0, io.EOF
	}
	return f.rx.Read(b)
}

func (f *fakePort) Write(b []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, os.ErrClosed
	}
	f.writes = append(f.writes, append([]byte(nil), b...))
	if f.respond != nil {
		f.rx.Write(f.respond(b))
	}
	return len(b), nil
}

func (f *fakePort) Flush() error { return nil }

func (f *fakePort) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakePort) feed(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rx.WriteString(s)
}

func (f *fakePort) written() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.writes...)
}

// useFakePort routes Opener to fp for the duration of the test.
func useFakePort(t *testing.T, fp *fakePort) {
	t.Helper()
	prev := Opener
	Opener = func(string, int, time.Duration) (Port, error) { return fp, nil }
	t.Cleanup(func() { Opener = prev })
}

// echoSensor answers writes with an echo and reads with the value in regs.
func echoSensor(regs map[uint16]uint16) func([]byte) []byte {
	return func(req []byte) []byte {
		switch req[1] {
		case funcWriteSingle:
			return req
		case funcReadHolding:
			reg := uint16(req[2])<<8 | uint16(req[3])
			v, ok := regs[reg]
			if !ok {
				return ExceptionResponse(funcReadHolding, 0x02)
			}
			return ReadResponse(v)
		}
		return nil
	}
}
