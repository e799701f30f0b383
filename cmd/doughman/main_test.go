package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serialpkg "github.com/rberger/dough-man/serial"
)

// sensorPort answers Modbus requests like the sensor and can replay ASCII
// output for streaming.
type sensorPort struct {
	mu     sync.Mutex
	rx     bytes.Buffer
	writes [][]byte
	regs   map[uint16]uint16
}

func (s *sensorPort) Read(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rx.Len() == 0 {
		return 0, io.EOF
	}
	return s.rx.Read(b)
}

func (s *sensorPort) Write(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, append([]byte(nil), b...))
	switch b[1] {
	case 0x06:
		s.rx.Write(b)
	case 0x03:
		reg := uint16(b[2])<<8 | uint16(b[3])
		s.rx.Write(serialpkg.ReadResponse(s.regs[reg]))
	}
	return len(b), nil
}

func (s *sensorPort) Flush() error { return nil }
func (s *sensorPort) Close() error { return nil }

func withSensor(t *testing.T, sp *sensorPort) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	prev := serialpkg.Opener
	serialpkg.Opener = func(string, int, time.Duration) (serialpkg.Port, error) { return sp, nil }
	t.Cleanup(func() { serialpkg.Opener = prev })
}

func execute(ctx context.Context, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestNoOperationFails(t *testing.T) {
	withSensor(t, &sensorPort{})
	_, err := execute(context.Background(), "--serial-port", "/dev/fake")
	require.Error(t, err)
	var le loggedError
	assert.True(t, errors.As(err, &le))
	assert.Equal(t, "No operation specified. Exiting.", err.Error())
}

func TestInvalidChoicesFail(t *testing.T) {
	withSensor(t, &sensorPort{})
	_, err := execute(context.Background(), "--return-rate", "3")
	assert.ErrorContains(t, err, "invalid return rate")

	_, err = execute(context.Background(), "--mode", "usb")
	assert.ErrorContains(t, err, "invalid mode")

	_, err = execute(context.Background(), "--op", "explode")
	assert.ErrorContains(t, err, "invalid operation")
}

func TestInitFailure(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	prev := serialpkg.Opener
	serialpkg.Opener = func(string, int, time.Duration) (serialpkg.Port, error) {
		return nil, errors.New("no such file or directory")
	}
	t.Cleanup(func() { serialpkg.Opener = prev })

	_, err := execute(context.Background(), "--op", "reset")
	assert.ErrorContains(t, err, "Error initializing RangeFinder")
}

func TestGetReturnRate(t *testing.T) {
	sp := &sensorPort{regs: map[uint16]uint16{serialpkg.RegInterval: 100}}
	withSensor(t, sp)

	out, err := execute(context.Background(), "--op", "get_return_rate")
	require.NoError(t, err)
	assert.Contains(t, out, "Return rate: 10 Hz")
	assert.Len(t, sp.writes, 1)
}

func TestReset(t *testing.T) {
	sp := &sensorPort{}
	withSensor(t, sp)

	out, err := execute(context.Background(), "--op", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Sensor reset")
	assert.Equal(t, [][]byte{serialpkg.WriteRequest(serialpkg.RegSpecial, 1)}, sp.writes)
}

func TestModeWinsOverOp(t *testing.T) {
	sp := &sensorPort{}
	withSensor(t, sp)

	out, err := execute(context.Background(), "--op", "reset", "--return-rate", "5", "--mode", "modbus")
	require.NoError(t, err)
	assert.Contains(t, out, "Sensor mode set to modbus")
	assert.Equal(t, [][]byte{serialpkg.WriteRequest(serialpkg.RegMode, 1)}, sp.writes)
}

func TestSetReturnRate(t *testing.T) {
	sp := &sensorPort{}
	withSensor(t, sp)

	out, err := execute(context.Background(), "--return-rate", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "Return rate set to 20 Hz")
	assert.Equal(t, [][]byte{serialpkg.WriteRequest(serialpkg.RegInterval, 50)}, sp.writes)
}

func TestStreamUntilCancelled(t *testing.T) {
	sp := &sensorPort{}
	sp.rx.WriteString("d: 120 mm\r\nd: 119 mm\r\n")
	withSensor(t, sp)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	out, err := execute(ctx, "--op", "stream")
	require.NoError(t, err)
	assert.Contains(t, out, "Distance: 120 mm")
	assert.Contains(t, out, "Distance: 119 mm")
}
