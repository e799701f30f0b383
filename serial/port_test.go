package serial

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTestPort(t *testing.T) {
	fp := &fakePort{respond: echoSensor(map[uint16]uint16{RegDistance: 250})}
	useFakePort(t, fp)
	assert.True(t, TestPort("/dev/ttyUSB0", 115200))
	assert.Equal(t, [][]byte{ReadRequest(RegDistance)}, fp.written())

	silent := &fakePort{}
	useFakePort(t, silent)
	assert.False(t, TestPort("/dev/ttyUSB0", 115200))

	Opener = func(string, int, time.Duration) (Port, error) { return nil, errors.New("busy") }
	assert.False(t, TestPort("/dev/ttyUSB0", 115200))
}

func TestMatchAny(t *testing.T) {
	assert.True(t, matchAny("/dev/ttyUSB3", DefaultPortPatterns))
	assert.True(t, matchAny("/dev/tty.usbserial-A10", DefaultPortPatterns))
	assert.True(t, matchAny("COM4", DefaultPortPatterns))
	assert.False(t, matchAny("/dev/ttyS0", DefaultPortPatterns))
	assert.True(t, matchAny("/dev/ttyS0", nil))
}
