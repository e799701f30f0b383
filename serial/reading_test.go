package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReading(t *testing.T) {
	cases := []struct {
		line string
		want Reading
		ok   bool
	}{
		{"d: 123 mm", Reading{123, "mm"}, true},
		{"d: 123 mm\r", Reading{123, "mm"}, true},
		{"Distance: 12.5 cm", Reading{12.5, "cm"}, true},
		{"456mm", Reading{456, "mm"}, true},
		{"D:7 MM", Reading{7, "mm"}, true},
		{"State;0 , Range Valid", Reading{}, false},
		{"", Reading{}, false},
		{"d: mm", Reading{}, false},
	}
	for _, c := range cases {
		got, ok := ParseReading(c.line)
		assert.Equal(t, c.ok, ok, c.line)
		assert.Equal(t, c.want, got, c.line)
	}
}

func TestReadingString(t *testing.T) {
	assert.Equal(t, "Distance: 123 mm", Reading{123, "mm"}.String())
	assert.Equal(t, "Distance: 12.5 cm", Reading{12.5, "cm"}.String())
}

func TestParseReturnRate(t *testing.T) {
	for _, c := range ReturnRateChoices {
		_, err := ParseReturnRate(c)
		require.NoError(t, err, c)
	}
	_, err := ParseReturnRate("3")
	assert.ErrorIs(t, err, ErrInvalidReturnRate)
}

func TestReturnRateInterval(t *testing.T) {
	for _, c := range ReturnRateChoices {
		r, err := ParseReturnRate(c)
		require.NoError(t, err)
		assert.Equal(t, r, ReturnRateFromInterval(r.Interval()), c)
	}
	assert.Equal(t, uint16(10000), ReturnRate(0.1).Interval())
	assert.Equal(t, uint16(10), ReturnRate(100).Interval())
	assert.Equal(t, uint16(0), ReturnRate(0).Interval())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("modbus")
	require.NoError(t, err)
	assert.Equal(t, ModeModbus, m)

	_, err = ParseMode("usb")
	assert.ErrorIs(t, err, ErrInvalidMode)
}
