package serial

import (
	"fmt"
	"strconv"
)

// ReturnRate is the sensor measurement output frequency in Hz.
type ReturnRate float64

// ReturnRateChoices lists the rates the sensor firmware accepts, as typed on
// the command line.
var ReturnRateChoices = []string{"0.1", "0.2", "0.5", "1", "2", "5", "10", "20", "50", "100"}

// ParseReturnRate validates s against ReturnRateChoices.
func ParseReturnRate(s string) (ReturnRate, error) {
	for _, c := range ReturnRateChoices {
		if c == s {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return 0, err
			}
			return ReturnRate(f), nil
		}
	}
	return 0, fmt.Errorf("%w: %q (choose from %v)", ErrInvalidReturnRate, s, ReturnRateChoices)
}

// Interval converts the rate to the output interval register value in ms.
func (r ReturnRate) Interval() uint16 {
	if r <= 0 {
		return 0
	}
	return uint16(1000/float64(r) + 0.5)
}

func (r ReturnRate) String() string {
	return strconv.FormatFloat(float64(r), 'f', -1, 64)
}

// ReturnRateFromInterval is the inverse of Interval.
func ReturnRateFromInterval(ms uint16) ReturnRate {
	if ms == 0 {
		return 0
	}
	return ReturnRate(float64(int(10000/float64(ms)+0.5)) / 10)
}

// Mode is the sensor communication interface.
type Mode string

const (
	ModeSerial Mode = "serial"
	ModeModbus Mode = "modbus"
	ModeIIC    Mode = "iic"
)

// ModeChoices lists the accepted --mode values.
var ModeChoices = []string{string(ModeSerial), string(ModeModbus), string(ModeIIC)}

// ParseMode validates s against ModeChoices.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSerial, ModeModbus, ModeIIC:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: %q (choose from %v)", ErrInvalidMode, s, ModeChoices)
}

func (m Mode) register() (uint16, error) {
	switch m {
	case ModeSerial:
		return 0, nil
	case ModeModbus:
		return 1, nil
	case ModeIIC:
		return 2, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, string(m))
}
