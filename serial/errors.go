package serial

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidReturnRate = errors.New("invalid return rate")
	ErrInvalidMode       = errors.New("invalid mode")
	ErrTimeout           = errors.New("timed out waiting for sensor")
	ErrBadCRC            = errors.New("bad frame checksum")
	ErrShortFrame        = errors.New("short frame")
	ErrUnexpectedFrame   = errors.New("unexpected frame")
	ErrClosed            = errors.New("connection closed")
	ErrNoPorts           = errors.New("no serial ports found")
)

// ExceptionError is a Modbus exception response from the sensor.
type ExceptionError struct {
	Function byte
	Code     byte
}

func (e *ExceptionError) Error() string {
	return fmt.Sprintf("sensor exception 0x%02X on function 0x%02X", e.Code, e.Function)
}
