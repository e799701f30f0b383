package serial

import (
	"encoding/binary"
	"fmt"
)

const (
	slaveAddress = 0x01

	funcReadHolding  = 0x03
	funcWriteSingle  = 0x06
	exceptionFlag    = 0x80
	readResponseLen  = 7 // addr func count hi lo crc crc
	writeResponseLen = 8 // echo of the request
	exceptionLen     = 5 // addr func|0x80 code crc crc
)

// Sensor registers.
const (
	RegSpecial  uint16 = 0x0001
	RegInterval uint16 = 0x0005
	RegMode     uint16 = 0x0009
	RegDistance uint16 = 0x0010

	specialReboot uint16 = 0x0001
)

// CRC16 computes the Modbus RTU checksum.
func CRC16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b)
		for i := 0; i < 8; i++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ 0xA001
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}

func appendCRC(frame []byte) []byte {
	return binary.LittleEndian.AppendUint16(frame, CRC16(frame))
}

// ReadRequest builds a read-holding-registers request for a single register.
func ReadRequest(reg uint16) []byte {
	f := []byte{slaveAddress, funcReadHolding, 0, 0, 0, 1}
	binary.BigEndian.PutUint16(f[2:], reg)
	return appendCRC(f)
}

// WriteRequest builds a write-single-register request.
func WriteRequest(reg, val uint16) []byte {
	f := []byte{slaveAddress, funcWriteSingle, 0, 0, 0, 0}
	binary.BigEndian.PutUint16(f[2:], reg)
	binary.BigEndian.PutUint16(f[4:], val)
	return appendCRC(f)
}

// checkFrame validates address, checksum and exception flag of a response to fn.
func checkFrame(fn byte, resp []byte) error {
	if len(resp) < exceptionLen {
		return fmt.Errorf("%w: %d bytes", ErrShortFrame, len(resp))
	}
	body := resp[:len(resp)-2]
	if got, want := binary.LittleEndian.Uint16(resp[len(resp)-2:]), CRC16(body); got != want {
		return fmt.Errorf("%w: got %04X want %04X", ErrBadCRC, got, want)
	}
	if resp[0] != slaveAddress {
		return fmt.Errorf("%w: address 0x%02X", ErrUnexpectedFrame, resp[0])
	}
	if resp[1] == fn|exceptionFlag {
		return &ExceptionError{Function: fn, Code: resp[2]}
	}
	if resp[1] != fn {
		return fmt.Errorf("%w: function 0x%02X", ErrUnexpectedFrame, resp[1])
	}
	return nil
}

// DecodeReadResponse returns the register value carried by a read response.
func DecodeReadResponse(resp []byte) (uint16, error) {
	if err := checkFrame(funcReadHolding, resp); err != nil {
		return 0, err
	}
	if len(resp) != readResponseLen || resp[2] != 2 {
		return 0, fmt.Errorf("%w: read response of %d bytes", ErrUnexpectedFrame, len(resp))
	}
	return binary.BigEndian.Uint16(resp[3:5]), nil
}

// DecodeWriteResponse checks that resp echoes req.
func DecodeWriteResponse(req, resp []byte) error {
	if err := checkFrame(funcWriteSingle, resp); err != nil {
		return err
	}
	if len(resp) != writeResponseLen {
		return fmt.Errorf("%w: write response of %d bytes", ErrUnexpectedFrame, len(resp))
	}
	for i := range req {
		if req[i] != resp[i] {
			return fmt.Errorf("%w: write echo mismatch at byte %d", ErrUnexpectedFrame, i)
		}
	}
	return nil
}

// ReadResponse builds the response a sensor sends for a single-register read.
// Used by simulators and tests.
func ReadResponse(val uint16) []byte {
	f := []byte{slaveAddress, funcReadHolding, 2, 0, 0}
	binary.BigEndian.PutUint16(f[3:], val)
	return appendCRC(f)
}

// ExceptionResponse builds a Modbus exception frame for fn.
func ExceptionResponse(fn, code byte) []byte {
	return appendCRC([]byte{slaveAddress, fn | exceptionFlag, code})
}
