package serial

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRequestKnownFrame(t *testing.T) {
	assert.Equal(t, []byte{0x01, 0x03, 0x00, 0x00, 0x00, 0x01, 0x84, 0x0A}, ReadRequest(0x0000))
}

func TestDecodeReadResponse(t *testing.T) {
	v, err := DecodeReadResponse(ReadResponse(1234))
	require.NoError(t, err)
	assert.Equal(t, uint16(1234), v)
}

func TestDecodeReadResponseBadCRC(t *testing.T) {
	resp := ReadResponse(1234)
	resp[len(resp)-1] ^= 0xFF
	_, err := DecodeReadResponse(resp)
	assert.ErrorIs(t, err, ErrBadCRC)
}

func TestDecodeReadResponseShort(t *testing.T) {
	_, err := DecodeReadResponse([]byte{0x01, 0x03})
	assert.ErrorIs(t, err, ErrShortFrame)
}

func TestDecodeException(t *testing.T) {
	_, err := DecodeReadResponse(ExceptionResponse(funcReadHolding, 0x02))
	var exc *ExceptionError
	require.True(t, errors.As(err, &exc))
	assert.Equal(t, byte(0x02), exc.Code)
	assert.Equal(t, byte(funcReadHolding), exc.Function)
}

func TestDecodeWriteResponse(t *testing.T) {
	req := WriteRequest(RegInterval, 100)
	assert.NoError(t, DecodeWriteResponse(req, req))

	other := WriteRequest(RegInterval, 200)
	assert.ErrorIs(t, DecodeWriteResponse(req, other), ErrUnexpectedFrame)
}

func TestWrongFunctionRejected(t *testing.T) {
	_, err := DecodeReadResponse(WriteRequest(RegMode, 1))
	assert.ErrorIs(t, err, ErrUnexpectedFrame)
}
