package modern

import (
	"context"
	"errors"
	"fmt"

	serialpkg "github.com/rberger/dough-man/serial"
)

// Operation names one of the commands the CLI can issue.
type Operation string

const (
	OpNone          Operation = ""
	OpReset         Operation = "reset"
	OpMode          Operation = "mode"
	OpGetReturnRate Operation = "get_return_rate"
	OpStream        Operation = "stream"
	OpLStream       Operation = "lstream"
	OpSetReturnRate Operation = "set_return_rate"
)

// OperationChoices are the values accepted by --op. mode and set_return_rate
// are selected by their own flags.
var OperationChoices = []string{string(OpStream), string(OpGetReturnRate), string(OpLStream), string(OpReset)}

var ErrNoOperation = errors.New("no operation specified")

//go:generate mockgen -destination=../internal/mocks/mock_device.go -package=mocks github.com/rberger/dough-man/modern Device

// Device is the sensor command surface the dispatcher drives.
type Device interface {
	Reset() error
	SetSensorMode(mode serialpkg.Mode) error
	GetReturnRate() (serialpkg.ReturnRate, error)
	StreamData(ctx context.Context, fn func(serialpkg.Reading)) error
	LStreamData(ctx context.Context, fn func(serialpkg.Reading)) error
	SetReturnRate(rate serialpkg.ReturnRate) error
}

// Request is a resolved operation with its argument.
type Request struct {
	Op         Operation
	ReturnRate serialpkg.ReturnRate
	Mode       serialpkg.Mode
}

// ResolveOperation validates the raw flag values and picks the operation.
// --mode wins over --return-rate, which wins over --op.
func ResolveOperation(op, returnRate, mode string) (Request, error) {
	var req Request
	if op != "" {
		if !validOp(op) {
			return req, fmt.Errorf("invalid operation %q (choose from %v)", op, OperationChoices)
		}
		req.Op = Operation(op)
	}
	if returnRate != "" {
		r, err := serialpkg.ParseReturnRate(returnRate)
		if err != nil {
			return req, err
		}
		req.ReturnRate = r
		req.Op = OpSetReturnRate
	}
	if mode != "" {
		m, err := serialpkg.ParseMode(mode)
		if err != nil {
			return req, err
		}
		req.Mode = m
		req.Op = OpMode
	}
	if req.Op == OpNone {
		return req, ErrNoOperation
	}
	return req, nil
}

func validOp(op string) bool {
	for _, c := range OperationChoices {
		if c == op {
			return true
		}
	}
	return false
}

// Result carries what an operation reported back.
type Result struct {
	Op         Operation
	ReturnRate serialpkg.ReturnRate
}

// Dispatch issues exactly one device call for req. Streaming operations hand
// each reading to onReading and return when ctx ends.
func Dispatch(ctx context.Context, dev Device, req Request, onReading func(serialpkg.Reading)) (Result, error) {
	res := Result{Op: req.Op}
	if onReading == nil {
		onReading = func(serialpkg.Reading) {}
	}
	var err error
	switch req.Op {
	case OpReset:
		err = dev.Reset()
	case OpMode:
		err = dev.SetSensorMode(req.Mode)
	case OpGetReturnRate:
		res.ReturnRate, err = dev.GetReturnRate()
	case OpStream:
		err = dev.StreamData(ctx, onReading)
	case OpLStream:
		err = dev.LStreamData(ctx, onReading)
	case OpSetReturnRate:
		err = dev.SetReturnRate(req.ReturnRate)
		res.ReturnRate = req.ReturnRate
	default:
		return res, ErrNoOperation
	}
	return res, err
}
