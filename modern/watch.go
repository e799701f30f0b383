package modern

import (
	"context"
	"errors"

	serialpkg "github.com/rberger/dough-man/serial"
)

// WaitingText is shown until the first reading arrives.
const WaitingText = "Waiting for data..."

// ReadingSource yields readings one at a time, blocking until the next.
type ReadingSource interface {
	GetDistance(ctx context.Context) (serialpkg.Reading, error)
}

// Watch awaits readings from src and hands each one to onReading exactly
// once, in arrival order. It returns nil when ctx ends.
func Watch(ctx context.Context, src ReadingSource, onReading func(serialpkg.Reading)) error {
	for {
		r, err := src.GetDistance(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, serialpkg.ErrClosed) {
				return nil
			}
			return err
		}
		onReading(r)
	}
}
