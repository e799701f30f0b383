package serial

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const asyncReadTimeout = 200 * time.Millisecond

// AsyncAccess polls distance readings from a sensor in serial (ASCII) mode.
// A single goroutine reads the port; GetDistance hands out readings in order.
type AsyncAccess struct {
	name string
	baud int
	log  *zap.Logger

	mu       sync.Mutex
	port     Port
	readings chan Reading
	done     chan struct{}
	err      error
	closeErr error
	cancel   context.CancelFunc
}

func NewAsyncAccess(name string, baud int, log *zap.Logger) *AsyncAccess {
	if log == nil {
		log = zap.NewNop()
	}
	return &AsyncAccess{name: name, baud: baud, log: log.Named("async")}
}

// OpenConnection opens the port and starts the reader goroutine. The reader
// owns the port and closes it when ctx ends, Close is called, or a read fails.
func (a *AsyncAccess) OpenConnection(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.port != nil {
		return nil
	}
	if a.cancel != nil {
		a.cancel()
	}
	if a.name == "" {
		return fmt.Errorf("serial port not set")
	}
	p, err := Opener(a.name, a.baud, asyncReadTimeout)
	if err != nil {
		return fmt.Errorf("open %s: %w", a.name, err)
	}
	ctx, cancel := context.WithCancel(ctx)
	a.port = p
	a.cancel = cancel
	a.readings = make(chan Reading, 16)
	a.done = make(chan struct{})
	a.err = nil
	a.log.Debug("connection opened", zap.String("port", a.name), zap.Int("baud", a.baud))
	go a.run(ctx, p, a.readings, a.done)
	return nil
}

func (a *AsyncAccess) run(ctx context.Context, p Port, out chan<- Reading, done chan struct{}) {
	defer close(done)
	defer func() {
		err := p.Close()
		a.mu.Lock()
		a.closeErr = err
		if a.port == p {
			a.port = nil
		}
		a.mu.Unlock()
	}()
	lr := newLineReader(p)
	for {
		r, err := lr.nextReading(ctx, func(line string) {
			a.log.Debug("skipped line", zap.String("line", line))
		})
		if err != nil {
			a.mu.Lock()
			if ctx.Err() != nil {
				a.err = ErrClosed
			} else {
				a.err = err
			}
			a.mu.Unlock()
			return
		}
		select {
		case out <- r:
		case <-ctx.Done():
		}
	}
}

// GetDistance waits for the next reading.
func (a *AsyncAccess) GetDistance(ctx context.Context) (Reading, error) {
	a.mu.Lock()
	readings, done := a.readings, a.done
	a.mu.Unlock()
	if readings == nil {
		return Reading{}, ErrClosed
	}
	select {
	case r := <-readings:
		return r, nil
	case <-done:
		select {
		case r := <-readings:
			return r, nil
		default:
		}
		a.mu.Lock()
		err := a.err
		a.mu.Unlock()
		return Reading{}, err
	case <-ctx.Done():
		return Reading{}, ctx.Err()
	}
}

// Close stops the reader and waits for it to release the port.
func (a *AsyncAccess) Close() error {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.port = nil
	a.cancel = nil
	a.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closeErr
}
