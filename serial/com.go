package serial

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// transact writes req and collects a response of want bytes, or a shorter
// exception frame, before timeout elapses.
func transact(p Port, req []byte, want int, timeout time.Duration) ([]byte, error) {
	_ = p.Flush()
	if _, err := p.Write(req); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	return readUntil(p, want, timeout)
}

func readUntil(p Port, want int, timeout time.Duration) ([]byte, error) {
	deadline := time.Now().Add(timeout)
	buf := make([]byte, 0, want)
	tmp := make([]byte, want)
	for {
		n, err := p.Read(tmp[:want-len(buf)])
		buf = append(buf, tmp[:n]...)
		if err != nil && !errors.Is(err, io.EOF) {
			return buf, fmt.Errorf("read: %w", err)
		}
		if len(buf) >= want {
			return buf, nil
		}
		if len(buf) >= exceptionLen && buf[1]&exceptionFlag != 0 {
			return buf[:exceptionLen], nil
		}
		if time.Now().After(deadline) {
			return buf, fmt.Errorf("%w: got %d of %d bytes", ErrTimeout, len(buf), want)
		}
		if n == 0 {
			time.Sleep(5 * time.Millisecond)
		}
	}
}
