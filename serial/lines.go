package serial

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"
)

// maxLineLen bounds a line without a terminator; longer input is dropped.
const maxLineLen = 4096

// lineReader splits the sensor's ASCII output into lines. Reads that time out
// with no data are retried until ctx ends.
type lineReader struct {
	p   Port
	buf []byte
	tmp [256]byte
}

func newLineReader(p Port) *lineReader {
	return &lineReader{p: p}
}

func (lr *lineReader) next(ctx context.Context) (string, error) {
	for {
		if i := bytes.IndexAny(lr.buf, "\r\n"); i >= 0 {
			line := string(bytes.TrimSpace(lr.buf[:i]))
			lr.buf = lr.buf[i+1:]
			if line == "" {
				continue
			}
			return line, nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if len(lr.buf) >= maxLineLen {
			lr.buf = lr.buf[:0]
		}
		n, err := lr.p.Read(lr.tmp[:])
		lr.buf = append(lr.buf, lr.tmp[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				if n == 0 {
					time.Sleep(10 * time.Millisecond)
				}
				continue
			}
			return "", err
		}
	}
}

// nextReading skips lines until one parses as a reading.
func (lr *lineReader) nextReading(ctx context.Context, onSkip func(string)) (Reading, error) {
	for {
		line, err := lr.next(ctx)
		if err != nil {
			return Reading{}, err
		}
		if r, ok := ParseReading(line); ok {
			return r, nil
		}
		if onSkip != nil {
			onSkip(line)
		}
	}
}
