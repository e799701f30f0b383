package modern

import (
	"sync"

	"gonum.org/v1/gonum/stat"
)

// Window keeps the most recent distances for summary statistics.
type Window struct {
	mu   sync.Mutex
	vals []float64
	next int
	full bool
}

func NewWindow(size int) *Window {
	if size <= 0 {
		size = 1
	}
	return &Window{vals: make([]float64, size)}
}

func (w *Window) Add(v float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.vals[w.next] = v
	w.next++
	if w.next == len(w.vals) {
		w.next = 0
		w.full = true
	}
}

func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.full {
		return len(w.vals)
	}
	return w.next
}

// Stats summarises the window contents.
type Stats struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

func (w *Window) Stats() Stats {
	w.mu.Lock()
	n := w.next
	if w.full {
		n = len(w.vals)
	}
	xs := make([]float64, n)
	copy(xs, w.vals[:n])
	w.mu.Unlock()

	if n == 0 {
		return Stats{}
	}
	s := Stats{N: n, Min: xs[0], Max: xs[0]}
	for _, x := range xs {
		if x < s.Min {
			s.Min = x
		}
		if x > s.Max {
			s.Max = x
		}
	}
	if n == 1 {
		s.Mean = xs[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(xs, nil)
	return s
}
