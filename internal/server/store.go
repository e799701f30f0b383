package server

import "sync"

// ReadingStore keeps the most recent readings, oldest first.
type ReadingStore struct {
	mu    sync.RWMutex
	buf   []ReadingDTO
	next  int
	full  bool
	total int
}

func NewReadingStore(size int) *ReadingStore {
	if size <= 0 {
		size = 1
	}
	return &ReadingStore{buf: make([]ReadingDTO, size)}
}

func (s *ReadingStore) Put(r ReadingDTO) {
	s.mu.Lock()
	s.buf[s.next] = r
	s.next = (s.next + 1) % len(s.buf)
	if s.next == 0 {
		s.full = true
	}
	s.total++
	s.mu.Unlock()
}

// Recent returns up to n readings, oldest first. n <= 0 means all.
func (s *ReadingStore) Recent(n int) []ReadingDTO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []ReadingDTO
	if s.full {
		out = append(out, s.buf[s.next:]...)
	}
	out = append(out, s.buf[:s.next]...)
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// Total counts every reading ever stored, including evicted ones.
func (s *ReadingStore) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}
