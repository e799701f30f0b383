package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	serialpkg "github.com/rberger/dough-man/serial"
)

// Sink receives every reading after it is stored and broadcast.
type Sink interface {
	Publish(r ReadingDTO) error
}

type Options struct {
	Addr    string
	Port    string
	History int
	Sink    Sink
	Logger  *zap.Logger
}

type Server struct {
	mux *http.ServeMux

	addr  string
	port  string
	store *ReadingStore
	hub   *WSHub
	sink  Sink
	log   *zap.Logger
	now   func() time.Time
}

func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		mux:   http.NewServeMux(),
		addr:  opts.Addr,
		port:  opts.Port,
		store: NewReadingStore(opts.History),
		hub:   NewWSHub(),
		sink:  opts.Sink,
		log:   log.Named("server"),
		now:   time.Now,
	}

	// API
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/readings", s.handleReadings)

	// WS
	s.mux.HandleFunc("/ws/readings", s.handleWSReadings)

	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

// Record stores r, broadcasts it to websocket clients and hands it to the
// sink. A sink failure is logged and does not stop the stream.
func (s *Server) Record(r serialpkg.Reading) {
	dto := newReadingDTO(r, s.now())
	s.store.Put(dto)
	s.hub.Broadcast(WSMessage{Type: "reading", Data: dto})
	if s.sink == nil {
		return
	}
	if err := s.sink.Publish(dto); err != nil {
		s.log.Warn("publish", zap.Error(err))
	}
}

// ListenAndServe serves HTTP until ctx ends, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("serving", zap.String("addr", s.addr))
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.hub.CloseAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	s.writeJSON(w, 200, HealthResponse{
		OK:        true,
		Timestamp: s.now(),
		Port:      s.port,
		Readings:  s.store.Total(),
		Clients:   s.hub.Len(),
	})
}

// handleReadings returns the stored readings; ?n= limits the count.
func (s *Server) handleReadings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n := 0
	if q := r.URL.Query().Get("n"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 0 {
			s.writeJSON(w, 400, APIError{Error: "invalid n"})
			return
		}
		n = v
	}
	out := s.store.Recent(n)
	if out == nil {
		out = []ReadingDTO{}
	}
	s.writeJSON(w, 200, ReadingsResponse{Readings: out})
}
