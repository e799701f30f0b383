package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	serialpkg "github.com/rberger/dough-man/serial"
)

type recordingSink struct {
	mu  sync.Mutex
	got []ReadingDTO
	err error
}

func (s *recordingSink) Publish(r ReadingDTO) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, r)
	return s.err
}

type sliceSource struct {
	readings []serialpkg.Reading
}

func (s *sliceSource) GetDistance(ctx context.Context) (serialpkg.Reading, error) {
	if len(s.readings) == 0 {
		return serialpkg.Reading{}, serialpkg.ErrClosed
	}
	r := s.readings[0]
	s.readings = s.readings[1:]
	return r, nil
}

func newTestServer(t *testing.T, sink Sink) (*Server, *httptest.Server) {
	t.Helper()
	s := New(Options{Port: "/dev/fake", History: 3, Sink: sink, Logger: zaptest.NewLogger(t)})
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return at }
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func getJSON(t *testing.T, url string, v interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	s, ts := newTestServer(t, nil)
	s.Record(serialpkg.Reading{Distance: 10, Units: "mm"})

	var h HealthResponse
	assert.Equal(t, 200, getJSON(t, ts.URL+"/api/health", &h))
	assert.True(t, h.OK)
	assert.Equal(t, "/dev/fake", h.Port)
	assert.Equal(t, 1, h.Readings)

	resp, err := http.Post(ts.URL+"/api/health", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReadingsKeepsHistory(t *testing.T) {
	sink := &recordingSink{err: errors.New("broker down")}
	s, ts := newTestServer(t, sink)

	var empty ReadingsResponse
	assert.Equal(t, 200, getJSON(t, ts.URL+"/api/readings", &empty))
	assert.NotNil(t, empty.Readings)
	assert.Empty(t, empty.Readings)

	src := &sliceSource{}
	for _, d := range []float64{1, 2, 3, 4} {
		src.readings = append(src.readings, serialpkg.Reading{Distance: d, Units: "mm"})
	}
	require.NoError(t, s.Run(context.Background(), src))
	assert.Len(t, sink.got, 4)

	var out ReadingsResponse
	assert.Equal(t, 200, getJSON(t, ts.URL+"/api/readings", &out))
	require.Len(t, out.Readings, 3)
	assert.Equal(t, 2.0, out.Readings[0].Distance)
	assert.Equal(t, "Distance: 4 mm", out.Readings[2].Text)

	assert.Equal(t, 200, getJSON(t, ts.URL+"/api/readings?n=1", &out))
	require.Len(t, out.Readings, 1)
	assert.Equal(t, 4.0, out.Readings[0].Distance)

	var apiErr APIError
	assert.Equal(t, 400, getJSON(t, ts.URL+"/api/readings?n=x", &apiErr))
	assert.Equal(t, "invalid n", apiErr.Error)
}

func TestWebsocketBroadcast(t *testing.T) {
	s, ts := newTestServer(t, nil)
	s.Record(serialpkg.Reading{Distance: 5, Units: "mm"})

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/readings"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var hist struct {
		Type string       `json:"type"`
		Data []ReadingDTO `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&hist))
	assert.Equal(t, "history", hist.Type)
	require.Len(t, hist.Data, 1)
	assert.Equal(t, 5.0, hist.Data[0].Distance)

	s.Record(serialpkg.Reading{Distance: 6.5, Units: "cm"})
	var msg struct {
		Type string     `json:"type"`
		Data ReadingDTO `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "reading", msg.Type)
	assert.Equal(t, "Distance: 6.5 cm", msg.Data.Text)
	assert.Equal(t, 1, s.hub.Len())
}

func TestListenAndServeStops(t *testing.T) {
	s := New(Options{Addr: "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestReadingStore(t *testing.T) {
	st := NewReadingStore(2)
	assert.Nil(t, st.Recent(0))
	st.Put(ReadingDTO{Distance: 1})
	assert.Equal(t, []ReadingDTO{{Distance: 1}}, st.Recent(0))
	st.Put(ReadingDTO{Distance: 2})
	st.Put(ReadingDTO{Distance: 3})
	assert.Equal(t, []ReadingDTO{{Distance: 2}, {Distance: 3}}, st.Recent(0))
	assert.Equal(t, []ReadingDTO{{Distance: 3}}, st.Recent(1))
	assert.Equal(t, 3, st.Total())
}

func TestBroadcastDropsStalledClient(t *testing.T) {
	prev := writeWait
	writeWait = 100 * time.Millisecond
	t.Cleanup(func() { writeWait = prev })

	s, ts := newTestServer(t, nil)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/readings"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return s.hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	// The client never reads, so socket buffers fill and writes start to block.
	big := WSMessage{Type: "reading", Data: strings.Repeat("x", 256<<10)}
	for i := 0; i < 2000 && s.hub.Len() > 0; i++ {
		start := time.Now()
		s.hub.Broadcast(big)
		require.Less(t, time.Since(start), time.Second)
	}
	assert.Equal(t, 0, s.hub.Len())
}
