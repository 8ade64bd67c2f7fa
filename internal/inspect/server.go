// Package inspect exposes read-only snapshots of a running game over HTTP
// and websocket so external tools can watch a run without touching it.
package inspect

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/streetrunner/internal/snapshot"
)

const (
	defaultInterval = 100 * time.Millisecond
	pingInterval    = 25 * time.Second
	readTimeout     = 60 * time.Second
	writeTimeout    = 10 * time.Second

	contentTypeMsgpack = "application/msgpack"
)

// Source returns the latest snapshot, or nil before the first one exists.
type Source func() *snapshot.Snapshot

// Options configures a Server.
type Options struct {
	Interval time.Duration // websocket push period
	Logger   *log.Logger
}

// Server serves snapshots from a Source.
type Server struct {
	source   Source
	interval time.Duration
	log      *log.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	streams int
	closing chan struct{}
	closed  bool
}

func NewServer(src Source, opts Options) *Server {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Server{
		source:   src,
		interval: opts.Interval,
		log:      opts.Logger,
		upgrader: websocket.Upgrader{
			// The feed is read-only and public.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		closing: make(chan struct{}),
	}
}

// Register mounts the inspection routes on mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /ws", s.handleStream)
	mux.HandleFunc("GET /healthz", s.handleHealth)
}

// Handler returns a mux serving only the inspection routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)
	return mux
}

// Streams reports the number of open websocket streams.
func (s *Server) Streams() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streams
}

// Close ends every open stream. http.Server.Shutdown does not touch
// hijacked connections, so callers shutting down call this too.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.closing)
}

func (s *Server) latest() *snapshot.Snapshot {
	if s.source == nil {
		return nil
	}
	return s.source()
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.latest()
	if snap == nil {
		http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
		return
	}

	if r.URL.Query().Get("format") == "msgpack" {
		data, err := msgpack.Marshal(snap)
		if err != nil {
			s.log.Error("encode snapshot", "err", err)
			http.Error(w, "encode failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentTypeMsgpack)
		_, _ = w.Write(data)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		s.log.Warn("write snapshot", "err", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	status := struct {
		Status  string `json:"status"`
		Streams int    `json:"streams"`
	}{Status: "ok", Streams: s.Streams()}
	_ = json.NewEncoder(w).Encode(status)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()

	s.mu.Lock()
	s.streams++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.streams--
		s.mu.Unlock()
	}()

	s.log.Debug("stream opened", "remote", conn.RemoteAddr())
	defer s.log.Debug("stream closed", "remote", conn.RemoteAddr())

	conn.SetReadLimit(1 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	// Clients never send data; reading only surfaces close frames and errors.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	tick := time.NewTicker(s.interval)
	defer tick.Stop()
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	var sent *snapshot.Snapshot
	for {
		if snap := s.latest(); snap != nil && snap != sent {
			if err := s.writeSnapshot(conn, snap); err != nil {
				s.log.Debug("stream write", "err", err)
				return
			}
			sent = snap
		}

		select {
		case <-tick.C:
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-gone:
			return
		case <-s.closing:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(time.Second))
			return
		}
	}
}

func (s *Server) writeSnapshot(conn *websocket.Conn, snap *snapshot.Snapshot) error {
	data, err := msgpack.Marshal(snap)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.BinaryMessage, data)
}
