package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/streetrunner/internal/config"
	"github.com/tomz197/streetrunner/internal/draw"
	"github.com/tomz197/streetrunner/internal/loop"
	"github.com/tomz197/streetrunner/internal/prefs"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultIdleSeconds = 300
	defaultPrefsDir    = "/app/prefs"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(os.Stderr, "ssh")

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	idle := time.Duration(config.GetEnvInt64("SSH_IDLE_SECONDS", defaultIdleSeconds)) * time.Second
	prefsDir := config.GetEnv("SSH_PREFS_DIR", defaultPrefsDir)

	tuning, err := config.LoadTuning(config.GetEnv("STREETRUNNER_TUNING", ""))
	if err != nil {
		logger.Fatal("invalid tuning", "err", err)
	}
	logger.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "idle", idle, "prefsDir", prefsDir)

	games := newGameHost(tuning, idle, prefs.NewDirectory(prefsDir), logger)

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			games.middleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting ssh server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")

	// End every running game so players see their terminal restored.
	games.shutdown(15 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameHost runs one independent game per SSH session.
type gameHost struct {
	tuning config.Tuning
	idle   time.Duration
	prefs  *prefs.Directory
	log    *log.Logger

	mu      sync.Mutex
	cancels map[ssh.Session]context.CancelFunc
	closed  bool
	wg      sync.WaitGroup
}

func newGameHost(tuning config.Tuning, idle time.Duration, users *prefs.Directory, logger *log.Logger) *gameHost {
	return &gameHost{
		tuning:  tuning,
		idle:    idle,
		prefs:   users,
		log:     logger,
		cancels: make(map[ssh.Session]context.CancelFunc),
	}
}

// middleware handles SSH sessions and runs the game.
func (h *gameHost) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		ctx, cancel := context.WithCancel(sess.Context())
		if !h.track(sess, cancel) {
			cancel()
			fmt.Fprintln(sess, "Server is shutting down.")
			return
		}
		defer h.untrack(sess)

		logger := h.log.With("user", sess.User())
		logger.Info("new game session", "terminal", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		tuning := h.tuning
		game := loop.NewSession(loop.SessionOptions{
			Tuning:      &tuning,
			// Mute and best score are kept per SSH user name.
			Prefs:       prefs.New(h.prefs.For(sess.User()), logger),
			Logger:      logger,
			Rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
			IdleTimeout: h.idle,
		})
		fe := loop.NewStreamFrontend(bufio.NewReader(sess), sess, sizeTracker.getSize)

		if err := loop.Run(ctx, fe, game); err != nil {
			logger.Error("game error", "err", err)
		}
		_ = fe.Close()
		game.Close()

		logger.Info("session ended")
		next(sess)
	}
}

func (h *gameHost) track(sess ssh.Session, cancel context.CancelFunc) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.cancels[sess] = cancel
	h.wg.Add(1)
	return true
}

func (h *gameHost) untrack(sess ssh.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cancel, ok := h.cancels[sess]; ok {
		cancel()
		delete(h.cancels, sess)
		h.wg.Done()
	}
}

// shutdown stops every game and waits up to timeout for sessions to wind
// down. New sessions are refused afterwards.
func (h *gameHost) shutdown(timeout time.Duration) {
	h.mu.Lock()
	h.log.Info("stopping games", "sessions", len(h.cancels))
	for _, cancel := range h.cancels {
		cancel()
	}
	h.closed = true
	h.mu.Unlock()

	waited := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(timeout):
		h.log.Warn("sessions still open after shutdown timeout")
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
