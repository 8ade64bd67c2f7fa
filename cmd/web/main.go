package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/streetrunner/internal/config"
	"github.com/tomz197/streetrunner/internal/inspect"
	"github.com/tomz197/streetrunner/internal/loop"
	"github.com/tomz197/streetrunner/internal/prefs"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"

	demoWidth  = 100
	demoHeight = 30
)

//go:embed index.html
var htmlPage string

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(os.Stderr, "web")

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")

	tuning, err := config.LoadTuning(config.GetEnv("STREETRUNNER_TUNING", ""))
	if err != nil {
		logger.Fatal("invalid tuning", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pub := loop.NewPublisher()
	demoDone := make(chan struct{})
	go func() {
		defer close(demoDone)
		runDemo(ctx, tuning, pub, logger)
	}()

	insp := inspect.NewServer(pub.Latest, inspect.Options{Logger: logger})
	mux := http.NewServeMux()
	insp.Register(mux)
	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", sshHost)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})

	addr := net.JoinHostPort(host, port)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("starting web server", "url", "http://"+addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")
	insp.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
	<-demoDone
}

// runDemo plays an autopilot game off screen until ctx ends, publishing a
// snapshot every frame.
func runDemo(ctx context.Context, tuning config.Tuning, pub *loop.Publisher, logger *log.Logger) {
	demoLog := logger.WithPrefix("demo")
	s := loop.NewSession(loop.SessionOptions{
		Tuning:    &tuning,
		Prefs:     prefs.New(&prefs.MemoryStore{}, demoLog),
		Logger:    demoLog,
		Rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
		Demo:      true,
		Publisher: pub,
	})
	defer s.Close()

	if err := loop.Run(ctx, loop.NewHeadlessFrontend(demoWidth, demoHeight), s); err != nil {
		demoLog.Error("demo stopped", "err", err)
	}
}
