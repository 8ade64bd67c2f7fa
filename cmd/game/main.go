package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/tomz197/streetrunner/internal/audio"
	"github.com/tomz197/streetrunner/internal/config"
	"github.com/tomz197/streetrunner/internal/loop"
	"github.com/tomz197/streetrunner/internal/prefs"
)

func main() {
	renderer := flag.String("renderer", "tcell", "terminal backend: tcell or ansi")
	volume := flag.Float64("volume", 0.8, "sound volume in [0, 1], 0 disables audio")
	demo := flag.Bool("demo", false, "let the autopilot play")
	flag.Parse()

	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := openLog(config.GetEnv("STREETRUNNER_LOG", ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	tuning, err := config.LoadTuning(config.GetEnv("STREETRUNNER_TUNING", ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid tuning: %v\n", err)
		os.Exit(1)
	}

	var player audio.Player = audio.NopPlayer{}
	if *volume > 0 {
		player = audio.NewBeepPlayer(*volume, logger)
	}

	seed := config.GetEnvInt64("STREETRUNNER_SEED", time.Now().UnixNano())
	opts := loop.SessionOptions{
		Tuning: &tuning,
		Prefs:  prefs.New(prefs.NewFileStore(prefsPath()), logger),
		Audio:  player,
		Logger: logger,
		Rand:   rand.New(rand.NewSource(seed)),
		Demo:   *demo,
	}

	if err := run(*renderer, opts); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run(renderer string, opts loop.SessionOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fe, err := openFrontend(renderer)
	if err != nil {
		return err
	}
	defer fe.Close()

	s := loop.NewSession(opts)
	defer s.Close()

	opts.Logger.Info("session started", "renderer", renderer)
	return loop.Run(ctx, fe, s)
}

// ansiFrontend restores cooked mode after the stream frontend resets the
// screen.
type ansiFrontend struct {
	*loop.StreamFrontend
	fd    int
	state *term.State
}

func (f *ansiFrontend) Close() error {
	_ = f.StreamFrontend.Close()
	return term.Restore(f.fd, f.state)
}

func openFrontend(renderer string) (loop.Frontend, error) {
	switch renderer {
	case "tcell":
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("create screen: %w", err)
		}
		if err := screen.Init(); err != nil {
			return nil, fmt.Errorf("init screen: %w", err)
		}
		return loop.NewTcellFrontend(screen), nil
	case "ansi":
		fd := int(os.Stdin.Fd())
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return nil, fmt.Errorf("enable raw mode: %w", err)
		}
		fe := loop.NewStreamFrontend(bufio.NewReader(os.Stdin), os.Stdout, nil)
		return &ansiFrontend{StreamFrontend: fe, fd: fd, state: oldState}, nil
	default:
		return nil, fmt.Errorf("unknown renderer %q", renderer)
	}
}

// openLog writes to path, or nowhere when path is empty. Logging to the
// terminal would tear the game screen.
func openLog(path string) (*log.Logger, func(), error) {
	if path == "" {
		return config.NewLogger(io.Discard, "streetrunner"), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return config.NewLogger(f, "streetrunner"), func() { _ = f.Close() }, nil
}

func prefsPath() string {
	if p := config.GetEnv("STREETRUNNER_PREFS", ""); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "streetrunner.yaml"
	}
	return filepath.Join(dir, "streetrunner", "prefs.yaml")
}
