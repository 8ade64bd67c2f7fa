package loop

import (
	"bufio"
	"io"

	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/streetrunner/internal/draw"
	"github.com/tomz197/streetrunner/internal/input"
)

// Frontend is a terminal the loop draws to and reads keys from.
type Frontend interface {
	Surface() draw.Surface
	// Poll presses every key received since the last call. It returns false
	// once the input source is gone.
	Poll(keys *input.Keys) bool
	Close() error
}

// StreamFrontend drives a raw byte stream: a local terminal in raw mode or
// an SSH session.
type StreamFrontend struct {
	surface *draw.ANSISurface
	stream  *input.Stream
}

// NewStreamFrontend reads keys from r and writes ANSI frames to w. size
// reports the terminal size; nil asks the local terminal.
func NewStreamFrontend(r *bufio.Reader, w io.Writer, size draw.TermSizeFunc) *StreamFrontend {
	if size == nil {
		size = draw.DefaultTermSizeFunc
	}
	s := draw.NewANSISurface(w, size)
	s.Init()
	return &StreamFrontend{surface: s, stream: input.StartStream(r)}
}

func (f *StreamFrontend) Surface() draw.Surface { return f.surface }

func (f *StreamFrontend) Poll(keys *input.Keys) bool {
	return f.stream.Drain(keys)
}

// Close restores the terminal. The reader goroutine ends with its source.
func (f *StreamFrontend) Close() error {
	f.surface.Fini()
	return nil
}

// TcellFrontend drives a tcell screen.
type TcellFrontend struct {
	screen  tcell.Screen
	surface *draw.TcellSurface
	events  chan tcell.Event
	quit    chan struct{}
	closed  bool
}

// NewTcellFrontend wraps an initialized screen and starts polling its events.
func NewTcellFrontend(screen tcell.Screen) *TcellFrontend {
	screen.HideCursor()
	f := &TcellFrontend{
		screen:  screen,
		surface: draw.NewTcellSurface(screen),
		events:  make(chan tcell.Event, 100),
		quit:    make(chan struct{}),
	}
	go f.pollEvents()
	return f
}

func (f *TcellFrontend) pollEvents() {
	defer close(f.events)
	for {
		ev := f.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case f.events <- ev:
		case <-f.quit:
			return
		}
	}
}

func (f *TcellFrontend) Surface() draw.Surface { return f.surface }

func (f *TcellFrontend) Poll(keys *input.Keys) bool {
	for {
		select {
		case ev, ok := <-f.events:
			if !ok {
				return false
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if k := input.FromTcell(ev); k != input.KeyNone {
					keys.Press(k)
				}
			case *tcell.EventResize:
				f.screen.Sync()
			}
		default:
			return true
		}
	}
}

// Close finalizes the screen. Safe to call twice.
func (f *TcellFrontend) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	close(f.quit)
	f.screen.Fini()
	return nil
}

// HeadlessFrontend draws into an in-memory grid and never receives keys.
// The demo game and tests run on it.
type HeadlessFrontend struct {
	grid *draw.Grid
}

func NewHeadlessFrontend(width, height int) *HeadlessFrontend {
	return &HeadlessFrontend{grid: draw.NewGrid(width, height)}
}

func (f *HeadlessFrontend) Surface() draw.Surface { return f.grid }
func (f *HeadlessFrontend) Poll(*input.Keys) bool { return true }
func (f *HeadlessFrontend) Close() error          { return nil }
