package draw

import (
	"io"
	"sync"
)

// ANSISurface renders a Grid as ANSI escape sequences. Only cells that
// changed since the previous Flush are sent.
type ANSISurface struct {
	*Grid

	mu   sync.Mutex
	cw   *ChunkWriter
	out  io.Writer
	size TermSizeFunc
	prev []Cell
	full bool // repaint everything on next Flush
}

// NewANSISurface creates a surface writing to w. size is polled on every
// Flush so terminal resizes take effect on the next frame.
func NewANSISurface(w io.Writer, size TermSizeFunc) *ANSISurface {
	s := &ANSISurface{
		Grid: NewGrid(0, 0),
		cw:   NewChunkWriter(w, 0, 0),
		out:  w,
		size: size,
		full: true,
	}
	s.syncSize()
	return s
}

// Init hides the cursor and clears the terminal.
func (s *ANSISurface) Init() {
	HideCursor(s.out)
	ClearScreen(s.out)
}

// Fini restores the terminal.
func (s *ANSISurface) Fini() {
	ResetStyle(s.out)
	ClearScreen(s.out)
	ShowCursor(s.out)
}

// Invalidate forces a full repaint on the next Flush.
func (s *ANSISurface) Invalidate() {
	s.mu.Lock()
	s.full = true
	s.mu.Unlock()
}

// syncSize matches the grid to the terminal. Reports whether it changed.
func (s *ANSISurface) syncSize() bool {
	if s.size == nil {
		return false
	}
	w, h, err := s.size()
	if err != nil {
		return false
	}
	cw, ch := s.Grid.Size()
	if w == cw && h == ch {
		return false
	}
	s.Grid.Resize(w, h)
	return true
}

// Clear blanks the grid and picks up terminal resizes.
func (s *ANSISurface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.syncSize() {
		s.full = true
	}
	s.Grid.Clear()
}

// Flush writes changed cells.
func (s *ANSISurface) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.prev) != len(s.cells) {
		s.prev = make([]Cell, len(s.cells))
		s.full = true
	}
	if s.full {
		s.cw.WriteString("\033[0m\033[H\033[2J")
	}

	var cur Style
	styled := false
	lastX, lastY := -2, -2
	for i, c := range s.cells {
		if !s.full && c == s.prev[i] {
			continue
		}
		s.prev[i] = c
		if s.full && c.Rune == ' ' && c.Style == (Style{}) {
			continue
		}
		x, y := i%s.width, i/s.width
		if y != lastY || x != lastX+1 {
			s.cw.MoveCursor(x+1, y+1)
		}
		if !styled || c.Style != cur {
			s.cw.SetStyle(c.Style)
			cur = c.Style
			styled = true
		}
		s.cw.WriteRune(c.Rune)
		lastX, lastY = x, y
	}
	s.full = false
	return s.cw.Flush()
}
