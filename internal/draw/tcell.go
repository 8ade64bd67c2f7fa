package draw

import "github.com/gdamore/tcell/v2"

// TcellSurface draws a Grid onto a tcell screen.
type TcellSurface struct {
	*Grid
	screen tcell.Screen
}

// NewTcellSurface wraps an initialized screen.
func NewTcellSurface(screen tcell.Screen) *TcellSurface {
	w, h := screen.Size()
	return &TcellSurface{Grid: NewGrid(w, h), screen: screen}
}

// Clear blanks the grid and picks up terminal resizes.
func (s *TcellSurface) Clear() {
	w, h := s.screen.Size()
	s.Grid.Resize(w, h)
}

// Flush copies every cell to the screen and shows it.
func (s *TcellSurface) Flush() error {
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			c := s.cells[y*s.width+x]
			s.screen.SetContent(x, y, c.Rune, nil, TcellStyle(c.Style))
		}
	}
	s.screen.Show()
	return nil
}

// TcellStyle converts a Style.
func TcellStyle(st Style) tcell.Style {
	out := tcell.StyleDefault
	if st.Fg.Valid() {
		r, g, b := st.Fg.RGB()
		out = out.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
	}
	if st.Bg.Valid() {
		r, g, b := st.Bg.RGB()
		out = out.Background(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
	}
	return out.Bold(st.Bold)
}
