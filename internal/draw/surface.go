package draw

// Cell is one terminal character.
type Cell struct {
	Rune  rune
	Style Style
}

// Surface is a cell grid that can be shown on a terminal.
type Surface interface {
	Size() (width, height int)
	Clear()
	SetCell(x, y int, r rune, st Style)
	Cell(x, y int) Cell
	Flush() error
}

// Grid is an in-memory cell buffer. It implements every Surface method
// except Flush; terminal surfaces embed it.
type Grid struct {
	width, height int
	cells         []Cell
}

func NewGrid(width, height int) *Grid {
	g := &Grid{}
	g.Resize(width, height)
	return g
}

// Resize reallocates the grid when the size changes. Contents are cleared.
func (g *Grid) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width == g.width && height == g.height && g.cells != nil {
		g.Clear()
		return
	}
	g.width, g.height = width, height
	g.cells = make([]Cell, width*height)
	g.Clear()
}

func (g *Grid) Size() (int, int) {
	return g.width, g.height
}

// Clear fills the grid with blanks.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = Cell{Rune: ' '}
	}
}

// SetCell writes a cell; (0, 0) is top-left. Out-of-range writes are dropped.
func (g *Grid) SetCell(x, y int, r rune, st Style) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return
	}
	g.cells[y*g.width+x] = Cell{Rune: r, Style: st}
}

// Cell returns the cell at (x, y), or a blank when out of range.
func (g *Grid) Cell(x, y int) Cell {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return Cell{Rune: ' '}
	}
	return g.cells[y*g.width+x]
}

// Flush is a no-op; a bare Grid is used headless and in tests.
func (g *Grid) Flush() error {
	return nil
}
