package draw

import "unicode/utf8"

// Text writes s starting at (x, y). Runes past the right edge are dropped.
func Text(s Surface, x, y int, str string, st Style) {
	for _, r := range str {
		s.SetCell(x, y, r, st)
		x++
	}
}

// CenterText writes str horizontally centered on row y.
func CenterText(s Surface, y int, str string, st Style) {
	w, _ := s.Size()
	Text(s, (w-utf8.RuneCountInString(str))/2, y, str, st)
}

// RightText writes str so that it ends margin cells before the right edge.
func RightText(s Surface, y, margin int, str string, st Style) {
	w, _ := s.Size()
	Text(s, w-margin-utf8.RuneCountInString(str), y, str, st)
}

// Line draws a line of r between two cell positions using Bresenham's algorithm.
func Line(s Surface, x1, y1, x2, y2 int, r rune, st Style) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		s.SetCell(x1, y1, r, st)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// Frame draws a box border with its top-left corner at (x, y).
func Frame(s Surface, x, y, w, h int, st Style) {
	if w < 2 || h < 2 {
		return
	}
	right, bottom := x+w-1, y+h-1
	Line(s, x+1, y, right-1, y, '─', st)
	Line(s, x+1, bottom, right-1, bottom, '─', st)
	Line(s, x, y+1, x, bottom-1, '│', st)
	Line(s, right, y+1, right, bottom-1, '│', st)
	s.SetCell(x, y, '┌', st)
	s.SetCell(right, y, '┐', st)
	s.SetCell(x, bottom, '└', st)
	s.SetCell(right, bottom, '┘', st)
}

// Fill sets every cell in the rectangle to r.
func Fill(s Surface, x, y, w, h int, r rune, st Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			s.SetCell(col, row, r, st)
		}
	}
}
