package draw

import (
	"math"
	"sort"
)

// Canvas is a drawing buffer with 2x vertical resolution using half-block
// characters. Coordinates are sub-pixels: x in [0, width), y in [0, height*2).
type Canvas struct {
	termWidth      int     // Terminal columns covered
	termHeight     int     // Terminal rows covered
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x], ColorDefault if unset

	// Reusable buffers to reduce allocations
	intersectionBuf []float64 // Scanline intersections
	polygonBuf      []Point   // Polygon point generation
}

// NewCanvas creates a canvas for the given terminal dimensions.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Resize updates the canvas for new terminal dimensions.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth, termHeight = max(termWidth, 0), max(termHeight, 0)
	if termWidth == c.termWidth && termHeight == c.termHeight && c.pixels != nil {
		return
	}
	c.termWidth = termWidth
	c.termHeight = termHeight
	c.subPixelHeight = termHeight * 2
	c.pixels = make([]Color, c.subPixelHeight*termWidth)
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// Set sets a pixel. Out-of-range pixels are ignored.
func (c *Canvas) Set(x, y int, col Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// SetFloat sets the pixel nearest to (x, y).
func (c *Canvas) SetFloat(x, y float64, col Color) {
	c.Set(int(math.Round(x)), int(math.Round(y)), col)
}

// At returns the pixel color at (x, y).
func (c *Canvas) At(x, y int) Color {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return ColorDefault
	}
	return c.pixels[y*c.termWidth+x]
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
func (c *Canvas) DrawLine(p1, p2 Point, col Color) {
	x1, y1 := int(math.Round(p1.X)), int(math.Round(p1.Y))
	x2, y2 := int(math.Round(p2.X)), int(math.Round(p2.Y))

	// Lines far off-canvas come from points behind the camera; skip them.
	limit := 4 * (c.termWidth + c.subPixelHeight)
	if abs(x1) > limit || abs(x2) > limit || abs(y1) > limit || abs(y2) > limit {
		return
	}

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
		c.Set(x1, y1, col)

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

// DrawPolygon draws a polygon outline, filling the interior when filled is set.
func (c *Canvas) DrawPolygon(points []Point, col Color, filled bool) {
	if len(points) < 3 {
		return
	}

	if filled {
		c.fillPolygon(points, col)
	}

	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n], col)
	}
}

// fillPolygon fills a polygon using scanline algorithm.
func (c *Canvas) fillPolygon(points []Point, col Color) {
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	yStart := max(int(math.Floor(minY)), 0)
	yEnd := min(int(math.Ceil(maxY)), c.subPixelHeight-1)

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]

		n := len(points)
		for i := 0; i < n; i++ {
			p1 := points[i]
			p2 := points[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}

		// Store back in case it grew
		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := max(int(math.Ceil(intersections[i])), 0)
			xEnd := min(int(math.Floor(intersections[i+1])), c.termWidth-1)
			for x := xStart; x <= xEnd; x++ {
				c.pixels[y*c.termWidth+x] = col
			}
		}
	}
}

// Blit copies the canvas onto s as half-block cells, starting at the
// surface's top-left corner. Cells with no set pixel are left untouched.
func (c *Canvas) Blit(s Surface) {
	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			bottom := c.pixels[bottomOffset+col]

			switch {
			case top.Valid() && bottom.Valid() && top == bottom:
				s.SetCell(col, row, BlockFull, Style{Fg: top})
			case top.Valid() && bottom.Valid():
				s.SetCell(col, row, BlockUpperHalf, Style{Fg: top, Bg: bottom})
			case top.Valid():
				s.SetCell(col, row, BlockUpperHalf, Style{Fg: top})
			case bottom.Valid():
				s.SetCell(col, row, BlockLowerHalf, Style{Fg: bottom})
			}
		}
	}
}

// Width returns the canvas width in pixels (terminal columns).
func (c *Canvas) Width() int {
	return c.termWidth
}

// Height returns the canvas height in sub-pixels (twice the terminal rows).
func (c *Canvas) Height() int {
	return c.subPixelHeight
}

// BorrowPoints returns a reusable slice of Points with the given length.
// The returned slice is only valid until the next call to BorrowPoints.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	return c.polygonBuf[:n]
}
