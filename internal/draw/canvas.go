package draw

import (
	"math"
	"sort"
	"strings"
)

// cell is what one terminal cell shows: bit 0 is the upper sub-pixel, bit 1 the lower.
type cell uint8

const (
	cellEmpty cell = 0
	cellUpper cell = 1
	cellLower cell = 2
	cellFull  cell = 3
	cellStale cell = 0xFF // Forces the cell to be rewritten on the next Render
)

// Canvas is a drawing buffer with 2x vertical resolution using half-block
// characters. Shapes are drawn in logical coordinates and scaled to the
// terminal on the way in.
//
// Render only emits cells that changed since the previous frame, so the
// terminal must not be cleared between frames unless ForceRedraw is called.
type Canvas struct {
	termWidth      int
	termHeight     int
	subPixelHeight int    // termHeight * 2
	pixels         []bool // [y*termWidth + x]
	shown          []cell // What the terminal currently displays, per cell

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // subPixelHeight / logicalHeight

	// Reusable buffers
	scaledBuf       []Point
	intersectionBuf []float64
	polygonBuf      []Point
}

// NewScaledCanvas creates a canvas mapping a logicalWidth x logicalHeight
// area onto termWidth x termHeight cells.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{logicalWidth: logicalWidth, logicalHeight: logicalHeight}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the terminal dimensions, keeping the logical area.
// A size change forces a full redraw.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 0)
	termHeight = max(termHeight, 0)
	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]bool, c.subPixelHeight*termWidth)
		c.shown = make([]cell, termHeight*termWidth)
		c.ForceRedraw()
	}
	c.rescale()
}

// SetLogicalSize changes the logical area mapped onto the terminal.
func (c *Canvas) SetLogicalSize(width, height float64) {
	if width == c.logicalWidth && height == c.logicalHeight {
		return
	}
	c.logicalWidth = width
	c.logicalHeight = height
	c.rescale()
}

func (c *Canvas) rescale() {
	c.scaleX, c.scaleY = 0, 0
	if c.logicalWidth > 0 {
		c.scaleX = float64(c.termWidth) / c.logicalWidth
	}
	if c.logicalHeight > 0 {
		c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
	}
}

// ForceRedraw makes the next Render rewrite every cell. Call it after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	for i := range c.shown {
		c.shown[i] = cellStale
	}
}

// Clear resets all pixels. The terminal is untouched until Render.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// setPixel sets a pixel at sub-pixel coordinates.
func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = true
	}
}

// SetFloat sets the pixel under a logical point.
func (c *Canvas) SetFloat(x, y float64) {
	c.setPixel(int(math.Round(x*c.scaleX)), int(math.Round(y*c.scaleY)))
}

// DrawLine draws a line between two logical points using Bresenham's algorithm.
func (c *Canvas) DrawLine(p1, p2 Point) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

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
		c.setPixel(x1, y1)

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

// DrawPolygon draws a closed polygon, filling its interior if filled is set.
func (c *Canvas) DrawPolygon(points []Point, filled bool) {
	if len(points) < 3 {
		return
	}

	if filled {
		c.fillPolygon(points)
	}

	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n])
	}
}

// DrawCircle outlines a circle of logical radius r. The outline is a
// polygon whose vertex count grows with the on-screen size.
func (c *Canvas) DrawCircle(cx, cy, r float64) {
	if r <= 0 {
		c.SetFloat(cx, cy)
		return
	}
	screenR := r * max(c.scaleX, c.scaleY)
	n := int(math.Ceil(screenR * 2 * math.Pi / 2))
	n = min(max(n, 8), 64)

	points := c.BorrowPoints(n)
	for i := range points {
		a := float64(i) * 2 * math.Pi / float64(n)
		points[i] = Point{X: cx + math.Cos(a)*r, Y: cy + math.Sin(a)*r}
	}
	c.DrawPolygon(points, false)
}

// fillPolygon fills a polygon with a scanline pass in sub-pixel space.
func (c *Canvas) fillPolygon(points []Point) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]
	for i, p := range points {
		scaled[i] = Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	yStart := max(int(math.Floor(minY)), 0)
	yEnd := min(int(math.Ceil(maxY)), c.subPixelHeight-1)

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]
		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i]))
			xEnd := int(math.Floor(intersections[i+1]))
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y)
			}
		}
	}
}

// Render writes every cell that differs from what the terminal shows.
func (c *Canvas) Render(cw *ChunkWriter) {
	for row := 0; row < c.termHeight; row++ {
		top := (row * 2) * c.termWidth
		bottom := (row*2 + 1) * c.termWidth

		for col := 0; col < c.termWidth; col++ {
			var v cell
			if c.pixels[top+col] {
				v |= cellUpper
			}
			if c.pixels[bottom+col] {
				v |= cellLower
			}

			idx := row*c.termWidth + col
			if c.shown[idx] == v {
				continue
			}
			c.shown[idx] = v

			cw.MoveCursor(col+1, row+1)
			cw.WriteRune(cellRune(v))
		}
	}
}

// Invalidate marks the cells covering a text overlay as stale, so the next
// Render repaints them. col and row are 1-based.
func (c *Canvas) Invalidate(col, row, width int) {
	if row < 1 || row > c.termHeight {
		return
	}
	start := max(col-1, 0)
	end := min(col-1+width, c.termWidth)
	for i := start; i < end; i++ {
		c.shown[(row-1)*c.termWidth+i] = cellStale
	}
}

func cellRune(v cell) rune {
	switch v {
	case cellFull:
		return BlockFull
	case cellUpper:
		return BlockUpperHalf
	case cellLower:
		return BlockLowerHalf
	default:
		return ' '
	}
}

// RenderBorder frames the render area when the viewport leaves room around
// it. Horizontal bars need a row offset, vertical bars a column offset.
func (c *Canvas) RenderBorder(cw *ChunkWriter, v Viewport) {
	hasSides := v.OffsetCol >= 1
	hasBars := v.OffsetRow >= 1

	left, right := 0, c.termWidth+1
	top, bottom := 0, c.termHeight+1
	bar := strings.Repeat("─", c.termWidth)

	if hasBars {
		if hasSides {
			cw.WriteAt(left, top, "┌"+bar+"┐")
			cw.WriteAt(left, bottom, "└"+bar+"┘")
		} else {
			cw.WriteAt(1, top, bar)
			cw.WriteAt(1, bottom, bar)
		}
	}

	if hasSides {
		for row := 1; row <= c.termHeight; row++ {
			cw.WriteAt(left, row, "│")
			cw.WriteAt(right, row, "│")
		}
	}
}

// TerminalWidth returns the render area width in cells.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the render area height in cells.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts a logical point to a 1-based cell position.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}

// BorrowPoints returns a reusable slice of n points, valid until the next call.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	return c.polygonBuf[:n]
}
