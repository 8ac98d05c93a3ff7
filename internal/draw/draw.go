// Package draw renders to ANSI terminals: cursor control, a chunked writer
// suited to SSH links and a half-block pixel canvas.
package draw

import (
	"fmt"
	"io"
)

// Point is a 2D coordinate in the canvas's logical space.
type Point struct {
	X, Y float64
}

// Half-block characters used by the canvas.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
