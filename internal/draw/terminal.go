package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// maxChunkSize is the largest single write, sized to stay under a typical
// 1500 byte MTU on SSH links.
const maxChunkSize = 1400

// ChunkWriter accumulates a frame of terminal output and writes it in
// MTU-sized chunks on Flush. Cursor positions are 1-based render-area
// coordinates; the offset is added automatically.
type ChunkWriter struct {
	buf    strings.Builder
	bufw   *bufio.Writer
	numBuf [20]byte // Scratch space for allocation-free integer formatting
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer) *ChunkWriter {
	return &ChunkWriter{bufw: bufio.NewWriterSize(w, 8192)}
}

// SetOffset updates the render-area offset after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// MoveCursor appends an ANSI cursor position sequence.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.buf.WriteString("\033[")
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(row+cw.offRow), 10))
	cw.buf.WriteByte(';')
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(col+cw.offCol), 10))
	cw.buf.WriteByte('H')
}

// Write implements io.Writer.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.buf.Write(p)
}

// WriteString appends s to the frame.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// WriteAt writes s starting at (col, row).
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.buf.WriteString(s)
}

// WriteRune appends a rune to the frame.
func (cw *ChunkWriter) WriteRune(r rune) {
	cw.buf.WriteRune(r)
}

// Len returns the number of buffered bytes not yet flushed.
func (cw *ChunkWriter) Len() int {
	return cw.buf.Len()
}

var _ io.Writer = (*ChunkWriter)(nil)

// Flush writes the buffered frame in chunks and resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := cw.bufw.WriteString(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return cw.bufw.Flush()
}

// TermSizeFunc returns the terminal dimensions in cells.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc reads the size of the local terminal on stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// Viewport is the part of the terminal the game renders into.
type Viewport struct {
	Width, Height int // Render area in cells
	OffsetCol     int // Columns skipped on the left to center the area
	OffsetRow     int // Rows skipped at the top
}

// Bordered reports whether there is room around the area for a frame.
func (v Viewport) Bordered() bool {
	return v.OffsetCol >= 1 || v.OffsetRow >= 1
}

// FitViewport clamps a terminal to at most maxWidth x maxHeight cells and
// centers the render area inside it.
func FitViewport(termWidth, termHeight, maxWidth, maxHeight int) Viewport {
	v := Viewport{Width: termWidth, Height: termHeight}
	if v.Width > maxWidth {
		v.Width = maxWidth
	}
	if v.Height > maxHeight {
		v.Height = maxHeight
	}
	v.OffsetCol = (termWidth - v.Width) / 2
	v.OffsetRow = (termHeight - v.Height) / 2
	return v
}
