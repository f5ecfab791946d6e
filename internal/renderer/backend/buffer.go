package backend

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/tessera/internal/renderer/core"
	"github.com/dshills/tessera/internal/renderer/segment"
)

// CellChange describes one screen position whose rendered value must change.
type CellChange struct {
	X, Y int
	Cell core.Cell
}

// ScreenBuffer is a fixed-size grid of cells stored row-major in one slice.
//
// A frame loop keeps two of them, the frame being built and the frame last
// shown, and diffs the first against the second.
type ScreenBuffer struct {
	width, height int
	cells         []core.Cell
}

// NewScreenBuffer creates a screen buffer of blank cells.
func NewScreenBuffer(width, height int) *ScreenBuffer {
	sb := &ScreenBuffer{}
	sb.allocate(width, height)
	return sb
}

func (sb *ScreenBuffer) allocate(width, height int) {
	sb.width = max(width, 0)
	sb.height = max(height, 0)
	sb.cells = make([]core.Cell, sb.width*sb.height)
	sb.Clear()
}

// Size returns the buffer dimensions.
func (sb *ScreenBuffer) Size() (width, height int) {
	return sb.width, sb.height
}

// Width returns the number of columns.
func (sb *ScreenBuffer) Width() int {
	return sb.width
}

// Height returns the number of rows.
func (sb *ScreenBuffer) Height() int {
	return sb.height
}

func (sb *ScreenBuffer) inBounds(x, y int) bool {
	return x >= 0 && x < sb.width && y >= 0 && y < sb.height
}

// Resize reallocates the buffer. Content is not preserved: a buffer of a
// different size cannot be diffed cell by cell against the old one.
func (sb *ScreenBuffer) Resize(width, height int) {
	if width == sb.width && height == sb.height {
		sb.Clear()
		return
	}
	sb.allocate(width, height)
}

// Clear resets every cell to blank.
func (sb *ScreenBuffer) Clear() {
	blank := core.BlankCell()
	for i := range sb.cells {
		sb.cells[i] = blank
	}
}

// Set stores a cell. Positions outside the buffer are ignored.
// A wide cell also writes a continuation cell to its right; at the last
// column the continuation is skipped and the glyph is still stored.
// Any wide glyph partly overwritten by the new cell is replaced with blanks.
func (sb *ScreenBuffer) Set(x, y int, cell core.Cell) {
	if !sb.inBounds(x, y) {
		return
	}
	wide := cell.IsWide() && x+1 < sb.width
	sb.detach(x, y)
	if wide {
		sb.detach(x+1, y)
	}

	sb.cells[y*sb.width+x] = cell
	if wide {
		cont := core.ContinuationCell()
		cont.Style = cell.Style
		sb.cells[y*sb.width+x+1] = cont
	}
}

// detach blanks the other half of a wide glyph that covers (x, y), so the
// cell can be overwritten without leaving a glyph without its continuation
// or a continuation without its glyph.
func (sb *ScreenBuffer) detach(x, y int) {
	row := y * sb.width
	c := sb.cells[row+x]
	switch {
	case c.IsContinuation() && x > 0 && sb.cells[row+x-1].IsWide():
		sb.cells[row+x-1] = core.BlankCell()
	case c.IsWide() && x+1 < sb.width && sb.cells[row+x+1].IsContinuation():
		sb.cells[row+x+1] = core.BlankCell()
	}
}

// Get returns the cell at (x, y), or false if out of bounds.
func (sb *ScreenBuffer) Get(x, y int) (core.Cell, bool) {
	if !sb.inBounds(x, y) {
		return core.Cell{}, false
	}
	return sb.cells[y*sb.width+x], true
}

// At returns a pointer to the cell at (x, y) for in-place edits,
// or nil if out of bounds.
func (sb *ScreenBuffer) At(x, y int) *core.Cell {
	if !sb.inBounds(x, y) {
		return nil
	}
	return &sb.cells[y*sb.width+x]
}

// Row returns the cells of row y. The slice aliases the buffer.
func (sb *ScreenBuffer) Row(y int) ([]core.Cell, bool) {
	if y < 0 || y >= sb.height {
		return nil, false
	}
	start := y * sb.width
	return sb.cells[start : start+sb.width : start+sb.width], true
}

// SetSegments rasterizes a row of segments starting at column x and
// returns the column after the last cell written. Control segments occupy
// no cell and are skipped. A zero-width cluster, such as a combining mark
// that starts its own segment, is appended to the grapheme of the previous
// cell written by this call; with no such cell it is dropped.
func (sb *ScreenBuffer) SetSegments(x, y int, segs []segment.Segment) int {
	col := x
	for _, seg := range segs {
		if seg.Control {
			continue
		}
		rest := seg.Text
		state := -1
		for rest != "" {
			var cluster string
			var w int
			cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
			if w == 0 {
				sb.attach(x, col, y, cluster)
				continue
			}
			w = min(w, 2)
			sb.Set(col, y, core.Cell{Grapheme: cluster, Width: w, Style: seg.Style})
			col += w
		}
	}
	return col
}

// attach appends a zero-width cluster to the cell ending just before col,
// provided that cell lies at or after start.
func (sb *ScreenBuffer) attach(start, col, y int, cluster string) {
	p := col - 1
	if c := sb.At(p, y); c != nil && c.IsContinuation() {
		p--
	}
	if p < start {
		return
	}
	if c := sb.At(p, y); c != nil {
		c.Grapheme += cluster
	}
}

// Diff returns the changes that turn previous into sb, in row-major order.
// When the sizes differ (or previous is nil) every cell of sb is returned.
func (sb *ScreenBuffer) Diff(previous *ScreenBuffer) []CellChange {
	if previous == nil || sb.width != previous.width || sb.height != previous.height {
		changes := make([]CellChange, 0, len(sb.cells))
		for i, cell := range sb.cells {
			changes = append(changes, CellChange{X: i % sb.width, Y: i / sb.width, Cell: cell})
		}
		return changes
	}

	var changes []CellChange
	for i, cell := range sb.cells {
		if !cell.Equals(previous.cells[i]) {
			changes = append(changes, CellChange{X: i % sb.width, Y: i / sb.width, Cell: cell})
		}
	}
	return changes
}

// String returns the rows as plain text, one line per row,
// skipping continuation cells.
func (sb *ScreenBuffer) String() string {
	var b strings.Builder
	for y := 0; y < sb.height; y++ {
		row, _ := sb.Row(y)
		for _, c := range row {
			if !c.IsContinuation() {
				b.WriteString(c.Grapheme)
			}
		}
		if y < sb.height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
