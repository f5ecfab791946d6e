// Package compositor merges z-ordered rectangular layers into screen rows.
//
// For each row the compositor finds the columns at which the topmost layer
// can change (cut points), picks the topmost layer for every interval
// between consecutive cuts, and chops that layer's row content to the
// interval. The result is a row of segments whose total width always equals
// the screen width, which is then rasterized into a backend.ScreenBuffer.
//
// Compositing is a pure function of its inputs; layers are read-only for the
// duration of a call and nothing is retained between calls.
package compositor

import (
	"github.com/dshills/tessera/internal/renderer/core"
	"github.com/dshills/tessera/internal/renderer/segment"
)

// Layer is one frame's worth of content for a rectangular screen region.
type Layer struct {
	// ID identifies the layer for logging and debugging.
	ID string

	// Region is the layer's rectangle in absolute screen cells.
	Region core.Region

	// Z is the stacking key. Higher values are drawn on top; equal values
	// are resolved by position in the layer slice, later on top.
	Z int

	// Content holds the segments of each row local to the region. Row i
	// is drawn at screen row Region.Y+i starting at column Region.X.
	Content [][]segment.Segment
}

// NewLayer creates a layer with no content.
func NewLayer(id string, region core.Region, z int) Layer {
	return Layer{ID: id, Region: region, Z: z}
}

// WithRows returns a copy of the layer with one plain segment per row.
func (l Layer) WithRows(style core.Style, rows ...string) Layer {
	content := make([][]segment.Segment, len(rows))
	for i, r := range rows {
		content[i] = []segment.Segment{segment.New(r, style)}
	}
	l.Content = content
	return l
}

// CoversRow returns true if the layer's vertical span contains row.
func (l Layer) CoversRow(row int) bool {
	return l.Region.ContainsRow(row)
}

// CoversSpan returns true if the layer spans row and all of [xStart, xEnd).
func (l Layer) CoversSpan(row, xStart, xEnd int) bool {
	return l.CoversRow(row) && l.Region.ContainsSpan(xStart, xEnd)
}

// LineForRow returns the content for an absolute screen row, or false if
// the row is outside the region or the layer has no data for it.
func (l Layer) LineForRow(row int) ([]segment.Segment, bool) {
	if !l.CoversRow(row) {
		return nil, false
	}
	local := row - l.Region.Y
	if local >= len(l.Content) {
		return nil, false
	}
	return l.Content[local], true
}
