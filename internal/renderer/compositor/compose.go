package compositor

import (
	"github.com/dshills/tessera/internal/renderer/backend"
	"github.com/dshills/tessera/internal/renderer/segment"
)

// ComposeLine returns the segments for one screen row. Their total width is
// always screenWidth; columns no layer covers, or for which the covering
// layer has no row data, are blank.
func ComposeLine(layers []Layer, row, screenWidth int) []segment.Segment {
	cuts := FindCuts(layers, row, screenWidth)
	if len(cuts) < 2 {
		if screenWidth <= 0 {
			return nil
		}
		return []segment.Segment{segment.Blank(screenWidth)}
	}

	out := make([]segment.Segment, 0, len(cuts))
	for i := 0; i+1 < len(cuts); i++ {
		start, end := cuts[i], cuts[i+1]
		width := end - start

		idx, ok := SelectTopmost(layers, row, start, end)
		if !ok {
			out = append(out, segment.Blank(width))
			continue
		}
		layer := layers[idx]
		line, ok := layer.LineForRow(row)
		if !ok {
			out = append(out, segment.Blank(width))
			continue
		}
		out = append(out, segment.Chop(line, layer.Region.X, start, width)...)
	}
	return out
}

// ComposeInto clears buf and rasterizes every row of the composed layers
// into it.
func ComposeInto(buf *backend.ScreenBuffer, layers []Layer) {
	buf.Clear()
	width, height := buf.Size()
	for row := 0; row < height; row++ {
		buf.SetSegments(0, row, ComposeLine(layers, row, width))
	}
}

// Compose allocates a buffer of the given size and composes layers into it.
func Compose(layers []Layer, width, height int) *backend.ScreenBuffer {
	buf := backend.NewScreenBuffer(width, height)
	ComposeInto(buf, layers)
	return buf
}
