// Package report renders composed frames and frame diffs for output.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/tidwall/sjson"

	"github.com/dshills/tessera/internal/renderer/backend"
	"github.com/dshills/tessera/internal/renderer/core"
	"github.com/dshills/tessera/internal/renderer/segment"
)

// DiffJSON encodes one frame's cell changes as
//
//	{"frame": N, "count": N, "changes": [{"x", "y", "grapheme", "width", "fg", "bg", "attrs"}]}
func DiffJSON(frame uint64, changes []backend.CellChange) ([]byte, error) {
	out := []byte(`{}`)
	var err error

	if out, err = sjson.SetBytes(out, "frame", frame); err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, "count", len(changes)); err != nil {
		return nil, err
	}
	if out, err = sjson.SetRawBytes(out, "changes", []byte(`[]`)); err != nil {
		return nil, err
	}

	for i, ch := range changes {
		if out, err = sjson.SetRawBytes(out, "changes.-1", changeJSON(ch)); err != nil {
			return nil, fmt.Errorf("encoding change %d: %w", i, err)
		}
	}
	return out, nil
}

func changeJSON(ch backend.CellChange) []byte {
	obj := []byte(`{}`)
	obj, _ = sjson.SetBytes(obj, "x", ch.X)
	obj, _ = sjson.SetBytes(obj, "y", ch.Y)
	obj, _ = sjson.SetBytes(obj, "grapheme", ch.Cell.Grapheme)
	obj, _ = sjson.SetBytes(obj, "width", ch.Cell.Width)
	obj, _ = sjson.SetBytes(obj, "fg", ch.Cell.Style.Foreground.String())
	obj, _ = sjson.SetBytes(obj, "bg", ch.Cell.Style.Background.String())
	obj, _ = sjson.SetRawBytes(obj, "attrs", []byte(`[]`))
	for _, name := range ch.Cell.Style.Attributes.Names() {
		obj, _ = sjson.SetBytes(obj, "attrs.-1", name)
	}
	return obj
}

// Plain returns the frame as text, one line per row.
func Plain(buf *backend.ScreenBuffer) string {
	return buf.String()
}

// RowSegments rebuilds a row of the buffer as style runs. Continuation
// cells are skipped; adjacent cells of equal style are merged.
func RowSegments(buf *backend.ScreenBuffer, y int) []segment.Segment {
	cells, ok := buf.Row(y)
	if !ok {
		return nil
	}
	segs := make([]segment.Segment, 0, len(cells))
	for _, c := range cells {
		if c.IsContinuation() {
			continue
		}
		segs = append(segs, segment.New(c.Grapheme, c.Style))
	}
	return segment.Merge(segs)
}

// ANSI returns the frame with SGR styling in the given color profile, one
// line per row.
func ANSI(buf *backend.ScreenBuffer, profile termenv.Profile) string {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)

	rows := make([]string, buf.Height())
	var sb strings.Builder
	for y := range rows {
		sb.Reset()
		for _, seg := range RowSegments(buf, y) {
			if seg.Style.IsDefault() {
				sb.WriteString(seg.Text)
				continue
			}
			sb.WriteString(lipglossStyle(r, seg.Style).Render(seg.Text))
		}
		rows[y] = sb.String()
	}
	return strings.Join(rows, "\n")
}

func lipglossStyle(r *lipgloss.Renderer, s core.Style) lipgloss.Style {
	ls := r.NewStyle()
	if c, ok := lipglossColor(s.Foreground); ok {
		ls = ls.Foreground(c)
	}
	if c, ok := lipglossColor(s.Background); ok {
		ls = ls.Background(c)
	}

	a := s.Attributes
	if a.Has(core.AttrBold) {
		ls = ls.Bold(true)
	}
	if a.Has(core.AttrDim) {
		ls = ls.Faint(true)
	}
	if a.Has(core.AttrItalic) {
		ls = ls.Italic(true)
	}
	if a.Has(core.AttrUnderline) {
		ls = ls.Underline(true)
	}
	if a.Has(core.AttrBlink) {
		ls = ls.Blink(true)
	}
	if a.Has(core.AttrReverse) {
		ls = ls.Reverse(true)
	}
	if a.Has(core.AttrStrikethrough) {
		ls = ls.Strikethrough(true)
	}
	// lipgloss has no concealed attribute; hidden text renders normally.
	return ls
}

func lipglossColor(c core.Color) (lipgloss.TerminalColor, bool) {
	switch {
	case c.IsDefault():
		return nil, false
	case c.Indexed:
		return lipgloss.ANSIColor(c.R), true
	default:
		return lipgloss.Color(c.ToHex()), true
	}
}
