// Package segment provides styled text runs, the unit of row content layers
// hand to the compositor, and the chopper that cuts them to column ranges.
package segment

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/tessera/internal/renderer/core"
)

// Segment is a run of text sharing one style.
//
// Control segments carry non-printing directives. They have no width and
// are skipped when measuring and chopping.
type Segment struct {
	Text    string
	Style   core.Style
	Control bool
}

// New creates a printable segment.
func New(text string, style core.Style) Segment {
	return Segment{Text: text, Style: style}
}

// Plain creates a printable segment with the default style.
func Plain(text string) Segment {
	return Segment{Text: text, Style: core.DefaultStyle()}
}

// Blank returns a default-styled segment of width spaces.
func Blank(width int) Segment {
	if width <= 0 {
		return Segment{Style: core.DefaultStyle()}
	}
	return Segment{Text: strings.Repeat(" ", width), Style: core.DefaultStyle()}
}

// Control creates a control segment.
func Control(text string) Segment {
	return Segment{Text: text, Style: core.DefaultStyle(), Control: true}
}

// Width returns the display width of the segment in cells.
func (s Segment) Width() int {
	if s.Control {
		return 0
	}
	return uniseg.StringWidth(s.Text)
}

// IsEmpty returns true if the segment has no text.
func (s Segment) IsEmpty() bool {
	return s.Text == ""
}

// IsBlank returns true if the segment is printable and holds only spaces.
func (s Segment) IsBlank() bool {
	return !s.Control && strings.Trim(s.Text, " ") == ""
}

// SplitAt splits the segment at display column col.
//
// left holds the grapheme clusters that end at or before col and right the
// clusters that start at or after it. A cluster straddling col (a wide glyph
// cut in half) belongs to neither side; rightCol reports the column, relative
// to the start of the segment, at which right begins, so callers can tell how
// many columns were lost.
func (s Segment) SplitAt(col int) (left, right Segment, rightCol int) {
	left = Segment{Style: s.Style, Control: s.Control}
	right = Segment{Style: s.Style, Control: s.Control}
	if col <= 0 {
		right.Text = s.Text
		return left, right, 0
	}

	var (
		x     int
		rest  = s.Text
		state = -1
		b     strings.Builder
	)
	for rest != "" {
		before := rest
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if x+w <= col {
			b.WriteString(cluster)
			x += w
			continue
		}
		if x < col {
			// Straddles col: dropped from both sides.
			x += w
			right.Text = rest
		} else {
			right.Text = before
		}
		break
	}
	left.Text = b.String()
	return left, right, x
}

// TotalWidth returns the combined display width of segs.
func TotalWidth(segs []Segment) int {
	total := 0
	for _, s := range segs {
		total += s.Width()
	}
	return total
}

// Text concatenates the printable text of segs.
func Text(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		if !s.Control {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// Merge coalesces adjacent printable segments that share a style.
func Merge(segs []Segment) []Segment {
	out := make([]Segment, 0, len(segs))
	for _, s := range segs {
		if s.IsEmpty() {
			continue
		}
		if n := len(out); n > 0 && !s.Control && !out[n-1].Control && out[n-1].Style.Equals(s.Style) {
			out[n-1].Text += s.Text
			continue
		}
		out = append(out, s)
	}
	return out
}
