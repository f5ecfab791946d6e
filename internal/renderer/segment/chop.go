package segment

// Chop returns the segments covering exactly the absolute columns
// [cutStart, cutStart+cutWidth) of a row whose content begins at layerX.
//
// Control and empty segments are skipped. Segments are trimmed on either
// side with SplitAt, so a wide glyph straddling a cut boundary is dropped
// rather than rendered in half; the columns it would have occupied, and any
// columns the row has no content for, are filled with blanks. The total
// width of the result is always cutWidth.
func Chop(segs []Segment, layerX, cutStart, cutWidth int) []Segment {
	if cutWidth <= 0 {
		return nil
	}

	cutEnd := cutStart + cutWidth
	out := make([]Segment, 0, len(segs)+1)
	col := cutStart // next column to fill
	x := layerX

	place := func(piece Segment, at int) {
		if at > col {
			out = append(out, Blank(min(at, cutEnd)-col))
			col = min(at, cutEnd)
		}
		out = append(out, piece)
		col += piece.Width()
	}

	for _, seg := range segs {
		if seg.Control || seg.IsEmpty() {
			continue
		}

		w := seg.Width()
		if w == 0 {
			if x >= cutStart && x < cutEnd {
				place(seg, x)
			}
			continue
		}

		segEnd := x + w
		if segEnd <= cutStart {
			x = segEnd
			continue
		}
		if x >= cutEnd {
			break
		}

		piece, pieceX := seg, x
		if x < cutStart {
			_, right, rightCol := seg.SplitAt(cutStart - x)
			piece, pieceX = right, x+rightCol
		}
		if room := cutEnd - pieceX; piece.Width() > room {
			piece, _, _ = piece.SplitAt(room)
		}
		if !piece.IsEmpty() {
			place(piece, pieceX)
		}

		x = segEnd
		if x >= cutEnd {
			break
		}
	}

	if col < cutEnd {
		out = append(out, Blank(cutEnd-col))
	}
	return out
}
