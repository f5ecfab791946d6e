package compositor

// SelectTopmost returns the index of the layer drawn on top over
// [xStart, xEnd) of row: among the layers spanning the row and the whole
// interval, the one with the greatest Z. On equal Z the later layer in the
// slice wins, matching paint order. Returns false if no layer covers the
// interval.
func SelectTopmost(layers []Layer, row, xStart, xEnd int) (int, bool) {
	best := -1
	for i, l := range layers {
		if !l.CoversSpan(row, xStart, xEnd) {
			continue
		}
		if best < 0 || l.Z >= layers[best].Z {
			best = i
		}
	}
	return best, best >= 0
}
