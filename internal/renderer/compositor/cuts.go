package compositor

import "slices"

// FindCuts returns the ascending, deduplicated columns at which the topmost
// layer of row may change. The result always starts with 0 and ends with
// screenWidth; in between are the left and right edges of every layer that
// spans row, clamped to the screen. Between two consecutive cuts no layer
// edge falls, so the topmost layer is constant across that interval.
func FindCuts(layers []Layer, row, screenWidth int) []int {
	if screenWidth <= 0 {
		return []int{0}
	}

	cuts := make([]int, 0, 2*len(layers)+2)
	cuts = append(cuts, 0, screenWidth)
	for _, l := range layers {
		if !l.CoversRow(row) {
			continue
		}
		cuts = append(cuts,
			clamp(l.Region.X, 0, screenWidth),
			clamp(l.Region.Right(), 0, screenWidth),
		)
	}

	slices.Sort(cuts)
	return slices.Compact(cuts)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
