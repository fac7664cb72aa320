package report

import "golang.org/x/text/width"

// displayWidth measures s in half-width character cells: East Asian
// wide and fullwidth runes count 2, everything else 1.
func displayWidth(s string) int {
	var w int
	for _, r := range s {
		w += runeWidth(r)
	}
	return w
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

// truncate shortens s to at most maxCells display cells, appending an
// ellipsis when anything was cut. Bar labels in the diagram get a fixed
// cell budget derived from the bar width.
func truncate(s string, maxCells int) string {
	if displayWidth(s) <= maxCells {
		return s
	}
	const ellipsis = "…" // wide, costs 2 cells
	budget := maxCells - 2
	var w int
	for i, r := range s {
		rw := runeWidth(r)
		if w+rw > budget {
			return s[:i] + ellipsis
		}
		w += rw
	}
	return s
}
