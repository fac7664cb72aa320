package layout

import (
	"fmt"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/mandala"
)

// Canvas is the target drawing surface in user units.
type Canvas struct {
	Width  float64
	Height float64
}

// Style carries the visual parameters of the diagonal diagram. It is
// passed explicitly into every layout call; nothing is read from ambient
// state.
type Style struct {
	BarWidth  float64 // fixed "time slot" width of every bar
	BarHeight float64

	MarginLeft   float64
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64

	GroupGap    float64 // extra vertical space at a group boundary
	CategoryGap float64 // extra vertical space at a category boundary
	BracketGap  float64 // space between the bars and the bracket column
	AxisGap     float64 // space between the axis label and the first bar

	FontSize float64

	CauseFill  string
	ActionFill string
	ResultFill string

	AxisText string
}

// DefaultStyle returns the archive's diagram style: pale category tints
// and the Japanese time-axis annotation.
func DefaultStyle() Style {
	return Style{
		BarWidth:     320,
		BarHeight:    16,
		MarginLeft:   8,
		MarginTop:    28,
		MarginRight:  60,
		MarginBottom: 12,
		GroupGap:     8,
		CategoryGap:  14,
		BracketGap:   6,
		AxisGap:      8,
		FontSize:     11,
		CauseFill:    "#dce6f1",
		ActionFill:   "#e2efda",
		ResultFill:   "#fce4d6",
		AxisText:     "（時間の進行）→",
	}
}

// FillFor returns the bar fill for a category. Fill is decided strictly
// by category, never by group or ordinal.
func (st Style) FillFor(c mandala.Category) string {
	switch c {
	case mandala.CategoryCause:
		return st.CauseFill
	case mandala.CategoryAction:
		return st.ActionFill
	}
	return st.ResultFill
}

// boundaryAfter describes the separator between item i and i+1.
// The zero value means the two items share a group.
type boundaryAfter struct {
	group    bool
	category bool
}

// Diagonal lays out a segmented scenario as a top-left-to-bottom-right
// staircase and returns the declarative drawing plan. It is a pure
// function of its inputs.
//
// Step sizes derive from the canvas divided by the item count, so the
// whole diagram fits regardless of scenario length. A category that
// arrives empty is skipped for bracket and separator purposes; an empty
// structure yields a plan with no primitives.
func Diagonal(s *mandala.Structure, canvas Canvas, st Style) Plan {
	plan := Plan{Width: canvas.Width, Height: canvas.Height}
	if s == nil {
		return plan
	}
	items := s.Items()
	n := len(items)
	if n == 0 {
		return plan
	}

	boundaries := boundariesOf(s)

	var gapSum float64
	for _, b := range boundaries {
		gapSum += gapOf(b, st)
	}

	availW := canvas.Width - st.MarginLeft - st.MarginRight
	availH := canvas.Height - st.MarginTop - st.MarginBottom
	stepX := (availW - st.BarWidth) / float64(n)
	if stepX < 0 {
		stepX = 0
	}
	rowH := (availH - gapSum) / float64(n)
	if rowH < 0 {
		rowH = 0
	}
	barH := st.BarHeight
	if barH > rowH && rowH > 0 {
		barH = rowH
	}

	// Item positions: both offsets grow monotonically with the index.
	xs := make([]float64, n)
	ys := make([]float64, n)
	y := st.MarginTop
	for i := range items {
		xs[i] = st.MarginLeft + float64(i)*stepX
		ys[i] = y
		y += rowH
		if i < n-1 {
			y += gapOf(boundaries[i], st)
		}
	}

	for i, it := range items {
		plan.Primitives = append(plan.Primitives, Rect{
			X:     xs[i],
			Y:     ys[i],
			W:     st.BarWidth,
			H:     barH,
			Fill:  st.FillFor(s.CategoryOf(i)),
			Label: fmt.Sprintf("%02d. %s", it.Ordinal, it.Text),
		})
	}

	for i := 0; i < n-1; i++ {
		b := boundaries[i]
		if !b.group && !b.category {
			continue
		}
		midY := ys[i+1] - gapOf(b, st)/2
		if b.category {
			plan.Primitives = append(plan.Primitives, SeparatorLine{
				X1: xs[i+1] - 2, Y1: midY,
				X2: xs[i+1] + st.BarWidth + 4, Y2: midY,
				Weight: WeightThickDouble,
			})
		} else {
			plan.Primitives = append(plan.Primitives, SeparatorLine{
				X1: xs[i+1], Y1: midY,
				X2: xs[i+1] + st.BarWidth, Y2: midY,
				Weight: WeightThin,
			})
		}
	}

	idx := 0
	for c := mandala.CategoryCause; c <= mandala.CategoryResult; c++ {
		count := 0
		for _, g := range s.Groups(c) {
			count += len(g)
		}
		if count == 0 {
			continue
		}
		first, last := idx, idx+count-1
		plan.Primitives = append(plan.Primitives, Bracket{
			X:       xs[last] + st.BarWidth + st.BracketGap,
			YTop:    ys[first],
			YBottom: ys[last] + barH,
			Label:   c.Label(),
		})
		idx += count
	}

	plan.Primitives = append(plan.Primitives, AxisLabel{
		X:    xs[0],
		Y:    ys[0] - st.AxisGap,
		Text: st.AxisText,
	})

	return plan
}

// boundariesOf derives the separator kind between each pair of
// consecutive items from group and category membership. The slice has
// TotalItems()-1 entries.
func boundariesOf(s *mandala.Structure) []boundaryAfter {
	total := s.TotalItems()
	if total < 2 {
		return nil
	}
	boundaries := make([]boundaryAfter, total-1)

	idx := 0
	seen := 0 // items in earlier, non-empty categories
	for c := mandala.CategoryCause; c <= mandala.CategoryResult; c++ {
		groups := s.Groups(c)
		count := 0
		for gi, g := range groups {
			idx += len(g)
			count += len(g)
			if idx < total && gi < len(groups)-1 {
				boundaries[idx-1].group = true
			}
		}
		if count == 0 {
			continue
		}
		// The boundary after this category's last item is a category
		// boundary, unless this is the final non-empty category.
		if seen+count < total {
			boundaries[seen+count-1] = boundaryAfter{category: true}
		}
		seen += count
	}
	return boundaries
}

// gapOf returns the extra vertical space a boundary adds.
func gapOf(b boundaryAfter, st Style) float64 {
	switch {
	case b.category:
		return st.CategoryGap
	case b.group:
		return st.GroupGap
	}
	return 0
}
