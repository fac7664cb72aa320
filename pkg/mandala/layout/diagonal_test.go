package layout

import (
	"strings"
	"testing"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/mandala"
)

// structureFor builds a structure from group sizes per category.
func structureFor(t *testing.T, cause, action, result []int) *mandala.Structure {
	t.Helper()
	sz := mandala.Serialized{}
	n := 0
	fill := func(sizes []int) [][]string {
		var groups [][]string
		for _, size := range sizes {
			g := make([]string, size)
			for i := range g {
				n++
				g[i] = strings.Repeat("x", 3)
			}
			groups = append(groups, g)
		}
		return groups
	}
	sz.Cause = fill(cause)
	sz.Action = fill(action)
	sz.Result = fill(result)
	return mandala.FromSerialized(sz)
}

func defaultCanvas() Canvas { return Canvas{Width: 800, Height: 600} }

func TestDiagonalMonotonicOffsets(t *testing.T) {
	tests := []struct {
		name                  string
		cause, action, result []int
	}{
		{"full mandala", []int{3, 3}, []int{3, 3}, []int{3}},
		{"short groups", []int{1}, []int{2}, []int{3, 1}},
		{"single items", []int{1}, []int{1}, []int{1}},
		{"long scenario", []int{3, 3, 3, 3}, []int{3, 3, 3}, []int{3, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := structureFor(t, tt.cause, tt.action, tt.result)
			plan := Diagonal(s, defaultCanvas(), DefaultStyle())

			rects := plan.Rects()
			if len(rects) != s.TotalItems() {
				t.Fatalf("%d rects for %d items", len(rects), s.TotalItems())
			}
			for i := 1; i < len(rects); i++ {
				if rects[i].X < rects[i-1].X || rects[i].Y < rects[i-1].Y {
					t.Errorf("rect %d at (%g,%g) not below-right of rect %d at (%g,%g)",
						i, rects[i].X, rects[i].Y, i-1, rects[i-1].X, rects[i-1].Y)
				}
			}
		})
	}
}

func TestDiagonalFitsCanvas(t *testing.T) {
	// Step sizes derive from the canvas, so even a long scenario stays
	// inside the frame.
	s := structureFor(t, []int{3, 3, 3, 3, 3}, []int{3, 3, 3, 3}, []int{3, 3, 3})
	canvas := defaultCanvas()
	plan := Diagonal(s, canvas, DefaultStyle())

	for i, r := range plan.Rects() {
		if r.Y+r.H > canvas.Height {
			t.Errorf("rect %d bottom %g exceeds canvas height %g", i, r.Y+r.H, canvas.Height)
		}
	}
}

func TestDiagonalSeparators(t *testing.T) {
	// cause=[3,3] action=[3,3] result=[3]: thin after items 3 and 9,
	// thickDouble after items 6 and 12 (1-based).
	s := structureFor(t, []int{3, 3}, []int{3, 3}, []int{3})
	plan := Diagonal(s, defaultCanvas(), DefaultStyle())

	seps := plan.Separators()
	if len(seps) != 4 {
		t.Fatalf("got %d separators, want 4", len(seps))
	}
	want := []Weight{WeightThin, WeightThickDouble, WeightThin, WeightThickDouble}
	for i, w := range want {
		if seps[i].Weight != w {
			t.Errorf("separator %d weight = %s, want %s", i, seps[i].Weight, w)
		}
	}

	// Separators sit between their neighboring bars.
	rects := plan.Rects()
	if y := seps[1].Y1; y <= rects[5].Y+rects[5].H || y >= rects[6].Y {
		t.Errorf("category separator y=%g not between bars (%g, %g)",
			y, rects[5].Y+rects[5].H, rects[6].Y)
	}
}

func TestDiagonalNoSeparatorWithinGroup(t *testing.T) {
	s := structureFor(t, []int{3}, []int{3}, []int{3})
	plan := Diagonal(s, defaultCanvas(), DefaultStyle())
	seps := plan.Separators()
	if len(seps) != 2 {
		t.Fatalf("got %d separators, want only the 2 category rules", len(seps))
	}
	for _, sep := range seps {
		if sep.Weight != WeightThickDouble {
			t.Errorf("unexpected %s separator inside single-group categories", sep.Weight)
		}
	}
}

func TestDiagonalFillByCategory(t *testing.T) {
	s := structureFor(t, []int{2}, []int{2}, []int{2})
	st := DefaultStyle()
	plan := Diagonal(s, defaultCanvas(), st)
	rects := plan.Rects()

	wantFills := []string{
		st.CauseFill, st.CauseFill,
		st.ActionFill, st.ActionFill,
		st.ResultFill, st.ResultFill,
	}
	for i, w := range wantFills {
		if rects[i].Fill != w {
			t.Errorf("rect %d fill = %s, want %s", i, rects[i].Fill, w)
		}
	}
}

func TestDiagonalLabels(t *testing.T) {
	s := mandala.FromSerialized(mandala.Serialized{
		Cause:  [][]string{{"配管が腐食"}},
		Action: [][]string{{"点検を省略"}},
		Result: [][]string{{"蒸気漏えい"}},
	})
	plan := Diagonal(s, defaultCanvas(), DefaultStyle())
	rects := plan.Rects()
	if rects[0].Label != "01. 配管が腐食" {
		t.Errorf("label = %q, want zero-padded ordinal prefix", rects[0].Label)
	}
	if rects[2].Label != "03. 蒸気漏えい" {
		t.Errorf("label = %q", rects[2].Label)
	}
}

func TestDiagonalBrackets(t *testing.T) {
	s := structureFor(t, []int{3, 3}, []int{3}, []int{2})
	plan := Diagonal(s, defaultCanvas(), DefaultStyle())

	brackets := plan.Brackets()
	if len(brackets) != 3 {
		t.Fatalf("got %d brackets, want 3", len(brackets))
	}
	wantLabels := []string{"原因", "行動", "結果"}
	for i, b := range brackets {
		if b.Label != wantLabels[i] {
			t.Errorf("bracket %d label = %q, want %q", i, b.Label, wantLabels[i])
		}
		if b.YBottom <= b.YTop {
			t.Errorf("bracket %d has empty span", i)
		}
	}

	// Cause bracket spans the first six bars.
	rects := plan.Rects()
	if brackets[0].YTop != rects[0].Y {
		t.Errorf("cause bracket top %g, want %g", brackets[0].YTop, rects[0].Y)
	}
	if brackets[0].YBottom != rects[5].Y+rects[5].H {
		t.Errorf("cause bracket bottom %g, want %g", brackets[0].YBottom, rects[5].Y+rects[5].H)
	}
}

func TestDiagonalEmptyCategorySkipped(t *testing.T) {
	// Should be impossible after segmentation, but the engine must not
	// crash on it: the empty category gets no bracket.
	s := mandala.FromSerialized(mandala.Serialized{
		Cause:  [][]string{{"a", "b"}},
		Result: [][]string{{"c"}},
	})
	plan := Diagonal(s, defaultCanvas(), DefaultStyle())
	if got := len(plan.Brackets()); got != 2 {
		t.Errorf("got %d brackets, want 2", got)
	}
	seps := plan.Separators()
	if len(seps) != 1 || seps[0].Weight != WeightThickDouble {
		t.Errorf("want a single category separator between the remaining categories, got %v", seps)
	}
}

func TestDiagonalAxisLabel(t *testing.T) {
	s := structureFor(t, []int{1}, []int{1}, []int{1})
	st := DefaultStyle()
	plan := Diagonal(s, defaultCanvas(), st)

	var labels []AxisLabel
	for _, prim := range plan.Primitives {
		if a, ok := prim.(AxisLabel); ok {
			labels = append(labels, a)
		}
	}
	if len(labels) != 1 {
		t.Fatalf("got %d axis labels, want exactly 1", len(labels))
	}
	first := plan.Rects()[0]
	if labels[0].Y >= first.Y {
		t.Errorf("axis label y=%g not above the first bar y=%g", labels[0].Y, first.Y)
	}
	if labels[0].Text != st.AxisText {
		t.Errorf("axis text = %q", labels[0].Text)
	}
}

func TestDiagonalEmptyStructure(t *testing.T) {
	plan := Diagonal(nil, defaultCanvas(), DefaultStyle())
	if len(plan.Primitives) != 0 {
		t.Error("nil structure should produce an empty plan")
	}
	plan = Diagonal(&mandala.Structure{}, defaultCanvas(), DefaultStyle())
	if len(plan.Primitives) != 0 {
		t.Error("empty structure should produce an empty plan")
	}
	if plan.Width != 800 || plan.Height != 600 {
		t.Error("empty plan keeps canvas dimensions")
	}
}
