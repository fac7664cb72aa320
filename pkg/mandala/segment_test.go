package mandala

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/errors"
)

const (
	groupRule    = "../icon/sinario_line_1.gif"
	categoryRule = "../icon/sinario_line_2.gif"
)

// tokensFor builds a token stream from a compact description:
// "I" emits the next numbered item, "G" a group rule, "C" a category rule,
// "U" an unknown separator.
func tokensFor(t *testing.T, pattern string) []Token {
	t.Helper()
	var tokens []Token
	n := 0
	for _, r := range pattern {
		switch r {
		case 'I':
			n++
			tokens = append(tokens, Item(fmt.Sprintf("item %d", n)))
		case 'G':
			tokens = append(tokens, Marker(groupRule))
		case 'C':
			tokens = append(tokens, Marker(categoryRule))
		case 'U':
			tokens = append(tokens, Marker("../icon/sinario_line_9.gif"))
		default:
			t.Fatalf("bad pattern rune %q", r)
		}
	}
	return tokens
}

func groupTexts(s *Structure, c Category) [][]string {
	var out [][]string
	for _, g := range s.Groups(c) {
		ts := make([]string, len(g))
		for i, it := range g {
			ts[i] = it.Text
		}
		out = append(out, ts)
	}
	return out
}

func TestSegmentFullScenario(t *testing.T) {
	// I1..I3 G I4..I6 C I7..I9 G I10..I12 C I13..I15
	s, warnings, err := Segment(tokensFor(t, "IIIGIIICIIIGIIICIII"))
	if err != nil {
		t.Fatalf("Segment() error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	want := map[Category][][]string{
		CategoryCause:  {{"item 1", "item 2", "item 3"}, {"item 4", "item 5", "item 6"}},
		CategoryAction: {{"item 7", "item 8", "item 9"}, {"item 10", "item 11", "item 12"}},
		CategoryResult: {{"item 13", "item 14", "item 15"}},
	}
	for c, w := range want {
		if got := groupTexts(s, c); !reflect.DeepEqual(got, w) {
			t.Errorf("%s groups = %v, want %v", c.Key(), got, w)
		}
	}

	for i, it := range s.Items() {
		if it.Ordinal != i+1 {
			t.Fatalf("item %d has ordinal %d, want %d", i, it.Ordinal, i+1)
		}
	}
	if s.TotalItems() != 15 {
		t.Errorf("TotalItems() = %d, want 15", s.TotalItems())
	}
}

func TestSegmentOrdinalsContinuousAcrossBoundaries(t *testing.T) {
	// Boundary placement must not affect ordinal assignment.
	patterns := []string{
		"ICICI",
		"IIGICIGIICII",
		"IGICIICI",
	}
	for _, p := range patterns {
		t.Run(p, func(t *testing.T) {
			s, _, err := Segment(tokensFor(t, p))
			if err != nil {
				t.Fatalf("Segment() error: %v", err)
			}
			items := s.Items()
			for i, it := range items {
				if it.Ordinal != i+1 {
					t.Fatalf("ordinal sequence broken at %d: got %d", i, it.Ordinal)
				}
			}
		})
	}
}

func TestSegmentShortGroupsPreserved(t *testing.T) {
	// A 1-item group and a 2-item group survive untouched.
	s, _, err := Segment(tokensFor(t, "IGIICIIICI"))
	if err != nil {
		t.Fatalf("Segment() error: %v", err)
	}
	cause := groupTexts(s, CategoryCause)
	if len(cause) != 2 || len(cause[0]) != 1 || len(cause[1]) != 2 {
		t.Errorf("cause groups = %v, want sizes [1 2]", cause)
	}
}

func TestSegmentEmptyBoundaryClosesNothing(t *testing.T) {
	// Consecutive group rules produce no empty groups.
	s, _, err := Segment(tokensFor(t, "IIIGGIIICIIICI"))
	if err != nil {
		t.Fatalf("Segment() error: %v", err)
	}
	if got := len(s.Groups(CategoryCause)); got != 2 {
		t.Errorf("cause has %d groups, want 2", got)
	}
}

func TestSegmentUnknownMarkerIgnoredButReported(t *testing.T) {
	s, warnings, err := Segment(tokensFor(t, "IIUICIIICII"))
	if err != nil {
		t.Fatalf("Segment() error: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	if warnings[0].Index != 2 {
		t.Errorf("warning index = %d, want 2", warnings[0].Index)
	}
	// The unknown rule was not a boundary: cause is a single 3-item group.
	if got := len(s.Groups(CategoryCause)); got != 1 {
		t.Errorf("cause has %d groups, want 1", got)
	}
}

func TestSegmentFailures(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		code    errors.Code
	}{
		{"no items at all", "", errors.ErrCodeMissingScenario},
		{"markers only", "GCC", errors.ErrCodeMissingScenario},
		{"single category boundary", "IIICIII", errors.ErrCodeIncompleteScenario},
		{"no boundaries", "IIIIII", errors.ErrCodeIncompleteScenario},
		{"third category boundary", "ICICICI", errors.ErrCodeMalformedScenario},
		{"empty final category", "IIICIIIC", errors.ErrCodeIncompleteScenario},
		{"empty middle category", "ICCI", errors.ErrCodeIncompleteScenario},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, err := Segment(tokensFor(t, tt.pattern))
			if err == nil {
				t.Fatal("Segment() succeeded, want failure")
			}
			if s != nil {
				t.Error("failed segmentation must not return a partial structure")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), tt.code)
			}
		})
	}
}

func TestSegmentIdempotent(t *testing.T) {
	tokens := tokensFor(t, "IIIGIIICIIIGIIICIII")
	a, _, err := Segment(tokens)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := Segment(tokens)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("re-running segmentation on the same stream produced a different structure")
	}
}
