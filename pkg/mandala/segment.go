package mandala

import (
	"github.com/daikumatan/shippai-knowledge-etl/pkg/errors"
)

// UnknownMarker records a separator that matched neither known rule
// signature. It is reported as a warning; segmentation does not treat
// the marker as a boundary.
type UnknownMarker struct {
	Index int    // position in the token stream
	Asset string // the unmatched asset reference
}

// Segment walks the token stream in order and produces the segmented
// scenario structure. It is a pure function: no I/O, no shared state.
//
// Items receive global ordinals starting at 1. A group boundary closes
// the in-progress group; a category boundary closes it and advances to
// the next category. A boundary with no items since the previous one
// closes nothing. The trailing group is closed at end of stream.
//
// Segment fails with MISSING_SCENARIO when the stream holds no items,
// MALFORMED_SCENARIO on a third category boundary, and
// INCOMPLETE_SCENARIO when fewer than two category boundaries were seen
// or any category ends without groups. On failure no Structure is
// returned: the case is ineligible as a whole.
func Segment(tokens []Token) (*Structure, []UnknownMarker, error) {
	s := &Structure{}
	var (
		current    Group
		category   = CategoryCause
		ordinal    = 0
		boundaries = 0
		warnings   []UnknownMarker
	)

	closeGroup := func() {
		if len(current) > 0 {
			s.categories[category] = append(s.categories[category], current)
			current = nil
		}
	}

	for i, tok := range tokens {
		switch tok.Kind {
		case TokenItem:
			ordinal++
			current = append(current, ScenarioItem{Ordinal: ordinal, Text: tok.Text})
		case TokenMarker:
			switch tok.Marker {
			case MarkerGroupBoundary:
				closeGroup()
			case MarkerCategoryBoundary:
				closeGroup()
				boundaries++
				if boundaries > NumCategories-1 {
					return nil, warnings, errors.New(errors.ErrCodeMalformedScenario,
						"third category boundary at token %d", i)
				}
				category++
			case MarkerUnknown:
				warnings = append(warnings, UnknownMarker{Index: i, Asset: tok.Asset})
			}
		}
	}
	closeGroup()

	if ordinal == 0 {
		return nil, warnings, errors.New(errors.ErrCodeMissingScenario,
			"scenario page has no items")
	}
	if boundaries < NumCategories-1 {
		return nil, warnings, errors.New(errors.ErrCodeIncompleteScenario,
			"%d category boundaries, need %d", boundaries, NumCategories-1)
	}
	for c := range s.categories {
		if len(s.categories[c]) == 0 {
			return nil, warnings, errors.New(errors.ErrCodeIncompleteScenario,
				"category %s has no groups", Category(c).Key())
		}
	}
	return s, warnings, nil
}
