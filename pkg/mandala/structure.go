package mandala

// Category identifies one of the three fixed failure-mandala categories.
// The order cause → action → result is part of the taxonomy and never
// changes.
type Category int

const (
	CategoryCause Category = iota
	CategoryAction
	CategoryResult

	// NumCategories is the fixed category count.
	NumCategories = 3
)

// Key returns the JSON key for the category.
func (c Category) Key() string {
	switch c {
	case CategoryCause:
		return "cause"
	case CategoryAction:
		return "action"
	}
	return "result"
}

// Label returns the display label used in diagrams and reports.
func (c Category) Label() string {
	switch c {
	case CategoryCause:
		return "原因"
	case CategoryAction:
		return "行動"
	}
	return "結果"
}

// ScenarioItem is one numbered entry of the scenario. Ordinals are
// assigned by the segmenter, strictly increasing and continuous across
// the entire scenario.
type ScenarioItem struct {
	Ordinal int
	Text    string
}

// Group is an ordered, non-empty run of consecutive items. Groups are
// nominally three items; shorter groups from malformed sources are kept
// as-is, never dropped or padded.
type Group []ScenarioItem

// Structure is the segmented scenario: the three categories in fixed
// order, each holding its groups. It is built once by Segment and is
// read-only input to the layout engine.
type Structure struct {
	categories [NumCategories][]Group
}

// Groups returns the groups of one category.
func (s *Structure) Groups(c Category) []Group {
	return s.categories[c]
}

// Items returns all items flattened in ordinal order.
func (s *Structure) Items() []ScenarioItem {
	var out []ScenarioItem
	for c := range s.categories {
		for _, g := range s.categories[c] {
			out = append(out, g...)
		}
	}
	return out
}

// TotalItems returns the item count across all categories.
func (s *Structure) TotalItems() int {
	n := 0
	for c := range s.categories {
		for _, g := range s.categories[c] {
			n += len(g)
		}
	}
	return n
}

// CategoryOf returns the category holding the item with the given
// 0-based flat index.
func (s *Structure) CategoryOf(index int) Category {
	for c := range s.categories {
		for _, g := range s.categories[c] {
			if index < len(g) {
				return Category(c)
			}
			index -= len(g)
		}
	}
	return CategoryResult
}

// Serialized is the persisted form of the scenario field: ordered groups
// of item texts per category. Ordinals are positional and re-derivable,
// so they are dropped.
type Serialized struct {
	Cause  [][]string `json:"cause"`
	Action [][]string `json:"action"`
	Result [][]string `json:"result"`
}

// Serialize converts the structure to its persisted form.
func (s *Structure) Serialize() Serialized {
	texts := func(c Category) [][]string {
		out := make([][]string, 0, len(s.categories[c]))
		for _, g := range s.categories[c] {
			ts := make([]string, len(g))
			for i, it := range g {
				ts[i] = it.Text
			}
			out = append(out, ts)
		}
		return out
	}
	return Serialized{
		Cause:  texts(CategoryCause),
		Action: texts(CategoryAction),
		Result: texts(CategoryResult),
	}
}

// Empty reports whether no category holds any item.
func (sz Serialized) Empty() bool {
	for _, groups := range [][][]string{sz.Cause, sz.Action, sz.Result} {
		for _, g := range groups {
			if len(g) > 0 {
				return false
			}
		}
	}
	return true
}

// FromSerialized rebuilds a Structure from its persisted form,
// re-deriving global ordinals from position. This is how stored case
// records re-enter the layout engine.
func FromSerialized(sz Serialized) *Structure {
	s := &Structure{}
	ordinal := 1
	restore := func(c Category, groups [][]string) {
		for _, ts := range groups {
			if len(ts) == 0 {
				continue
			}
			g := make(Group, len(ts))
			for i, t := range ts {
				g[i] = ScenarioItem{Ordinal: ordinal, Text: t}
				ordinal++
			}
			s.categories[c] = append(s.categories[c], g)
		}
	}
	restore(CategoryCause, sz.Cause)
	restore(CategoryAction, sz.Action)
	restore(CategoryResult, sz.Result)
	return s
}
