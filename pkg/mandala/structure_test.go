package mandala

import (
	"reflect"
	"testing"
)

func TestSerializeRoundTrip(t *testing.T) {
	s, _, err := Segment(tokensFor(t, "IIIGIICIIICII"))
	if err != nil {
		t.Fatal(err)
	}

	sz := s.Serialize()
	restored := FromSerialized(sz)

	if !reflect.DeepEqual(restored, s) {
		t.Error("FromSerialized(Serialize()) differs from the original structure")
	}
}

func TestFromSerializedDropsEmptyGroups(t *testing.T) {
	sz := Serialized{
		Cause:  [][]string{{"a"}, {}},
		Action: [][]string{{"b"}},
		Result: [][]string{{"c", "d"}},
	}
	s := FromSerialized(sz)
	if got := len(s.Groups(CategoryCause)); got != 1 {
		t.Errorf("cause groups = %d, want 1 (empty group dropped)", got)
	}
	items := s.Items()
	for i, it := range items {
		if it.Ordinal != i+1 {
			t.Fatalf("ordinal %d at position %d", it.Ordinal, i)
		}
	}
}

func TestSerializedEmpty(t *testing.T) {
	if !(Serialized{}).Empty() {
		t.Error("zero value should be empty")
	}
	if (Serialized{Result: [][]string{{"x"}}}).Empty() {
		t.Error("scenario with a result item is not empty")
	}
	if !(Serialized{Cause: [][]string{{}}}).Empty() {
		t.Error("an empty group alone does not make a scenario non-empty")
	}
}

func TestCategoryOf(t *testing.T) {
	s, _, err := Segment(tokensFor(t, "IICIIICII")) // 2 / 3 / 2
	if err != nil {
		t.Fatal(err)
	}
	want := []Category{
		CategoryCause, CategoryCause,
		CategoryAction, CategoryAction, CategoryAction,
		CategoryResult, CategoryResult,
	}
	for i, w := range want {
		if got := s.CategoryOf(i); got != w {
			t.Errorf("CategoryOf(%d) = %v, want %v", i, got, w)
		}
	}
}

func TestCategoryKeysAndLabels(t *testing.T) {
	tests := []struct {
		c     Category
		key   string
		label string
	}{
		{CategoryCause, "cause", "原因"},
		{CategoryAction, "action", "行動"},
		{CategoryResult, "result", "結果"},
	}
	for _, tt := range tests {
		if tt.c.Key() != tt.key {
			t.Errorf("Key() = %q, want %q", tt.c.Key(), tt.key)
		}
		if tt.c.Label() != tt.label {
			t.Errorf("Label() = %q, want %q", tt.c.Label(), tt.label)
		}
	}
}
