package optimise

import (
	"reflect"
	"testing"
)

func TestIntRangeHalfOpen(t *testing.T) {
	dim := IntRange("window", 5, 51, 5)
	want := []float64{5, 10, 15, 20, 25, 30, 35, 40, 45, 50}
	if !reflect.DeepEqual(dim.Values, want) {
		t.Fatalf("IntRange values = %v, want %v", dim.Values, want)
	}

	if got := IntRange("w", 10, 10, 5).Values; len(got) != 0 {
		t.Errorf("empty range produced %v", got)
	}
	if got := IntRange("w", 5, 50, 0).Values; len(got) != 0 {
		t.Errorf("zero step produced %v", got)
	}
}

func TestSpaceSize(t *testing.T) {
	space := Space{List("a", 1, 2, 3), List("b", 10, 20)}
	if space.Size() != 6 {
		t.Fatalf("Size = %d, want 6", space.Size())
	}

	if (Space{}).Size() != 0 {
		t.Error("empty space should have size 0")
	}
	if (Space{List("a", 1), List("b")}).Size() != 0 {
		t.Error("space with an empty dimension should have size 0")
	}
}

func TestCombinationsOrderLastDimensionFastest(t *testing.T) {
	space := Space{List("a", 1, 2), List("b", 10, 20, 30)}
	combos := space.Combinations()

	want := []map[string]float64{
		{"a": 1, "b": 10},
		{"a": 1, "b": 20},
		{"a": 1, "b": 30},
		{"a": 2, "b": 10},
		{"a": 2, "b": 20},
		{"a": 2, "b": 30},
	}
	if !reflect.DeepEqual(combos, want) {
		t.Fatalf("Combinations = %v, want %v", combos, want)
	}
}

func TestCombinationsEmptyDimension(t *testing.T) {
	if got := (Space{List("a", 1), List("b")}).Combinations(); got != nil {
		t.Fatalf("expected nil combinations, got %v", got)
	}
}
