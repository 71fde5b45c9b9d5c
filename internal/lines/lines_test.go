package lines

import (
	"reflect"
	"testing"

	"github.com/joseph-ayodele/translation-backend/internal/entity"
)

func region(text string, x, y, w, h int) entity.TextRegion {
	return entity.TextRegion{Text: text, Box: entity.Box{X: x, Y: y, W: w, H: h}}
}

func TestGroupAndMergeTwoWords(t *testing.T) {
	t.Parallel()
	regions := []entity.TextRegion{
		region("Mundo", 60, 12, 50, 20),
		region("Hola", 10, 10, 40, 20),
	}

	got := Group(regions, 30)
	if len(got) != 1 {
		t.Fatalf("got %d lines, want 1", len(got))
	}
	merged := Merge(got[0])
	if merged.Text != "Hola Mundo" {
		t.Errorf("text = %q, want %q", merged.Text, "Hola Mundo")
	}
	want := entity.Box{X: 10, Y: 10, W: 100, H: 22}
	if merged.Box != want {
		t.Errorf("box = %+v, want %+v", merged.Box, want)
	}
}

func TestMergeSameHeightSpansBothRegions(t *testing.T) {
	t.Parallel()
	left := region("a", 0, 40, 30, 20)
	right := region("b", 80, 40, 25, 20)

	merged := MergeAll(Group([]entity.TextRegion{right, left}, 30))
	if len(merged) != 1 {
		t.Fatalf("got %d lines, want 1", len(merged))
	}
	if got, want := merged[0].Box.W, right.Box.Right()-left.Box.X; got != want {
		t.Errorf("width = %d, want %d", got, want)
	}
	if merged[0].Box.H != 20 {
		t.Errorf("height = %d, want 20", merged[0].Box.H)
	}
}

func TestMergeSingleRegionIsIdentity(t *testing.T) {
	t.Parallel()
	r := region("solo", 7, 9, 33, 14)
	m := Merge(entity.Line{r})
	if m.Box != r.Box || m.Text != r.Text {
		t.Fatalf("Merge(single) = %+v, want %+v", m, r)
	}
	again := Merge(entity.Line{{Text: m.Text, Box: m.Box}})
	if again != m {
		t.Fatalf("re-merge changed result: %+v vs %+v", again, m)
	}
}

func TestGroupSameTopReadingOrder(t *testing.T) {
	t.Parallel()
	regions := []entity.TextRegion{
		region("three", 200, 50, 40, 18),
		region("one", 0, 50, 40, 18),
		region("two", 100, 50, 40, 18),
	}
	got := MergeAll(Group(regions, 30))
	if len(got) != 1 || got[0].Text != "one two three" {
		t.Fatalf("got %+v", got)
	}
}

func TestGroupSeparatesDistantTops(t *testing.T) {
	t.Parallel()
	regions := []entity.TextRegion{
		region("c", 0, 200, 10, 10),
		region("a", 0, 0, 10, 10),
		region("b", 0, 100, 10, 10),
	}
	got := Group(regions, 30)
	if len(got) != 3 {
		t.Fatalf("got %d lines, want 3", len(got))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i][0].Text != want {
			t.Errorf("line %d = %q, want %q", i, got[i][0].Text, want)
		}
	}
}

func TestGroupThresholdIsExclusive(t *testing.T) {
	t.Parallel()
	regions := []entity.TextRegion{region("a", 0, 0, 10, 10), region("b", 20, 30, 10, 10)}
	if got := len(Group(regions, 30)); got != 2 {
		t.Fatalf("distance equal to threshold must split, got %d lines", got)
	}
	if got := len(Group(regions, 31)); got != 1 {
		t.Fatalf("distance below threshold must join, got %d lines", got)
	}
}

func TestGroupAnchorDoesNotDrift(t *testing.T) {
	t.Parallel()
	// each word is 20px below the previous; all within 30 of its neighbour
	// but the third is 40px below the first member.
	regions := []entity.TextRegion{
		region("a", 0, 0, 10, 10),
		region("b", 20, 20, 10, 10),
		region("c", 40, 40, 10, 10),
	}
	got := Group(regions, 30)
	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2", len(got))
	}
	if len(got[0]) != 2 || len(got[1]) != 1 {
		t.Fatalf("unexpected split: %+v", got)
	}
}

func TestGroupDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	regions := []entity.TextRegion{region("b", 0, 100, 10, 10), region("a", 0, 0, 10, 10)}
	before := append([]entity.TextRegion(nil), regions...)
	_ = Group(regions, 30)
	if !reflect.DeepEqual(before, regions) {
		t.Fatalf("input reordered: %+v", regions)
	}
}

func TestGroupEmpty(t *testing.T) {
	t.Parallel()
	if got := Group(nil, 30); got != nil {
		t.Fatalf("Group(nil) = %v", got)
	}
	if got := MergeAll(nil); len(got) != 0 {
		t.Fatalf("MergeAll(nil) = %v", got)
	}
}
