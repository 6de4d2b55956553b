package source_test

import (
	"testing"

	"github.com/yaklabco/emmm/pkg/source"
)

func TestRange_ContentEnd(t *testing.T) {
	t.Parallel()

	desc := source.NewDescriptor("test")
	r := source.NewRange(desc, 2, 10)
	if r.ContentEnd() != 10 {
		t.Errorf("expected End when ActualEnd unset, got %d", r.ContentEnd())
	}
	r.ActualEnd = 7
	if r.ContentEnd() != 7 {
		t.Errorf("expected ActualEnd, got %d", r.ContentEnd())
	}
}

func TestRange_RootFollowsOriginalChain(t *testing.T) {
	t.Parallel()

	desc := source.NewDescriptor("test")
	origin := source.NewRange(desc, 0, 5)
	mid := source.NewRange(desc, 10, 15).WithOriginal(origin)
	leaf := source.NewRange(desc, 20, 25).WithOriginal(mid)

	if leaf.Root() != origin {
		t.Error("Root must follow the chain to the written source")
	}
	if origin.Root() != origin {
		t.Error("a range with no original is its own root")
	}
}

func TestPositionOf(t *testing.T) {
	t.Parallel()

	src := "ab\ncd\ne"

	tests := []struct {
		name   string
		offset int
		line   int
		column int
	}{
		{"start", 0, 1, 1},
		{"mid first line", 1, 1, 2},
		{"newline itself", 2, 1, 3},
		{"second line", 3, 2, 1},
		{"third line", 6, 3, 1},
		{"past end clamps", 100, 3, 2},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			pos := source.PositionOf(src, testCase.offset)
			if pos.Line != testCase.line || pos.Column != testCase.column {
				t.Errorf("expected %d:%d, got %d:%d",
					testCase.line, testCase.column, pos.Line, pos.Column)
			}
		})
	}
}
