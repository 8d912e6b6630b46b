package caret

import (
	"testing"

	"github.com/dshills/multicaret/internal/buffer"
)

func TestTransformOffset(t *testing.T) {
	tests := []struct {
		name   string
		offset Offset
		edit   Edit
		want   Offset
	}{
		{"insert before", 10, buffer.NewInsert(2, "abc"), 13},
		{"insert at offset", 10, buffer.NewInsert(10, "abc"), 10},
		{"insert after", 10, buffer.NewInsert(15, "abc"), 10},
		{"delete before", 10, buffer.NewDelete(2, 5), 7},
		{"delete after", 10, buffer.NewDelete(12, 15), 10},
		{"delete spanning", 10, buffer.NewDelete(5, 15), 5},
		{"replace spanning", 10, buffer.Edit{Range: buffer.NewRange(5, 15), NewText: "xy"}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TransformOffset(tt.offset, tt.edit); got != tt.want {
				t.Errorf("TransformOffset(%d) = %d, want %d", tt.offset, got, tt.want)
			}
		})
	}
}

func TestTransformSelection(t *testing.T) {
	sel := NewSelection(5, 12)
	got := TransformSelection(sel, buffer.NewInsert(2, "abc"))
	if got.Anchor != 8 || got.Head != 15 {
		t.Errorf("expected (8,15), got %s", got)
	}

	got = TransformSelection(sel, buffer.NewDelete(6, 10))
	if got.Anchor != 5 || got.Head != 8 {
		t.Errorf("expected (5,8), got %s", got)
	}
}
