package parser

import "testing"

func TestLineIndexPosition(t *testing.T) {
	li := NewLineIndex("doc.tex", []byte("ab\ncd\n"))
	if li.LineCount() != 3 {
		t.Errorf("LineCount = %d, want 3", li.LineCount())
	}

	tests := []struct {
		offset int
		line   int
		column int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{4, 2, 2},
		{6, 3, 1},
		{100, 3, 1},
		{-5, 1, 1},
	}
	for _, tt := range tests {
		pos := li.Position(tt.offset)
		if pos.Line != tt.line || pos.Column != tt.column {
			t.Errorf("Position(%d) = %d:%d, want %d:%d", tt.offset, pos.Line, pos.Column, tt.line, tt.column)
		}
		if pos.File != "doc.tex" {
			t.Errorf("Position(%d).File = %q, want %q", tt.offset, pos.File, "doc.tex")
		}
	}
}

func TestLineIndexOffset(t *testing.T) {
	li := NewLineIndex("", []byte("ab\ncd\n"))
	tests := []struct {
		line   int
		column int
		want   int
	}{
		{1, 1, 0},
		{2, 2, 4},
		{1, 10, 2},
		{3, 5, 6},
		{0, 1, 0},
		{9, 1, 6},
	}
	for _, tt := range tests {
		if got := li.Offset(tt.line, tt.column); got != tt.want {
			t.Errorf("Offset(%d, %d) = %d, want %d", tt.line, tt.column, got, tt.want)
		}
	}
}
