package parser

import (
	"errors"
	"testing"
)

func TestBisectRight(t *testing.T) {
	tests := []struct {
		name string
		a    []int
		x    int
		want int
	}{
		{"empty", nil, 5, 0},
		{"single below", []int{3}, 1, 0},
		{"single equal", []int{3}, 3, 1},
		{"single above", []int{3}, 7, 1},
		{"before first", []int{2, 4, 6}, 1, 0},
		{"equal first", []int{2, 4, 6}, 2, 1},
		{"between", []int{2, 4, 6}, 5, 2},
		{"equal last", []int{2, 4, 6}, 6, 3},
		{"after last", []int{2, 4, 6}, 9, 3},
		{"two elements between", []int{0, 10}, 5, 1},
		{"three elements middle", []int{0, 10, 20}, 10, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BisectRight(tt.a, tt.x); got != tt.want {
				t.Errorf("BisectRight(%v, %d) = %d, want %d", tt.a, tt.x, got, tt.want)
			}
		})
	}
}

func TestBisectRightProperty(t *testing.T) {
	arrays := [][]int{
		{0},
		{0, 1},
		{0, 2, 3, 7},
		{1, 5, 9, 13, 17, 21, 25},
		{-4, -1, 0, 3, 8, 15, 16, 23, 42, 100, 101},
	}
	for _, a := range arrays {
		for x := a[0] - 3; x <= a[len(a)-1]+3; x++ {
			i := BisectRight(a, x)
			if i < 0 || i > len(a) {
				t.Fatalf("BisectRight(%v, %d) = %d out of range", a, x, i)
			}
			if i > 0 && a[i-1] > x {
				t.Errorf("BisectRight(%v, %d) = %d, but a[%d] = %d > x", a, x, i, i-1, a[i-1])
			}
			if i < len(a) && a[i] <= x {
				t.Errorf("BisectRight(%v, %d) = %d, but a[%d] = %d <= x", a, x, i, i, a[i])
			}
		}
	}
}

func TestValidateStarts(t *testing.T) {
	if err := ValidateStarts([]int{0, 3, 4}); err != nil {
		t.Errorf("ValidateStarts(increasing) = %v, want nil", err)
	}
	if err := ValidateStarts(nil); err != nil {
		t.Errorf("ValidateStarts(nil) = %v, want nil", err)
	}
	for _, a := range [][]int{{0, 3, 3}, {5, 2}} {
		err := ValidateStarts(a)
		if !errors.Is(err, ErrIndexMisuse) {
			t.Errorf("ValidateStarts(%v) = %v, want ErrIndexMisuse", a, err)
		}
	}
}
