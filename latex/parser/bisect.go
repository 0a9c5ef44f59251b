package parser

import "fmt"

// BisectRight returns the smallest index i such that a[i] > x, or len(a)
// if there is none.
//
// a must be strictly increasing. With duplicate entries the result is
// unspecified; see ValidateStarts.
func BisectRight(a []int, x int) int {
	lo, hi := 0, len(a)
	if hi == 0 {
		return 0
	}

	for {
		if a[lo] > x {
			return lo
		}
		if a[hi-1] <= x {
			return hi
		}

		// a[lo] <= x < a[hi-1]
		if hi-lo <= 2 {
			if a[lo+1] > x {
				return lo + 1
			}
			return lo + 2
		}

		mid := (hi + lo) / 2
		if a[mid] > x {
			// keeps a[hi-1] > x
			hi = mid + 1
		} else {
			lo = mid
		}
	}
}

// ValidateStarts checks the precondition of BisectRight.
func ValidateStarts(a []int) error {
	for i := 1; i < len(a); i++ {
		if a[i] <= a[i-1] {
			return &ParseError{
				Err: ErrIndexMisuse,
				Msg: fmt.Sprintf("offset %d at index %d does not exceed offset %d at index %d", a[i], i, a[i-1], i-1),
				Pos: a[i],
			}
		}
	}
	return nil
}
