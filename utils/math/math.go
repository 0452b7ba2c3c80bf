package math

import "golang.org/x/exp/constraints"

// DivCeil divides and rounds up, for splitting a workload across workers
// without losing the remainder.
func DivCeil[T constraints.Integer](dividend, divisor T) T {
	base := dividend / divisor
	if dividend%divisor == 0 {
		return base
	}
	return base + 1
}
