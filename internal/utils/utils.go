// Package utils provides small helpers shared across packages.
package utils

import (
	"golang.org/x/exp/constraints"
)

// NextPowerOfTwo returns the smallest power of two >= n. For n <= 0 it
// returns 1.
func NextPowerOfTwo[T constraints.Integer](n T) T {
	if n <= 0 {
		return 1
	}
	var p T = 1
	for p < n {
		p <<= 1
	}
	return p
}

// Log2Ceil returns ceil(log2(n)) for n >= 1.
func Log2Ceil[T constraints.Integer](n T) int {
	res := 0
	for p := T(1); p < n; p <<= 1 {
		res++
	}
	return res
}
