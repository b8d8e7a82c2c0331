// Package utils implements generic helper functions.
package utils

import (
	"golang.org/x/exp/constraints"
)

// Min returns the minimum of the two inputs.
func Min[T constraints.Ordered](a, b T) T {
	if a <= b {
		return a
	}
	return b
}

// Max returns the maximum of the two inputs.
func Max[T constraints.Ordered](a, b T) T {
	if a >= b {
		return a
	}
	return b
}

// MaxSlice returns the maximum value of the input slice.
func MaxSlice[T constraints.Ordered](s []T) (max T) {
	for i := range s {
		max = Max(max, s[i])
	}
	return
}

// EqualSlice returns true if the two slices have the same length and
// identical elements.
func EqualSlice[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Alias1D returns true if x and y share the same base array.
// Taken from http://golang.org/src/pkg/math/big/nat.go#L340 .
func Alias1D[V any](x, y []V) bool {
	return cap(x) > 0 && cap(y) > 0 && &x[0:cap(x)][cap(x)-1] == &y[0:cap(y)][cap(y)-1]
}
