// Package lossless implements the RIC lossless pipeline: per-channel MED
// prediction with residuals coded by adaptive Golomb-Rice or Zstandard.
package lossless

// Predict computes the MED (median edge detector) prediction from the left,
// above, and above-left neighbors
func Predict(a, b, c int) int {
	maxAB := a
	minAB := b
	if b > a {
		maxAB = b
		minAB = a
	}

	if c >= maxAB {
		return minAB
	}
	if c <= minAB {
		return maxAB
	}
	return a + b - c
}

// MapResidual maps a signed prediction error to a non-negative value for
// Golomb coding: 0, -1, 1, -2, 2, ... -> 0, 1, 2, 3, 4, ...
func MapResidual(e int) int {
	if e >= 0 {
		return 2 * e
	}
	return -2*e - 1
}

// UnmapResidual inverts MapResidual
func UnmapResidual(m int) int {
	if m%2 == 0 {
		return m / 2
	}
	return -(m + 1) / 2
}

// wrapResidual folds a prediction error into [-128, 127] so that the mapped
// value never exceeds 255 and the reconstruction wraps modulo 256
func wrapResidual(e int) int {
	e &= 0xFF
	if e >= 128 {
		e -= 256
	}
	return e
}
