package common

// Abs returns the absolute value of an integer
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Clamp limits v to the range [lo, hi]
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DivCeil returns the ceiling of a/b for positive b
func DivCeil(a, b int) int {
	return (a + b - 1) / b
}
