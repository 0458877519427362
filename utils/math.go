package utils

// AbsInt returns the absolute value of n.
func AbsInt(n int) int {
	if n < 0 {
		return -1 * n
	}
	return n
}

// MaxInt returns the larger of a and b.
func MaxInt(a, b int) int {
	if a < b {
		return b
	}
	return a
}

// MinInt returns the smaller of a and b.
func MinInt(a, b int) int {
	if a > b {
		return b
	}
	return a
}

// Square returns n*n.
func Square(n float64) float64 {
	return n * n
}

// SquareInt returns n*n.
func SquareInt(n int) int {
	return n * n
}

// ClampF64 restricts n to [low, high].
func ClampF64(n, low, high float64) float64 {
	if n < low {
		return low
	}
	if n > high {
		return high
	}
	return n
}

// ClampInt restricts n to [low, high].
func ClampInt(n, low, high int) int {
	if n < low {
		return low
	}
	if n > high {
		return high
	}
	return n
}
