package combat

// fractionFloor returns floor(n / d) for any sign of n; d must be positive.
// A zero denominator yields zero.
func fractionFloor(n, d int) int {
	if d == 0 {
		return 0
	}
	q := n / d
	if n%d != 0 && (n < 0) != (d < 0) {
		q--
	}
	return q
}

// fractionCeiling returns ceil(n / d) for any sign of n; d must be positive.
// A zero denominator yields zero.
func fractionCeiling(n, d int) int {
	if d == 0 {
		return 0
	}
	q := n / d
	if n%d != 0 && (n < 0) == (d < 0) {
		q++
	}
	return q
}

// isFractional reports whether value is not a multiple of unit.
func isFractional(value, unit int) bool {
	return unit != 0 && value%unit != 0
}
