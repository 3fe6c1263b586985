package domain

import "math"

// Monetary amounts are float64 KES values rounded to two decimals at every
// computation boundary. Comparisons must go through AmountsEqual; a raw ==
// on derived amounts is a bug.

// AmountEpsilon is the tolerance for monetary comparisons.
const AmountEpsilon = 0.01

// Round2 rounds an amount to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AmountsEqual reports whether two amounts match within AmountEpsilon.
func AmountsEqual(a, b float64) bool {
	return math.Abs(a-b) < AmountEpsilon
}

// AmountIsZero reports whether an amount is zero within AmountEpsilon.
func AmountIsZero(v float64) bool {
	return math.Abs(v) < AmountEpsilon
}

// ClampNonNegative forces a computed amount to be at least zero.
func ClampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
