package game

import "fmt"

// chipScale is the number of Chips units in one whole chip.
const chipScale = 100

// Chips is a chip amount in hundredths of a chip. Bets are whole chips, but
// a natural pays 2.5x, which needs the extra precision for odd bets.
type Chips int64

// WholeChips converts a whole-chip count into Chips.
func WholeChips(n int) Chips {
	return Chips(n) * chipScale
}

// Whole returns the amount truncated to whole chips.
func (c Chips) Whole() int {
	return int(c / chipScale)
}

// IsWhole reports whether the amount has no fractional part.
func (c Chips) IsWhole() bool {
	return c%chipScale == 0
}

// Mul scales the amount by num/den, rounding toward zero.
func (c Chips) Mul(num, den int64) Chips {
	return Chips(int64(c) * num / den)
}

// String formats whole amounts without decimals ("25") and fractional ones
// with two places ("37.50").
func (c Chips) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	if v%chipScale == 0 {
		return fmt.Sprintf("%s%d", sign, v/chipScale)
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/chipScale, v%chipScale)
}
