package model

import "fmt"

// Bet is a single stake on a two-digit number. Amount is positive for
// ordinary bets; overbuy adjustments are stored with a negative amount.
type Bet struct {
	Number int
	Amount int
}

// String renders the bet in the canonical "nn-amount" form. Adjustment
// amounts are shown as their absolute value.
func (b Bet) String() string {
	amt := b.Amount
	if amt < 0 {
		amt = -amt
	}
	return fmt.Sprintf("%02d-%d", b.Number, amt)
}

// ValidNumber reports whether n is a playable two-digit number.
func ValidNumber(n int) bool {
	return n >= 0 && n <= 99
}
