package model

// CommissionProfile holds a bettor's commission and payout terms.
// The profile is global to the bettor, not per period.
type CommissionProfile struct {
	CommissionPercent int // 0..100
	PayoutMultiplier  int // "za", >= 0
}

// SettlementLine is the per-bettor outcome of a period settlement.
// Net > 0 means the house collects from the bettor, Net < 0 means
// the house pays out.
type SettlementLine struct {
	Bettor          string
	TotalStaked     int
	Commission      int
	AfterCommission int
	PowerStaked     int
	WinAmount       int
	Net             int
	Profile         CommissionProfile
}

// SettlementReport is the full settlement of one accounting period.
type SettlementReport struct {
	Period       string
	PowerNumber  int
	Lines        []SettlementLine
	AggregateNet int
}

// SubmitResult is what a bettor gets back for one submitted message.
type SubmitResult struct {
	Period      string
	Bets        []Bet
	Accepted    []string
	Applied     int
	Diagnostics []string
}
