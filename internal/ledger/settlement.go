package ledger

import (
	"sort"

	"TwoDBook/internal/model"
)

// Settle computes the period's settlement against its power number.
// Overbuy adjustments are already negative record entries, so they
// reduce both the bettor's staked total and the power exposure.
// Returns ErrNoPowerNumber if no power number was set; a period with
// no records yields an empty report.
func (s *Store) Settle(period string) (*model.SettlementReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	power, ok := s.power[period]
	if !ok {
		return nil, ErrNoPowerNumber
	}

	var bettors []string
	for bettor, periods := range s.records {
		if _, ok := periods[period]; ok {
			bettors = append(bettors, bettor)
		}
	}
	sort.Strings(bettors)

	rep := &model.SettlementReport{Period: period, PowerNumber: power}
	for _, bettor := range bettors {
		var total, powerStaked int
		for _, b := range s.records[bettor][period] {
			total += b.Amount
			if b.Number == power {
				powerStaked += b.Amount
			}
		}
		prof := s.profileLocked(bettor)
		commission := floorDiv(total*prof.CommissionPercent, 100)
		after := total - commission
		win := powerStaked * prof.PayoutMultiplier
		line := model.SettlementLine{
			Bettor:          bettor,
			TotalStaked:     total,
			Commission:      commission,
			AfterCommission: after,
			PowerStaked:     powerStaked,
			WinAmount:       win,
			Net:             after - win,
			Profile:         prof,
		}
		rep.Lines = append(rep.Lines, line)
		rep.AggregateNet += line.Net
	}
	return rep, nil
}

// PowerStakes returns each bettor's signed stake on the given number in
// the period. Bettors with a zero stake are omitted.
func (s *Store) PowerStakes(period string, number int) map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]int)
	for bettor, periods := range s.records {
		var staked int
		for _, b := range periods[period] {
			if b.Number == number {
				staked += b.Amount
			}
		}
		if staked != 0 {
			out[bettor] = staked
		}
	}
	return out
}

// floorDiv divides rounding toward negative infinity; integer division
// in Go truncates, which differs for negative totals.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
