package ledger

import (
	"sort"

	"TwoDBook/internal/model"
)

// OverbuySession is one admin pass over a period's over-limit numbers
// for a target bettor. Candidates are keyed by number with the excess
// over the break limit, computed against the pre-adjustment exposure so
// that re-entering after a commit shows the same candidate list.
type OverbuySession struct {
	Period     string
	Bettor     string
	Candidates map[int]int
	Selected   map[int]bool
}

// OverbuyCandidates returns every number whose current ledger total
// exceeds the period's break limit, with its excess.
func (s *Store) OverbuyCandidates(period string) (map[int]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit, ok := s.limits[period]
	if !ok {
		return nil, ErrNoBreakLimit
	}
	return s.candidatesLocked(period, limit, nil), nil
}

// StartOverbuy opens a selection session for (period, bettor). A
// previously committed selection seeds the session instead of starting
// from scratch.
func (s *Store) StartOverbuy(period, bettor string) (*OverbuySession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit, ok := s.limits[period]
	if !ok {
		return nil, ErrNoBreakLimit
	}
	committed := s.overbuy[period][bettor]
	cands := s.candidatesLocked(period, limit, committed)
	sel := make(map[int]bool)
	for n := range committed {
		if _, ok := cands[n]; ok {
			sel[n] = true
		}
	}
	return &OverbuySession{
		Period:     period,
		Bettor:     bettor,
		Candidates: cands,
		Selected:   sel,
	}, nil
}

// candidatesLocked computes over-limit numbers. The target bettor's
// committed excess is added back so the candidate list reflects the
// exposure before that bettor's adjustments.
func (s *Store) candidatesLocked(period string, limit int, committed map[int]int) map[int]int {
	out := make(map[int]int)
	for n, total := range s.totals[period] {
		if exposure := total + committed[n]; exposure > limit {
			out[n] = exposure - limit
		}
	}
	// Fully adjusted numbers no longer show in totals but are still
	// candidates for the same bettor.
	for n, excess := range committed {
		if _, ok := out[n]; ok {
			continue
		}
		if exposure := s.totals[period][n] + excess; exposure > limit {
			out[n] = exposure - limit
		}
	}
	return out
}

// Toggle flips one candidate's inclusion.
func (o *OverbuySession) Toggle(n int) {
	if _, ok := o.Candidates[n]; ok {
		o.Selected[n] = !o.Selected[n]
	}
}

// SelectAll marks every candidate.
func (o *OverbuySession) SelectAll() {
	for n := range o.Candidates {
		o.Selected[n] = true
	}
}

// Clear unmarks every candidate.
func (o *OverbuySession) Clear() {
	o.Selected = make(map[int]bool)
}

// Selection returns the selected numbers with their excess.
func (o *OverbuySession) Selection() map[int]int {
	out := make(map[int]int)
	for n, on := range o.Selected {
		if on {
			out[n] = o.Candidates[n]
		}
	}
	return out
}

// Numbers returns the candidate numbers in ascending order.
func (o *OverbuySession) Numbers() []int {
	nums := make([]int, 0, len(o.Candidates))
	for n := range o.Candidates {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// CommitOverbuy reconciles the bettor's committed adjustments with the
// desired selection: each selected number carries a negative record
// entry for its excess, numbers dropped from a previous commit are
// reverted. The audit copy always mirrors the committed state.
func (s *Store) CommitOverbuy(period, bettor string, selection map[int]int) error {
	if len(selection) == 0 {
		return ErrEmptySelection
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.overbuy[period] == nil {
		s.overbuy[period] = make(map[string]map[int]int)
	}
	committed := s.overbuy[period][bettor]
	if committed == nil {
		committed = make(map[int]int)
		s.overbuy[period][bettor] = committed
	}

	for n, old := range committed {
		if _, ok := selection[n]; !ok {
			s.setAdjustmentLocked(period, bettor, n, old, 0)
			delete(committed, n)
		}
	}
	for n, excess := range selection {
		if !model.ValidNumber(n) || excess <= 0 {
			continue
		}
		if old := committed[n]; old != excess {
			s.setAdjustmentLocked(period, bettor, n, old, excess)
			committed[n] = excess
		}
	}
	return nil
}

// CommittedOverbuy returns a copy of the bettor's committed adjustments
// for the period.
func (s *Store) CommittedOverbuy(period, bettor string) map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[int]int)
	for n, excess := range s.overbuy[period][bettor] {
		out[n] = excess
	}
	return out
}

// setAdjustmentLocked swaps the bettor's adjustment entry for number n
// from -oldExcess to -newExcess, keeping records and totals in step.
func (s *Store) setAdjustmentLocked(period, bettor string, n, oldExcess, newExcess int) {
	if oldExcess != 0 {
		recs := s.records[bettor][period]
		for i, b := range recs {
			if b.Number == n && b.Amount == -oldExcess {
				s.records[bettor][period] = append(recs[:i], recs[i+1:]...)
				break
			}
		}
	}
	if newExcess != 0 {
		s.ensureRecordLocked(bettor, period)
		s.records[bettor][period] = append(s.records[bettor][period],
			model.Bet{Number: n, Amount: -newExcess})
	}
	s.addTotalLocked(period, n, oldExcess-newExcess)
	s.cascadeLocked(bettor, period)
}
