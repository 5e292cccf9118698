// Package ledger keeps the book: per-bettor bet records, the per-period
// number ledger, the period open/close gate, commission profiles, power
// numbers, break limits and the overbuy audit trail.
//
// The store is a single-writer design guarded by one mutex; the bot
// dispatches one update at a time, the lock only protects against the
// scheduler's background tasks. The two mutable structures (bettor
// records and period totals) are always changed together so that the
// total for a number equals the sum of signed record amounts.
package ledger

import (
	"errors"
	"sort"
	"sync"

	"TwoDBook/internal/model"
)

var (
	ErrNotFound       = errors.New("no matching record")
	ErrNoPowerNumber  = errors.New("power number not set")
	ErrNoBreakLimit   = errors.New("break limit not set")
	ErrEmptySelection = errors.New("empty overbuy selection")
)

// Store holds all book-keeping state for every accounting period.
type Store struct {
	mu       sync.Mutex
	records  map[string]map[string][]model.Bet // bettor -> period -> bets, submission order
	totals   map[string]map[int]int            // period -> number -> signed total
	open     map[string]bool                   // period gate
	power    map[string]int                    // period -> power number
	limits   map[string]int                    // period -> break limit
	profiles map[string]model.CommissionProfile
	overbuy  map[string]map[string]map[int]int // period -> bettor -> number -> committed excess
	defaults model.CommissionProfile
}

// NewStore creates an empty store. Bettors without an explicit profile
// settle with the given defaults.
func NewStore(defaults model.CommissionProfile) *Store {
	return &Store{
		records:  make(map[string]map[string][]model.Bet),
		totals:   make(map[string]map[int]int),
		open:     make(map[string]bool),
		power:    make(map[string]int),
		limits:   make(map[string]int),
		profiles: make(map[string]model.CommissionProfile),
		overbuy:  make(map[string]map[string]map[int]int),
		defaults: defaults,
	}
}

// Commit appends bets to the bettor's period record and adds them to the
// period ledger. Bets with an out-of-range number are skipped; the
// returned total covers only what was applied.
func (s *Store) Commit(period, bettor string, bets []model.Bet) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := 0
	for _, b := range bets {
		if !model.ValidNumber(b.Number) {
			continue
		}
		s.ensureRecordLocked(bettor, period)
		s.records[bettor][period] = append(s.records[bettor][period], b)
		s.addTotalLocked(period, b.Number, b.Amount)
		applied += b.Amount
	}
	return applied
}

// Undo removes one matching (number, amount) occurrence per bet from the
// bettor's period record and subtracts it from the ledger. Nothing is
// mutated unless every bet finds a match. Emptied record entries are
// cascade-deleted.
func (s *Store) Undo(period, bettor string, bets []model.Bet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, ok := s.records[bettor][period]
	if !ok {
		return ErrNotFound
	}
	scratch := append([]model.Bet(nil), recs...)
	for _, b := range bets {
		idx := -1
		for i, r := range scratch {
			if r == b {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrNotFound
		}
		scratch = append(scratch[:idx], scratch[idx+1:]...)
	}

	s.records[bettor][period] = scratch
	for _, b := range bets {
		s.addTotalLocked(period, b.Number, -b.Amount)
	}
	s.cascadeLocked(bettor, period)
	return nil
}

// Totals returns a snapshot of the period ledger. Numbers with a zero
// total are never present.
func (s *Store) Totals(period string) map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[int]int, len(s.totals[period]))
	for n, v := range s.totals[period] {
		out[n] = v
	}
	return out
}

// IsOpen reports whether the period accepts bets. Periods are closed
// until explicitly opened.
func (s *Store) IsOpen(period string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open[period]
}

// SetOpen opens or closes the period gate.
func (s *Store) SetOpen(period string, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open[period] = open
}

// SetPowerNumber records the drawn number for the period.
func (s *Store) SetPowerNumber(period string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.power[period] = n
}

// PowerNumber returns the period's power number, if set.
func (s *Store) PowerNumber(period string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.power[period]
	return n, ok
}

// SetBreakLimit records the period's exposure limit.
func (s *Store) SetBreakLimit(period string, limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limits[period] = limit
}

// BreakLimit returns the period's break limit, if set.
func (s *Store) BreakLimit(period string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.limits[period]
	return l, ok
}

// SetProfile stores a bettor's commission/payout terms.
func (s *Store) SetProfile(bettor string, p model.CommissionProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[bettor] = p
}

// Profile returns the bettor's terms, falling back to the defaults.
func (s *Store) Profile(bettor string) model.CommissionProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileLocked(bettor)
}

func (s *Store) profileLocked(bettor string) model.CommissionProfile {
	if p, ok := s.profiles[bettor]; ok {
		return p
	}
	return s.defaults
}

// Bettors lists every bettor with at least one recorded bet, sorted.
func (s *Store) Bettors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.records))
	for b := range s.records {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}

// History returns a copy of every period record for one bettor.
func (s *Store) History(bettor string) (map[string][]model.Bet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	periods, ok := s.records[bettor]
	if !ok {
		return nil, false
	}
	out := make(map[string][]model.Bet, len(periods))
	for p, recs := range periods {
		out[p] = append([]model.Bet(nil), recs...)
	}
	return out, true
}

// PeriodRecords returns a copy of every bettor's record for one period.
func (s *Store) PeriodRecords(period string) map[string][]model.Bet {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string][]model.Bet)
	for bettor, periods := range s.records {
		if recs, ok := periods[period]; ok {
			out[bettor] = append([]model.Bet(nil), recs...)
		}
	}
	return out
}

// Periods lists every period key the store knows about, sorted.
func (s *Store) Periods() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	for p := range s.totals {
		seen[p] = true
	}
	for p := range s.open {
		seen[p] = true
	}
	for p := range s.power {
		seen[p] = true
	}
	for p := range s.limits {
		seen[p] = true
	}
	for p := range s.overbuy {
		seen[p] = true
	}
	for _, periods := range s.records {
		for p := range periods {
			seen[p] = true
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// DeletePeriods purges the given periods from every structure,
// removing bettors left with no periods.
func (s *Store) DeletePeriods(keys []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.totals, key)
		delete(s.open, key)
		delete(s.power, key)
		delete(s.limits, key)
		delete(s.overbuy, key)
		for bettor, periods := range s.records {
			delete(periods, key)
			if len(periods) == 0 {
				delete(s.records, bettor)
			}
		}
	}
}

// Reset drops all state except the default profile.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]map[string][]model.Bet)
	s.totals = make(map[string]map[int]int)
	s.open = make(map[string]bool)
	s.power = make(map[string]int)
	s.limits = make(map[string]int)
	s.profiles = make(map[string]model.CommissionProfile)
	s.overbuy = make(map[string]map[string]map[int]int)
}

func (s *Store) ensureRecordLocked(bettor, period string) {
	if s.records[bettor] == nil {
		s.records[bettor] = make(map[string][]model.Bet)
	}
	if s.records[bettor][period] == nil {
		s.records[bettor][period] = []model.Bet{}
	}
}

func (s *Store) addTotalLocked(period string, n, delta int) {
	if s.totals[period] == nil {
		s.totals[period] = make(map[int]int)
	}
	s.totals[period][n] += delta
	if s.totals[period][n] == 0 {
		delete(s.totals[period], n)
		if len(s.totals[period]) == 0 {
			delete(s.totals, period)
		}
	}
}

func (s *Store) cascadeLocked(bettor, period string) {
	if len(s.records[bettor][period]) == 0 {
		delete(s.records[bettor], period)
		if len(s.records[bettor]) == 0 {
			delete(s.records, bettor)
		}
	}
}
