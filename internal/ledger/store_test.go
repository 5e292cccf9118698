package ledger

import (
	"errors"
	"testing"

	"TwoDBook/internal/model"
)

const periodKey = "05/01/2026 AM"

func newTestStore() *Store {
	return NewStore(model.CommissionProfile{CommissionPercent: 0, PayoutMultiplier: 80})
}

// checkConsistency asserts the core invariant: the ledger total per
// number equals the sum of signed record amounts for that number.
func checkConsistency(t *testing.T, s *Store, period string) {
	t.Helper()
	sums := make(map[int]int)
	for _, recs := range s.PeriodRecords(period) {
		for _, b := range recs {
			sums[b.Number] += b.Amount
		}
	}
	for n, v := range sums {
		if v == 0 {
			delete(sums, n)
		}
	}
	totals := s.Totals(period)
	if len(totals) != len(sums) {
		t.Fatalf("ledger/record divergence: totals %v, records %v", totals, sums)
	}
	for n, v := range sums {
		if totals[n] != v {
			t.Fatalf("number %d: ledger %d, records %d", n, totals[n], v)
		}
	}
}

func TestCommitAndTotals(t *testing.T) {
	s := newTestStore()
	applied := s.Commit(periodKey, "maung", []model.Bet{
		{Number: 23, Amount: 500},
		{Number: 23, Amount: 300},
		{Number: 45, Amount: 1000},
		{Number: 150, Amount: 999}, // out of range, skipped
	})
	if applied != 1800 {
		t.Errorf("expected applied 1800, got %d", applied)
	}
	totals := s.Totals(periodKey)
	if totals[23] != 800 || totals[45] != 1000 {
		t.Errorf("unexpected totals: %v", totals)
	}
	if _, ok := totals[150]; ok {
		t.Error("out-of-range number must not reach the ledger")
	}
	checkConsistency(t, s, periodKey)
}

func TestUndoRoundTrip(t *testing.T) {
	s := newTestStore()
	bets := []model.Bet{{Number: 23, Amount: 500}, {Number: 32, Amount: 500}}
	s.Commit(periodKey, "maung", bets)

	if err := s.Undo(periodKey, "maung", bets); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if totals := s.Totals(periodKey); len(totals) != 0 {
		t.Errorf("expected empty ledger, got %v", totals)
	}
	if bettors := s.Bettors(); len(bettors) != 0 {
		t.Errorf("expected emptied bettor to be cascade-deleted, got %v", bettors)
	}
	checkConsistency(t, s, periodKey)
}

func TestUndoByValue(t *testing.T) {
	s := newTestStore()
	s.Commit(periodKey, "maung", []model.Bet{
		{Number: 23, Amount: 500},
		{Number: 23, Amount: 500},
		{Number: 45, Amount: 100},
	})
	if err := s.Undo(periodKey, "maung", []model.Bet{{Number: 23, Amount: 500}}); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if totals := s.Totals(periodKey); totals[23] != 500 {
		t.Errorf("expected one duplicate removed, totals %v", totals)
	}
	checkConsistency(t, s, periodKey)
}

func TestUndoNotFound(t *testing.T) {
	s := newTestStore()
	s.Commit(periodKey, "maung", []model.Bet{{Number: 23, Amount: 500}})

	err := s.Undo(periodKey, "maung", []model.Bet{{Number: 23, Amount: 999}})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// Partial matches must not mutate anything.
	err = s.Undo(periodKey, "maung", []model.Bet{
		{Number: 23, Amount: 500},
		{Number: 45, Amount: 100},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if totals := s.Totals(periodKey); totals[23] != 500 {
		t.Errorf("failed undo must not change the ledger, got %v", totals)
	}
	if err := s.Undo(periodKey, "nobody", []model.Bet{{Number: 23, Amount: 500}}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown bettor, got %v", err)
	}
}

func TestPeriodGate(t *testing.T) {
	s := newTestStore()
	if s.IsOpen(periodKey) {
		t.Error("periods must start closed")
	}
	s.SetOpen(periodKey, true)
	if !s.IsOpen(periodKey) {
		t.Error("expected open period")
	}
	s.SetOpen(periodKey, false)
	if s.IsOpen(periodKey) {
		t.Error("expected closed period")
	}
}

func TestDeletePeriodsCascade(t *testing.T) {
	s := newTestStore()
	other := "05/01/2026 PM"
	s.Commit(periodKey, "maung", []model.Bet{{Number: 23, Amount: 500}})
	s.Commit(other, "maung", []model.Bet{{Number: 45, Amount: 500}})
	s.Commit(periodKey, "aye", []model.Bet{{Number: 7, Amount: 100}})
	s.SetOpen(periodKey, true)
	s.SetPowerNumber(periodKey, 23)
	s.SetBreakLimit(periodKey, 400)

	s.DeletePeriods([]string{periodKey})

	if totals := s.Totals(periodKey); len(totals) != 0 {
		t.Errorf("expected purged totals, got %v", totals)
	}
	if _, ok := s.PowerNumber(periodKey); ok {
		t.Error("expected purged power number")
	}
	if _, ok := s.BreakLimit(periodKey); ok {
		t.Error("expected purged break limit")
	}
	if s.IsOpen(periodKey) {
		t.Error("expected purged gate")
	}
	bettors := s.Bettors()
	if len(bettors) != 1 || bettors[0] != "maung" {
		t.Errorf("expected only maung to survive, got %v", bettors)
	}
	if totals := s.Totals(other); totals[45] != 500 {
		t.Errorf("other period must be untouched, got %v", totals)
	}
}

func TestPeriodsListing(t *testing.T) {
	s := newTestStore()
	s.Commit(periodKey, "maung", []model.Bet{{Number: 23, Amount: 500}})
	s.SetOpen("06/01/2026 AM", true)
	s.SetBreakLimit("07/01/2026 PM", 1000)

	periods := s.Periods()
	if len(periods) != 3 {
		t.Fatalf("expected 3 periods, got %v", periods)
	}
}
