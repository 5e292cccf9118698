package ledger

import (
	"errors"
	"testing"

	"TwoDBook/internal/model"
)

func TestSettleArithmetic(t *testing.T) {
	s := newTestStore()
	s.SetProfile("maung", model.CommissionProfile{CommissionPercent: 15, PayoutMultiplier: 80})
	s.Commit(periodKey, "maung", []model.Bet{
		{Number: 7, Amount: 500},
		{Number: 11, Amount: 9500},
	})
	s.SetPowerNumber(periodKey, 7)

	rep, err := s.Settle(periodKey)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if len(rep.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(rep.Lines))
	}
	line := rep.Lines[0]
	if line.TotalStaked != 10000 {
		t.Errorf("total staked: expected 10000, got %d", line.TotalStaked)
	}
	if line.Commission != 1500 {
		t.Errorf("commission: expected 1500, got %d", line.Commission)
	}
	if line.AfterCommission != 8500 {
		t.Errorf("after commission: expected 8500, got %d", line.AfterCommission)
	}
	if line.PowerStaked != 500 {
		t.Errorf("power staked: expected 500, got %d", line.PowerStaked)
	}
	if line.WinAmount != 40000 {
		t.Errorf("win amount: expected 40000, got %d", line.WinAmount)
	}
	if line.Net != -31500 {
		t.Errorf("net: expected -31500 (house pays), got %d", line.Net)
	}
	if rep.AggregateNet != -31500 {
		t.Errorf("aggregate net: expected -31500, got %d", rep.AggregateNet)
	}
}

func TestSettleDefaultsAndAggregate(t *testing.T) {
	s := newTestStore() // defaults: 0% commission, za 80
	s.Commit(periodKey, "maung", []model.Bet{{Number: 7, Amount: 100}})
	s.Commit(periodKey, "aye", []model.Bet{{Number: 11, Amount: 1000}})
	s.SetPowerNumber(periodKey, 7)

	rep, err := s.Settle(periodKey)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if len(rep.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(rep.Lines))
	}
	// Sorted by bettor: aye first.
	if rep.Lines[0].Bettor != "aye" || rep.Lines[0].Net != 1000 {
		t.Errorf("aye: expected net 1000, got %+v", rep.Lines[0])
	}
	if rep.Lines[1].Bettor != "maung" || rep.Lines[1].Net != 100-8000 {
		t.Errorf("maung: expected net -7900, got %+v", rep.Lines[1])
	}
	if rep.AggregateNet != 1000-7900 {
		t.Errorf("aggregate: expected -6900, got %d", rep.AggregateNet)
	}
}

func TestSettleRequiresPowerNumber(t *testing.T) {
	s := newTestStore()
	s.Commit(periodKey, "maung", []model.Bet{{Number: 7, Amount: 100}})
	if _, err := s.Settle(periodKey); !errors.Is(err, ErrNoPowerNumber) {
		t.Fatalf("expected ErrNoPowerNumber, got %v", err)
	}
}

func TestSettleEmptyPeriod(t *testing.T) {
	s := newTestStore()
	s.SetPowerNumber(periodKey, 7)
	rep, err := s.Settle(periodKey)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if len(rep.Lines) != 0 || rep.AggregateNet != 0 {
		t.Errorf("expected empty report, got %+v", rep)
	}
}

func TestPowerStakes(t *testing.T) {
	s := newTestStore()
	s.Commit(periodKey, "maung", []model.Bet{
		{Number: 7, Amount: 500},
		{Number: 7, Amount: 200},
		{Number: 11, Amount: 100},
	})
	s.Commit(periodKey, "aye", []model.Bet{{Number: 11, Amount: 300}})

	stakes := s.PowerStakes(periodKey, 7)
	if len(stakes) != 1 || stakes["maung"] != 700 {
		t.Errorf("expected maung 700 only, got %v", stakes)
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{10000 * 15, 100, 1500},
		{7, 2, 3},
		{-7, 2, -4},
		{-100, 100, -1},
		{0, 100, 0},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("floorDiv(%d,%d): expected %d, got %d", tt.a, tt.b, tt.want, got)
		}
	}
}
