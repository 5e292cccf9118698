package engine

import (
	"errors"
	"testing"
	"time"

	"TwoDBook/internal/ledger"
	"TwoDBook/internal/model"
	"TwoDBook/internal/parser"
	"TwoDBook/internal/period"
	"TwoDBook/internal/recorder"
)

func newTestEngine() *Engine {
	store := ledger.NewStore(model.CommissionProfile{PayoutMultiplier: 80})
	e := New(store, parser.New(500), recorder.NewNoopRecorder(), period.Location(""))
	e.now = func() time.Time {
		return time.Date(2026, 1, 5, 9, 0, 0, 0, period.Location(""))
	}
	return e
}

func TestSubmitClosedPeriod(t *testing.T) {
	e := newTestEngine()
	if _, err := e.SubmitBetText("maung", "23-500"); !errors.Is(err, ErrPeriodClosed) {
		t.Fatalf("expected ErrPeriodClosed, got %v", err)
	}
	if totals := e.LedgerSummary(e.CurrentPeriod()); len(totals) != 0 {
		t.Errorf("closed submission must commit nothing, got %v", totals)
	}
}

func TestSubmitAndUndo(t *testing.T) {
	e := newTestEngine()
	key := e.CurrentPeriod()
	if key != "05/01/2026 AM" {
		t.Fatalf("unexpected current period: %s", key)
	}
	if err := e.SetPeriodOpen(true, key, true); err != nil {
		t.Fatalf("open: %v", err)
	}

	res, err := e.SubmitBetText("maung", "23-500 45r100")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Applied != 700 || len(res.Bets) != 3 {
		t.Fatalf("expected 3 bets applying 700, got %+v", res)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", res.Diagnostics)
	}

	und, err := e.UndoBetText("maung", "23-500 45r100")
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if und.Applied != 700 {
		t.Errorf("expected undo of 700, got %d", und.Applied)
	}
	if totals := e.LedgerSummary(key); len(totals) != 0 {
		t.Errorf("expected restored ledger, got %v", totals)
	}
}

func TestUndoMissing(t *testing.T) {
	e := newTestEngine()
	key := e.CurrentPeriod()
	e.SetPeriodOpen(true, key, true)
	if _, err := e.UndoBetText("maung", "23-500"); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := e.UndoBetText("maung", "hello"); !errors.Is(err, ErrNoBets) {
		t.Fatalf("expected ErrNoBets, got %v", err)
	}
}

func TestAuthorizationGate(t *testing.T) {
	e := newTestEngine()
	key := e.CurrentPeriod()

	if err := e.SetPeriodOpen(false, key, true); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("SetPeriodOpen: expected ErrNotAuthorized, got %v", err)
	}
	if err := e.SetBreakLimit(false, key, 5000); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("SetBreakLimit: expected ErrNotAuthorized, got %v", err)
	}
	if _, err := e.SetPowerNumber(false, key, 7); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("SetPowerNumber: expected ErrNotAuthorized, got %v", err)
	}
	if _, err := e.SettlementReport(false, key); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("SettlementReport: expected ErrNotAuthorized, got %v", err)
	}
	if err := e.ResetAll(false); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("ResetAll: expected ErrNotAuthorized, got %v", err)
	}
}

func TestSetPowerNumberValidation(t *testing.T) {
	e := newTestEngine()
	key := e.CurrentPeriod()
	for _, bad := range []int{-1, 100} {
		if _, err := e.SetPowerNumber(true, key, bad); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("power %d: expected ErrOutOfRange, got %v", bad, err)
		}
	}

	e.SetPeriodOpen(true, key, true)
	e.SubmitBetText("maung", "7-500")
	stakes, err := e.SetPowerNumber(true, key, 7)
	if err != nil {
		t.Fatalf("set power: %v", err)
	}
	if stakes["maung"] != 500 {
		t.Errorf("expected maung staked 500 on 7, got %v", stakes)
	}
}

func TestCommissionProfileValidation(t *testing.T) {
	e := newTestEngine()
	for _, tt := range []struct{ pct, mult int }{{-1, 80}, {101, 80}, {15, -1}} {
		if err := e.SetCommissionProfile(true, "maung", tt.pct, tt.mult); !errors.Is(err, ErrBadProfile) {
			t.Errorf("com %d za %d: expected ErrBadProfile, got %v", tt.pct, tt.mult, err)
		}
	}
	if err := e.SetCommissionProfile(true, "maung", 15, 80); err != nil {
		t.Errorf("valid profile: %v", err)
	}
}

func TestSettlementThroughEngine(t *testing.T) {
	e := newTestEngine()
	key := e.CurrentPeriod()
	e.SetPeriodOpen(true, key, true)
	e.SetCommissionProfile(true, "maung", 15, 80)
	e.SubmitBetText("maung", "7-500 11-9500")

	if _, err := e.SettlementReport(true, key); !errors.Is(err, ledger.ErrNoPowerNumber) {
		t.Fatalf("expected ErrNoPowerNumber, got %v", err)
	}
	e.SetPowerNumber(true, key, 7)
	rep, err := e.SettlementReport(true, key)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if rep.AggregateNet != -31500 {
		t.Errorf("expected aggregate -31500, got %d", rep.AggregateNet)
	}
}

func TestPurgeOlderThan(t *testing.T) {
	e := newTestEngine()
	key := e.CurrentPeriod()
	e.SetPeriodOpen(true, key, true)
	e.SubmitBetText("maung", "23-500")
	e.SetPeriodOpen(true, "01/12/2025 PM", true)

	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	purged := e.PurgeOlderThan(cutoff)
	if len(purged) != 1 || purged[0] != "01/12/2025 PM" {
		t.Fatalf("expected the old period purged, got %v", purged)
	}
	if totals := e.LedgerSummary(key); totals[23] != 500 {
		t.Errorf("current period must survive, got %v", totals)
	}
}

func TestOverbuyThroughEngine(t *testing.T) {
	e := newTestEngine()
	key := e.CurrentPeriod()
	e.SetPeriodOpen(true, key, true)
	e.SubmitBetText("maung", "23-6000")

	if _, err := e.OverbuyCandidates(true, key); !errors.Is(err, ledger.ErrNoBreakLimit) {
		t.Fatalf("expected ErrNoBreakLimit, got %v", err)
	}
	if err := e.SetBreakLimit(true, key, 0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for zero limit, got %v", err)
	}
	if err := e.SetBreakLimit(true, key, 5000); err != nil {
		t.Fatalf("set limit: %v", err)
	}

	cands, err := e.OverbuyCandidates(true, key)
	if err != nil || cands[23] != 1000 {
		t.Fatalf("candidates: %v %v", cands, err)
	}

	sess, err := e.StartOverbuy(true, key, "kokyaw")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := e.CommitOverbuySelection(true, sess); !errors.Is(err, ledger.ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
	sess.SelectAll()
	if err := e.CommitOverbuySelection(true, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if totals := e.LedgerSummary(key); totals[23] != 5000 {
		t.Errorf("expected exposure shaved to limit, got %v", totals)
	}
}
