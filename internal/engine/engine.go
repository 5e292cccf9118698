// Package engine is the single entry point the transport layer calls.
// It resolves the current accounting period, gates submissions, checks
// the caller's admin capability and keeps the audit recorder informed.
// Expected failures (closed period, bad input, missing state) come back
// as sentinel errors, never panics.
package engine

import (
	"errors"
	"fmt"
	"log"
	"time"

	"TwoDBook/internal/ledger"
	"TwoDBook/internal/model"
	"TwoDBook/internal/parser"
	"TwoDBook/internal/period"
	"TwoDBook/internal/recorder"
)

var (
	ErrNotAuthorized = errors.New("admin only operation")
	ErrPeriodClosed  = errors.New("period is closed")
	ErrOutOfRange    = errors.New("number must be between 0 and 99")
	ErrBadProfile    = errors.New("invalid commission profile")
	ErrNoBets        = errors.New("no parseable bets")
)

// Engine wires the parser, the ledger store and the audit recorder.
type Engine struct {
	store  *ledger.Store
	parser *parser.Parser
	rec    recorder.Recorder
	loc    *time.Location

	now func() time.Time // swappable in tests
}

// New creates an Engine operating in the given timezone.
func New(store *ledger.Store, p *parser.Parser, rec recorder.Recorder, loc *time.Location) *Engine {
	return &Engine{store: store, parser: p, rec: rec, loc: loc, now: time.Now}
}

// CurrentPeriod is the key of the period covering the present moment.
func (e *Engine) CurrentPeriod() string {
	return period.Key(e.now().In(e.loc))
}

// SubmitBetText parses a bettor's message and commits the result to the
// current period. Fails closed with ErrPeriodClosed before parsing
// anything; per-token problems come back as diagnostics, not errors.
func (e *Engine) SubmitBetText(bettor, text string) (*model.SubmitResult, error) {
	key := e.CurrentPeriod()
	if !e.store.IsOpen(key) {
		return nil, fmt.Errorf("%s: %w", key, ErrPeriodClosed)
	}

	res := e.parser.Parse(text)
	applied := e.store.Commit(key, bettor, res.Bets)
	if len(res.Bets) > 0 {
		if err := e.rec.RecordBets(key, bettor, res.Bets); err != nil {
			log.Printf("[ERROR] record bets: %v", err)
		}
	}
	return &model.SubmitResult{
		Period:      key,
		Bets:        res.Bets,
		Accepted:    res.Accepted,
		Applied:     applied,
		Diagnostics: res.Diagnostics,
	}, nil
}

// UndoSubmission removes the given bets from the bettor's record.
func (e *Engine) UndoSubmission(key, bettor string, bets []model.Bet) error {
	if err := e.store.Undo(key, bettor, bets); err != nil {
		return err
	}
	if err := e.rec.RecordUndo(key, bettor, bets); err != nil {
		log.Printf("[ERROR] record undo: %v", err)
	}
	return nil
}

// UndoBetText parses the same shorthand as SubmitBetText and undoes the
// result against the current period.
func (e *Engine) UndoBetText(bettor, text string) (*model.SubmitResult, error) {
	key := e.CurrentPeriod()
	res := e.parser.Parse(text)
	if len(res.Bets) == 0 {
		return nil, ErrNoBets
	}
	if err := e.UndoSubmission(key, bettor, res.Bets); err != nil {
		return nil, err
	}
	applied := 0
	for _, b := range res.Bets {
		applied += b.Amount
	}
	return &model.SubmitResult{
		Period:      key,
		Bets:        res.Bets,
		Accepted:    res.Accepted,
		Applied:     applied,
		Diagnostics: res.Diagnostics,
	}, nil
}

// SetPeriodOpen opens or closes a period for submissions.
func (e *Engine) SetPeriodOpen(authorized bool, key string, open bool) error {
	if !authorized {
		return ErrNotAuthorized
	}
	e.store.SetOpen(key, open)
	action := "CLOSE"
	if open {
		action = "OPEN"
	}
	if err := e.rec.RecordPeriodEvent(key, action); err != nil {
		log.Printf("[ERROR] record period event: %v", err)
	}
	return nil
}

// SetBreakLimit sets the period's exposure limit.
func (e *Engine) SetBreakLimit(authorized bool, key string, limit int) error {
	if !authorized {
		return ErrNotAuthorized
	}
	if limit <= 0 {
		return fmt.Errorf("break limit %d: %w", limit, ErrOutOfRange)
	}
	e.store.SetBreakLimit(key, limit)
	return nil
}

// OverbuyCandidates lists numbers over the period's break limit.
func (e *Engine) OverbuyCandidates(authorized bool, key string) (map[int]int, error) {
	if !authorized {
		return nil, ErrNotAuthorized
	}
	return e.store.OverbuyCandidates(key)
}

// StartOverbuy opens an overbuy selection session.
func (e *Engine) StartOverbuy(authorized bool, key, bettor string) (*ledger.OverbuySession, error) {
	if !authorized {
		return nil, ErrNotAuthorized
	}
	return e.store.StartOverbuy(key, bettor)
}

// CommitOverbuySelection applies a session's selection to the book.
func (e *Engine) CommitOverbuySelection(authorized bool, sess *ledger.OverbuySession) error {
	if !authorized {
		return ErrNotAuthorized
	}
	selection := sess.Selection()
	if err := e.store.CommitOverbuy(sess.Period, sess.Bettor, selection); err != nil {
		return err
	}
	if err := e.rec.RecordOverbuy(sess.Period, sess.Bettor, selection); err != nil {
		log.Printf("[ERROR] record overbuy: %v", err)
	}
	return nil
}

// SetPowerNumber records the drawn number and returns each bettor's
// stake on it.
func (e *Engine) SetPowerNumber(authorized bool, key string, n int) (map[string]int, error) {
	if !authorized {
		return nil, ErrNotAuthorized
	}
	if !model.ValidNumber(n) {
		return nil, fmt.Errorf("power number %d: %w", n, ErrOutOfRange)
	}
	e.store.SetPowerNumber(key, n)
	if err := e.rec.RecordPeriodEvent(key, fmt.Sprintf("POWER:%02d", n)); err != nil {
		log.Printf("[ERROR] record period event: %v", err)
	}
	return e.store.PowerStakes(key, n), nil
}

// LedgerSummary returns the period's per-number totals; zero totals are
// never present.
func (e *Engine) LedgerSummary(key string) map[int]int {
	return e.store.Totals(key)
}

// SettlementReport settles the period against its power number.
func (e *Engine) SettlementReport(authorized bool, key string) (*model.SettlementReport, error) {
	if !authorized {
		return nil, ErrNotAuthorized
	}
	rep, err := e.store.Settle(key)
	if err != nil {
		return nil, err
	}
	if len(rep.Lines) > 0 {
		if err := e.rec.RecordSettlement(rep); err != nil {
			log.Printf("[ERROR] record settlement: %v", err)
		}
	}
	return rep, nil
}

// SetCommissionProfile stores a bettor's commission/payout terms.
func (e *Engine) SetCommissionProfile(authorized bool, bettor string, percent, multiplier int) error {
	if !authorized {
		return ErrNotAuthorized
	}
	if percent < 0 || percent > 100 || multiplier < 0 {
		return fmt.Errorf("com %d / za %d: %w", percent, multiplier, ErrBadProfile)
	}
	e.store.SetProfile(bettor, model.CommissionProfile{
		CommissionPercent: percent,
		PayoutMultiplier:  multiplier,
	})
	return nil
}

// Bettors lists everyone with at least one recorded bet.
func (e *Engine) Bettors(authorized bool) ([]string, error) {
	if !authorized {
		return nil, ErrNotAuthorized
	}
	return e.store.Bettors(), nil
}

// Histories returns every bettor's full record, keyed by bettor then
// period.
func (e *Engine) Histories(authorized bool) (map[string]map[string][]model.Bet, error) {
	if !authorized {
		return nil, ErrNotAuthorized
	}
	out := make(map[string]map[string][]model.Bet)
	for _, bettor := range e.store.Bettors() {
		if hist, ok := e.store.History(bettor); ok {
			out[bettor] = hist
		}
	}
	return out, nil
}

// DeletePeriods purges the given periods from every store.
func (e *Engine) DeletePeriods(authorized bool, keys []string) error {
	if !authorized {
		return ErrNotAuthorized
	}
	e.store.DeletePeriods(keys)
	for _, key := range keys {
		if err := e.rec.RecordPeriodEvent(key, "DELETE"); err != nil {
			log.Printf("[ERROR] record period event: %v", err)
		}
	}
	return nil
}

// PurgeOlderThan deletes every period whose date is before the cutoff.
// Used by the retention task; returns the purged keys.
func (e *Engine) PurgeOlderThan(cutoff time.Time) []string {
	var expired []string
	for _, key := range e.store.Periods() {
		date, _, err := period.ParseKey(key)
		if err != nil {
			continue
		}
		if date.Before(cutoff) {
			expired = append(expired, key)
		}
	}
	if len(expired) > 0 {
		e.store.DeletePeriods(expired)
		for _, key := range expired {
			if err := e.rec.RecordPeriodEvent(key, "DELETE"); err != nil {
				log.Printf("[ERROR] record period event: %v", err)
			}
		}
	}
	return expired
}

// ResetAll wipes the whole book.
func (e *Engine) ResetAll(authorized bool) error {
	if !authorized {
		return ErrNotAuthorized
	}
	e.store.Reset()
	if err := e.rec.RecordPeriodEvent("*", "RESET"); err != nil {
		log.Printf("[ERROR] record period event: %v", err)
	}
	return nil
}
