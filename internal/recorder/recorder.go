package recorder

import "TwoDBook/internal/model"

// Recorder persists an audit trail of everything that changes the book.
// The in-memory ledger is authoritative; recording failures are logged
// by callers and never block an operation.
type Recorder interface {
	RecordBets(period, bettor string, bets []model.Bet) error
	RecordUndo(period, bettor string, bets []model.Bet) error
	RecordOverbuy(period, bettor string, selection map[int]int) error
	RecordSettlement(rep *model.SettlementReport) error
	RecordPeriodEvent(period, action string) error
	Close() error
}
