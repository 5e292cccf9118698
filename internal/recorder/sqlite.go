package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"TwoDBook/internal/model"
)

// SQLiteRecorder persists the audit trail to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so ad hoc reads don't block the bot's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bet_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			period    TEXT NOT NULL,
			bettor    TEXT NOT NULL,
			number    INTEGER NOT NULL,
			amount    INTEGER NOT NULL,
			event     TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bet_period ON bet_events(period)`,

		`CREATE TABLE IF NOT EXISTS overbuy_adjustments (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			period    TEXT NOT NULL,
			bettor    TEXT NOT NULL,
			number    INTEGER NOT NULL,
			excess    INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_overbuy_period ON overbuy_adjustments(period)`,

		`CREATE TABLE IF NOT EXISTS settlements (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp        INTEGER NOT NULL,
			period           TEXT NOT NULL,
			power_number     INTEGER NOT NULL,
			bettor           TEXT NOT NULL,
			total_staked     INTEGER,
			commission       INTEGER,
			after_commission INTEGER,
			power_staked     INTEGER,
			win_amount       INTEGER,
			net              INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_settlement_period ON settlements(period)`,

		`CREATE TABLE IF NOT EXISTS period_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			period    TEXT NOT NULL,
			action    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_period_events ON period_events(period)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) recordBetEvents(period, bettor, event string, bets []model.Bet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()
	for _, b := range bets {
		if _, err := r.db.Exec(`INSERT INTO bet_events
			(timestamp, period, bettor, number, amount, event)
			VALUES (?,?,?,?,?,?)`,
			now, period, bettor, b.Number, b.Amount, event,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordBets(period, bettor string, bets []model.Bet) error {
	return r.recordBetEvents(period, bettor, "BET", bets)
}

func (r *SQLiteRecorder) RecordUndo(period, bettor string, bets []model.Bet) error {
	return r.recordBetEvents(period, bettor, "UNDO", bets)
}

func (r *SQLiteRecorder) RecordOverbuy(period, bettor string, selection map[int]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()
	for number, excess := range selection {
		if _, err := r.db.Exec(`INSERT INTO overbuy_adjustments
			(timestamp, period, bettor, number, excess)
			VALUES (?,?,?,?,?)`,
			now, period, bettor, number, excess,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSettlement(rep *model.SettlementReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()
	for _, line := range rep.Lines {
		if _, err := r.db.Exec(`INSERT INTO settlements
			(timestamp, period, power_number, bettor,
			 total_staked, commission, after_commission, power_staked, win_amount, net)
			VALUES (?,?,?,?,?,?,?,?,?,?)`,
			now, rep.Period, rep.PowerNumber, line.Bettor,
			line.TotalStaked, line.Commission, line.AfterCommission,
			line.PowerStaked, line.WinAmount, line.Net,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordPeriodEvent(period, action string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO period_events (timestamp, period, action)
		VALUES (?,?,?)`,
		time.Now().Unix(), period, action,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
