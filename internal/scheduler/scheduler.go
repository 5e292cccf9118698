// Package scheduler runs the book's time-driven tasks: the segment
// rollover at midnight and noon, and nightly retention of stale
// periods.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"TwoDBook/internal/engine"
	"TwoDBook/internal/notifier"
	"TwoDBook/internal/period"

	"github.com/robfig/cron/v3"
)

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron   *cron.Cron
	Engine *engine.Engine
	TG     *notifier.TelegramClient
	Ctx    context.Context

	chatID        int64
	autoOpen      bool
	retentionDays int
	loc           *time.Location
}

// NewScheduler creates a Scheduler running in the book's timezone.
func NewScheduler(ctx context.Context, e *engine.Engine, tg *notifier.TelegramClient, loc *time.Location, chatID int64, autoOpen bool, retentionDays int) *Scheduler {
	return &Scheduler{
		Cron:          cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		Engine:        e,
		TG:            tg,
		Ctx:           ctx,
		chatID:        chatID,
		autoOpen:      autoOpen,
		retentionDays: retentionDays,
		loc:           loc,
	}
}

// RegisterAll registers the rollover and retention tasks.
func (s *Scheduler) RegisterAll(rolloverCron, retentionCron string) error {
	if _, err := s.Cron.AddFunc(rolloverCron, s.rolloverTask); err != nil {
		return fmt.Errorf("register rollover task: %w", err)
	}
	if _, err := s.Cron.AddFunc(retentionCron, s.retentionTask); err != nil {
		return fmt.Errorf("register retention task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// rolloverTask announces the new accounting period when a segment
// boundary passes. Periods start closed unless auto_open is set, in
// which case the previous segment is closed and the new one opened.
func (s *Scheduler) rolloverTask() {
	key := s.Engine.CurrentPeriod()
	log.Printf("[INFO] period rollover: %s", key)

	if s.autoOpen {
		prev := period.Key(time.Now().In(s.loc).Add(-12 * time.Hour))
		if prev != key {
			if err := s.Engine.SetPeriodOpen(true, prev, false); err != nil {
				log.Printf("[ERROR] auto-close %s: %v", prev, err)
			}
		}
		if err := s.Engine.SetPeriodOpen(true, key, true); err != nil {
			log.Printf("[ERROR] auto-open %s: %v", key, err)
		} else {
			s.trySend(fmt.Sprintf("🕛 %s စာရင်းဖွင့်ပြီးပါပြီ", key))
			return
		}
	}
	s.trySend(fmt.Sprintf("🕛 စာရင်းသစ်: %s", key))
}

// retentionTask purges periods older than the retention window.
func (s *Scheduler) retentionTask() {
	cutoff := time.Now().In(s.loc).AddDate(0, 0, -s.retentionDays)
	purged := s.Engine.PurgeOlderThan(cutoff)
	if len(purged) == 0 {
		return
	}
	log.Printf("[INFO] retention purged %d periods: %v", len(purged), purged)
	s.trySend(fmt.Sprintf("🧹 စာရင်းဟောင်း %d ခုဖျက်ပြီးပါပြီ", len(purged)))
}

func (s *Scheduler) trySend(text string) {
	if s.chatID == 0 {
		return
	}
	if err := s.TG.SendWithRetry(s.Ctx, s.chatID, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
