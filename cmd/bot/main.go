package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"TwoDBook/internal/bot"
	"TwoDBook/internal/config"
	"TwoDBook/internal/engine"
	"TwoDBook/internal/ledger"
	"TwoDBook/internal/model"
	"TwoDBook/internal/notifier"
	"TwoDBook/internal/parser"
	"TwoDBook/internal/period"
	"TwoDBook/internal/recorder"
	"TwoDBook/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] TwoDBook starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	loc := period.Location(cfg.Betting.Timezone)
	log.Printf("[INFO] book timezone: %s", loc)

	// Init ledger store with the book's default terms
	store := ledger.NewStore(model.CommissionProfile{
		CommissionPercent: cfg.Defaults.CommissionPercent,
		PayoutMultiplier:  cfg.Defaults.PayoutMultiplier,
	})

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init engine
	eng := engine.New(store, parser.New(cfg.Betting.DefaultAmount), rec, loc)

	// Init Telegram client and dispatcher
	tg := notifier.NewTelegramClient(cfg.Telegram.BotToken, cfg.Proxy)
	dispatcher := bot.New(eng, tg, cfg.Telegram.AdminID)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, eng, tg, loc, cfg.Telegram.ChatID, cfg.Schedule.AutoOpen, cfg.Schedule.RetentionDays)
	if err := sched.RegisterAll(cfg.Schedule.RolloverCron, cfg.Schedule.RetentionCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tg.StartPolling(ctx, dispatcher.HandleUpdate)
	log.Println("[INFO] Telegram polling started")

	log.Println("[INFO] TwoDBook is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] TwoDBook stopped")
}
