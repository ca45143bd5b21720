package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"

	"StockDashboard/internal/collector"
	"StockDashboard/internal/model"
	"StockDashboard/internal/notifier"
	"StockDashboard/internal/recorder"

	"github.com/robfig/cron/v3"
)

// Sender delivers formatted reports. *notifier.TelegramNotifier satisfies it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the cron tasks and chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  Sender // nil disables notifications
	Recorder  recorder.Recorder
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, sender Sender, rec recorder.Recorder) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  sender,
		Recorder:  rec,
		Ctx:       ctx,
	}
}

// RegisterAll registers the daily digest task.
func (s *Scheduler) RegisterAll(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunDailyNow executes the daily task immediately (RUN_ON_START).
func (s *Scheduler) RunDailyNow() {
	s.dailyTask()
}

func (s *Scheduler) dailyTask() {
	log.Printf("[INFO] running daily digest for %s", s.Collector.Symbol)
	a, err := s.analyze(s.Ctx, "", model.TriggerDaily)
	if err != nil {
		log.Printf("[ERROR] daily analysis: %v", err)
		s.trySend(notifier.FormatError(s.Collector.Symbol, err))
		return
	}
	s.trySend(notifier.FormatAnalysisReport(a))
}

// analyze runs and records one analysis with the collector defaults.
func (s *Scheduler) analyze(ctx context.Context, symbol string, trigger model.TriggerType) (*model.Analysis, error) {
	a, err := s.Collector.Analyze(ctx, s.Collector.Request(symbol))
	if err != nil {
		return nil, err
	}
	if _, err := s.Recorder.RecordAnalysis(&recorder.AnalysisRun{Trigger: trigger, Analysis: a}); err != nil {
		log.Printf("[ERROR] record analysis: %v", err)
	}
	return a, nil
}

// HandleCommand processes a chat command such as "/report MSFT" and returns the reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp(s.Collector.Symbol)
	}
	// "/report@SomeBot" in group chats
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	symbol := ""
	if len(fields) > 1 {
		symbol = strings.ToUpper(fields[1])
	}

	switch name {
	case "/report":
		a, err := s.analyze(ctx, symbol, model.TriggerManual)
		if err != nil {
			return notifier.FormatError(displaySymbol(symbol, s.Collector.Symbol), err)
		}
		return notifier.FormatAnalysisReport(a)
	case "/stats":
		a, err := s.analyze(ctx, symbol, model.TriggerManual)
		if err != nil {
			return notifier.FormatError(displaySymbol(symbol, s.Collector.Symbol), err)
		}
		return notifier.FormatStats(a)
	case "/history":
		runs, err := s.Recorder.RecentRuns(symbol, 10)
		if err != nil {
			return notifier.FormatError(displaySymbol(symbol, "history"), err)
		}
		return notifier.FormatHistory(runs)
	default:
		return notifier.FormatHelp(s.Collector.Symbol)
	}
}

func displaySymbol(symbol, fallback string) string {
	if symbol == "" {
		return fallback
	}
	return symbol
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
