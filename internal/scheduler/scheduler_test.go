package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"StockDashboard/internal/collector"
	"StockDashboard/internal/model"
	"StockDashboard/internal/recorder"
)

type fakeSender struct {
	mu   sync.Mutex
	msgs []string
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, text)
	return nil
}

type fakeRecorder struct {
	runs []*recorder.AnalysisRun
}

func (f *fakeRecorder) RecordAnalysis(run *recorder.AnalysisRun) (int64, error) {
	f.runs = append(f.runs, run)
	return int64(len(f.runs)), nil
}

func (f *fakeRecorder) RecentRuns(symbol string, _ int) ([]recorder.RunSummary, error) {
	var out []recorder.RunSummary
	for i := len(f.runs) - 1; i >= 0; i-- {
		a := f.runs[i].Analysis
		if symbol != "" && a.Series.Symbol != symbol {
			continue
		}
		out = append(out, recorder.RunSummary{ID: int64(i + 1), Symbol: a.Series.Symbol,
			Trigger: string(f.runs[i].Trigger), Trend: string(a.Reading.Trend), Crossover: string(a.Reading.Crossover)})
	}
	return out, nil
}

func (f *fakeRecorder) Close() error { return nil }

func newTestScheduler(fetcher collector.Fetcher) (*Scheduler, *fakeSender, *fakeRecorder) {
	col := collector.NewCollector(fetcher, "SPY")
	col.LookbackDays = 120
	sender := &fakeSender{}
	rec := &fakeRecorder{}
	return NewScheduler(context.Background(), col, sender, rec), sender, rec
}

func TestDailyTask_SendsAndRecords(t *testing.T) {
	s, sender, rec := newTestScheduler(&collector.MockFetcher{Price: 400})
	s.RunDailyNow()

	if len(rec.runs) != 1 {
		t.Fatalf("expected 1 recorded run, got %d", len(rec.runs))
	}
	if rec.runs[0].Trigger != model.TriggerDaily {
		t.Errorf("expected DAILY trigger, got %s", rec.runs[0].Trigger)
	}
	if len(sender.msgs) != 1 || !strings.Contains(sender.msgs[0], "<b>SPY</b>") {
		t.Errorf("unexpected notifications: %v", sender.msgs)
	}
}

func TestDailyTask_NoDataNotifiesError(t *testing.T) {
	s, sender, rec := newTestScheduler(&collector.MockFetcher{Err: errors.New("upstream down")})
	s.RunDailyNow()

	if len(rec.runs) != 0 {
		t.Errorf("failed analysis must not be recorded")
	}
	if len(sender.msgs) != 1 || !strings.Contains(sender.msgs[0], "no data available") {
		t.Errorf("expected no-data message, got %v", sender.msgs)
	}
}

func TestDailyTask_WithoutNotifier(t *testing.T) {
	s, _, rec := newTestScheduler(&collector.MockFetcher{Price: 400})
	s.Notifier = nil
	s.RunDailyNow()
	if len(rec.runs) != 1 {
		t.Errorf("expected run to be recorded without a notifier")
	}
}

func TestHandleCommand(t *testing.T) {
	s, _, rec := newTestScheduler(&collector.MockFetcher{Price: 100})
	ctx := context.Background()

	tests := []struct {
		command string
		want    string
	}{
		{"/report", "<b>SPY</b>"},
		{"/report msft", "<b>MSFT</b>"},
		{"/report@DashBot AAPL", "<b>AAPL</b>"},
		{"/stats nvda", "NVDA close statistics"},
		{"/history MSFT", "MSFT"},
		{"/help", "/report [SYMBOL]"},
		{"hello", "/stats [SYMBOL]"},
		{"", "Default symbol: SPY"},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			got := s.HandleCommand(ctx, tt.command)
			if !strings.Contains(got, tt.want) {
				t.Errorf("HandleCommand(%q) = %q, want it to contain %q", tt.command, got, tt.want)
			}
		})
	}

	if len(rec.runs) != 4 {
		t.Fatalf("expected 4 recorded runs, got %d", len(rec.runs))
	}
	for _, r := range rec.runs {
		if r.Trigger != model.TriggerManual {
			t.Errorf("expected MANUAL trigger, got %s", r.Trigger)
		}
	}
}

func TestHandleCommand_Error(t *testing.T) {
	s, _, _ := newTestScheduler(&collector.MockFetcher{Err: collector.ErrNoData})
	got := s.HandleCommand(context.Background(), "/report ZZZZ")
	if !strings.Contains(got, "❌ <b>ZZZZ</b>") {
		t.Errorf("unexpected reply %q", got)
	}
}

func TestRegisterAll(t *testing.T) {
	s, _, _ := newTestScheduler(&collector.MockFetcher{})
	if err := s.RegisterAll("0 30 22 * * 1-5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(s.Cron.Entries()); n != 1 {
		t.Errorf("expected 1 entry, got %d", n)
	}
	if err := s.RegisterAll("not a cron"); err == nil {
		t.Error("expected error for invalid spec")
	}
	s.Start()
	done := make(chan struct{})
	go func() { s.Stop(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
