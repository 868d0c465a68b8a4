package scheduler

import (
	"fmt"
	"log"
	"strings"

	"github.com/robfig/cron/v3"

	"ScalpSentinel/internal/notifier"
	"ScalpSentinel/internal/recorder"
	"ScalpSentinel/internal/trader"
)

// Scheduler runs the time-of-day housekeeping around the scan loops: the
// nightly performance summary and the daily profit counter reset.
type Scheduler struct {
	Cron     *cron.Cron
	Runners  []*trader.Runner
	Recorder recorder.Recorder
	Notifier *notifier.TelegramNotifier
}

// NewScheduler creates a Scheduler over the given runners.
func NewScheduler(runners []*trader.Runner, rec recorder.Recorder, tn *notifier.TelegramNotifier) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runners:  runners,
		Recorder: rec,
		Notifier: tn,
	}
}

// RegisterAll registers the daily summary and daily reset tasks.
func (s *Scheduler) RegisterAll(summaryCron, resetCron string) error {
	if _, err := s.Cron.AddFunc(summaryCron, s.dailySummary); err != nil {
		return fmt.Errorf("register daily summary: %w", err)
	}
	if _, err := s.Cron.AddFunc(resetCron, s.dailyReset); err != nil {
		return fmt.Errorf("register daily reset: %w", err)
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

// HandleCommand dispatches a user command and returns the reply text.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/status":
		if len(s.Runners) == 0 {
			return "No strategies are running."
		}
		var parts []string
		for _, r := range s.Runners {
			parts = append(parts, notifier.FormatStatus(r.Status()))
		}
		return strings.Join(parts, "\n\n")
	case "/summary":
		var parts []string
		for _, r := range s.Runners {
			status := r.Status()
			stats, err := s.Recorder.DailyStats(status.Strategy)
			if err != nil {
				log.Printf("[ERROR] daily stats for %s: %v", status.Strategy, err)
				continue
			}
			parts = append(parts, notifier.FormatDailySummary(status, stats))
		}
		if len(parts) == 0 {
			return "No summary available."
		}
		return strings.Join(parts, "\n\n")
	default:
		return "Available commands:\n/status - current capital and open positions\n/summary - today's performance summary"
	}
}

func (s *Scheduler) dailySummary() {
	log.Println("[INFO] running daily summary")
	for _, r := range s.Runners {
		status := r.Status()
		stats, err := s.Recorder.DailyStats(status.Strategy)
		if err != nil {
			log.Printf("[ERROR] daily stats for %s: %v", status.Strategy, err)
			continue
		}
		if s.Notifier != nil {
			s.Notifier.Notify(notifier.FormatDailySummary(status, stats))
		}
	}
}

func (s *Scheduler) dailyReset() {
	for _, r := range s.Runners {
		r.Instance.ResetDailyProfit()
	}
	log.Println("[INFO] daily profit counters reset")
}
