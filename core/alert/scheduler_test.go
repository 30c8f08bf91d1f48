package alert_test

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/alert"
	testutil "github.com/trezcool/academia/tests"
)

type countingScanner struct {
	calls int
	err   error
}

func (s *countingScanner) Scan(context.Context) error {
	s.calls++
	return s.err
}

func newTestScheduler(t *testing.T, scanTime string, scanner alert.Scanner, now time.Time) *alert.Scheduler {
	t.Helper()

	conf := &core.Config{}
	conf.Alerts.ScanTime = scanTime
	conf.Alerts.TickInterval = time.Minute

	s, err := alert.NewSchedulerMock(scanner, testutil.NopLogger{}, conf, func() time.Time { return now })
	if err != nil {
		t.Fatalf("NewSchedulerMock() failed: %v", err)
	}
	return s
}

func Test_Scheduler_RunPending(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("not due yet", func(t *testing.T) {
		scanner := &countingScanner{}
		s := newTestScheduler(t, "18:00", scanner, day)

		for _, at := range []time.Duration{8 * time.Hour, 12 * time.Hour, 17*time.Hour + 59*time.Minute} {
			s.RunPending(ctx, day.Add(at))
		}
		if scanner.calls != 0 {
			t.Errorf("Scan() called %d times before schedule time", scanner.calls)
		}
	})

	t.Run("fires once per day", func(t *testing.T) {
		scanner := &countingScanner{}
		s := newTestScheduler(t, "18:00", scanner, day)

		// every minute from 17:58 to 23:59
		for tick := day.Add(17*time.Hour + 58*time.Minute); tick.Before(day.AddDate(0, 0, 1)); tick = tick.Add(time.Minute) {
			s.RunPending(ctx, tick)
		}
		if scanner.calls != 1 {
			t.Errorf("Scan() called %d times, want 1", scanner.calls)
		}

		// next day it fires again
		nextDay := day.AddDate(0, 0, 1)
		s.RunPending(ctx, nextDay.Add(17*time.Hour))
		s.RunPending(ctx, nextDay.Add(18*time.Hour))
		s.RunPending(ctx, nextDay.Add(18*time.Hour+time.Minute))
		if scanner.calls != 2 {
			t.Errorf("Scan() called %d times, want 2", scanner.calls)
		}
	})

	t.Run("midnight schedule fires immediately", func(t *testing.T) {
		scanner := &countingScanner{}
		s := newTestScheduler(t, "00:00", scanner, day)

		s.RunPending(ctx, day.Add(9*time.Hour))
		if scanner.calls != 1 {
			t.Errorf("Scan() called %d times, want 1", scanner.calls)
		}
	})

	t.Run("scan failure does not stop the schedule", func(t *testing.T) {
		scanner := &countingScanner{err: context.DeadlineExceeded}
		s := newTestScheduler(t, "00:00", scanner, day)

		s.RunPending(ctx, day.Add(time.Hour))
		s.RunPending(ctx, day.AddDate(0, 0, 1).Add(time.Hour))
		if scanner.calls != 2 {
			t.Errorf("Scan() called %d times, want 2", scanner.calls)
		}
	})
}

func Test_Scheduler_badScanTime(t *testing.T) {
	conf := &core.Config{}
	conf.Alerts.ScanTime = "25:99"

	if _, err := alert.NewScheduler(&countingScanner{}, testutil.NopLogger{}, conf); err == nil {
		t.Error("NewScheduler() expected error for bad scan time")
	}
}
