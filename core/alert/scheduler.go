package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

// Scanner runs one due-date scan.
type Scanner interface {
	Scan(ctx context.Context) error
}

// Scheduler fires a Scanner once per day at a fixed wall-clock time.
// The tick period and the clock are injected so tests can drive it with
// RunPending and a fixed instant.
type Scheduler struct {
	scanner Scanner
	logger  core.Logger

	at       time.Duration // offset from midnight, local time
	interval time.Duration
	clock    func() time.Time

	lastRun time.Time
}

func NewScheduler(scanner Scanner, logger core.Logger, conf *core.Config) (*Scheduler, error) {
	at, err := parseScanTime(conf.Alerts.ScanTime)
	if err != nil {
		return nil, err
	}
	interval := conf.Alerts.TickInterval
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		scanner:  scanner,
		logger:   logger,
		at:       at,
		interval: interval,
		clock:    time.Now,
	}, nil
}

// Start launches the ticker loop; it stops when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		s.RunPending(ctx, s.clock())
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunPending(ctx, s.clock())
			}
		}
	}()
}

// RunPending triggers a scan if the daily schedule time has passed and no
// scan has run yet today. Exposed so tests can fire ticks manually.
func (s *Scheduler) RunPending(ctx context.Context, now time.Time) {
	due := startOfDay(now).Add(s.at)
	if now.Before(due) {
		return
	}
	if !s.lastRun.Before(due) {
		return // already ran today
	}
	s.lastRun = now
	if err := s.scanner.Scan(ctx); err != nil {
		s.logger.Error(fmt.Sprintf("alert scan failed: %v", err), err)
	}
}

// parseScanTime converts "HH:mm" to an offset from midnight.
func parseScanTime(v string) (time.Duration, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing alert scan time %q", v)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
