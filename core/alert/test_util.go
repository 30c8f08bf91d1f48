package alert

import (
	"time"

	"github.com/trezcool/academia/core"
)

// NewServiceMock returns a Service pinned to the given clock.
func NewServiceMock(
	repo Repository,
	tasks taskQuerier,
	subjects subjectGetter,
	owners ownerGetter,
	mailSvc core.EmailService,
	logger core.Logger,
	clock func() time.Time,
) *Service {
	svc := NewService(repo, tasks, subjects, owners, mailSvc, logger)
	svc.clock = clock
	return svc
}

// NewSchedulerMock returns a Scheduler pinned to the given clock.
func NewSchedulerMock(scanner Scanner, logger core.Logger, conf *core.Config, clock func() time.Time) (*Scheduler, error) {
	s, err := NewScheduler(scanner, logger, conf)
	if err != nil {
		return nil, err
	}
	s.clock = clock
	return s, nil
}
