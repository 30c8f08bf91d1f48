package task

import (
	"time"

	"github.com/trezcool/academia/core"
)

// NewServiceMock returns a Service pinned to the given clock.
func NewServiceMock(
	repo Repository,
	subjects subjectGetter,
	alerts AlertEvaluator,
	logger core.Logger,
	clock func() time.Time,
) *Service {
	svc := NewService(repo, subjects, alerts, logger)
	svc.clock = clock
	return svc
}
