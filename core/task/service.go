package task

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/subject"
)

var (
	// errors
	ErrNotFound = errors.New("task not found")
)

type (
	Repository interface {
		CreateTask(ctx context.Context, tsk Task) (Task, error)
		GetTaskByID(ctx context.Context, id string) (Task, error)
		QueryTasksBySubject(ctx context.Context, subjectID string) ([]Task, error)
		QueryTasksByOwner(ctx context.Context, ownerID string) ([]Task, error)
		// QueryTasksDueBetween returns tasks whose delivery date falls in [from, to].
		QueryTasksDueBetween(ctx context.Context, from, to time.Time) ([]Task, error)
		UpdateTask(ctx context.Context, tsk Task) (Task, error)
		DeleteTasksByID(ctx context.Context, ids ...string) error
	}

	subjectGetter interface {
		GetSubjectByID(ctx context.Context, id string) (subject.Subject, error)
	}

	// AlertEvaluator re-runs the due-soon test for a single task right after
	// it is created or updated.
	AlertEvaluator interface {
		GenerateForTask(ctx context.Context, tsk Task) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, nt NewTask) (Task, error)
		GetByID(ctx context.Context, id string) (Task, error)
		QueryBySubject(ctx context.Context, subjectID string) ([]Task, error)
		QueryByOwner(ctx context.Context, ownerID string) ([]Task, error)
		Update(ctx context.Context, id string, ut UpdateTask) (Task, error)
		Delete(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo     Repository
		subjects subjectGetter
		alerts   AlertEvaluator
		logger   core.Logger
		clock    func() time.Time
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, subjects subjectGetter, alerts AlertEvaluator, logger core.Logger) *Service {
	return &Service{
		repo:     repo,
		subjects: subjects,
		alerts:   alerts,
		logger:   logger,
		clock:    time.Now,
	}
}

func (svc *Service) Create(ctx context.Context, nt NewTask) (Task, error) {
	if _, err := svc.subjects.GetSubjectByID(ctx, nt.SubjectID); err != nil {
		return Task{}, errors.Wrap(err, "resolving task subject")
	}

	now := svc.clock().UTC()
	tsk := Task{
		SubjectID:    nt.SubjectID,
		Title:        nt.Title,
		Description:  nt.Description,
		StartDate:    nt.StartDate,
		DeliveryDate: nt.DeliveryDate,
		Priority:     nt.Priority,
		State:        nt.State,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	tsk, err := svc.repo.CreateTask(ctx, tsk)
	if err != nil {
		return Task{}, errors.Wrap(err, "creating task")
	}
	svc.evaluateAlert(ctx, tsk)
	return tsk, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Task, error) {
	return svc.repo.GetTaskByID(ctx, id)
}

func (svc *Service) QueryBySubject(ctx context.Context, subjectID string) ([]Task, error) {
	return svc.repo.QueryTasksBySubject(ctx, subjectID)
}

func (svc *Service) QueryByOwner(ctx context.Context, ownerID string) ([]Task, error) {
	return svc.repo.QueryTasksByOwner(ctx, ownerID)
}

func (svc *Service) Update(ctx context.Context, id string, ut UpdateTask) (Task, error) {
	tsk := Task{
		ID:           id,
		Title:        ut.Title,
		Description:  ut.Description,
		StartDate:    ut.StartDate,
		DeliveryDate: ut.DeliveryDate,
		Priority:     ut.Priority,
		State:        ut.State,
		UpdatedAt:    svc.clock().UTC(),
	}
	tsk, err := svc.repo.UpdateTask(ctx, tsk)
	if err != nil {
		return Task{}, errors.Wrap(err, "updating task")
	}
	svc.evaluateAlert(ctx, tsk)
	return tsk, nil
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteTasksByID(ctx, ids...)
}

// evaluateAlert runs the on-demand due-soon check. A failed alert write must
// not fail the task mutation that triggered it.
func (svc *Service) evaluateAlert(ctx context.Context, tsk Task) {
	if svc.alerts == nil {
		return
	}
	if err := svc.alerts.GenerateForTask(ctx, tsk); err != nil {
		svc.logger.Error(fmt.Sprintf("generating alert for task %s: %v", tsk.ID, err), err)
	}
}
