package subject

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/student"
)

var (
	// errors
	ErrNotFound = errors.New("subject not found")
)

type (
	Repository interface {
		CreateSubject(ctx context.Context, sub Subject) (Subject, error)
		GetSubjectByID(ctx context.Context, id string) (Subject, error)
		QuerySubjectsByOwner(ctx context.Context, ownerID string) ([]Subject, error)
		UpdateSubject(ctx context.Context, sub Subject) (Subject, error)
		DeleteSubjectsByID(ctx context.Context, ids ...string) error
	}

	// ownerGetter resolves the acting student; the subject service never
	// authenticates, it only consumes an already-verified identity.
	ownerGetter interface {
		GetStudentByID(ctx context.Context, id string) (student.Student, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, ownerID string, ns NewSubject) (Subject, error)
		GetByID(ctx context.Context, id string) (Subject, error)
		QueryByOwner(ctx context.Context, ownerID string) ([]Subject, error)
		Update(ctx context.Context, id string, us UpdateSubject) (Subject, error)
		Delete(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo   Repository
		owners ownerGetter
		clock  func() time.Time
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, owners ownerGetter) *Service {
	return &Service{
		repo:   repo,
		owners: owners,
		clock:  time.Now,
	}
}

func (svc *Service) Create(ctx context.Context, ownerID string, ns NewSubject) (Subject, error) {
	if _, err := svc.owners.GetStudentByID(ctx, ownerID); err != nil {
		return Subject{}, errors.Wrap(err, "resolving subject owner")
	}

	now := svc.clock().UTC()
	sub := Subject{
		Name:            ns.Name,
		AssignedTeacher: ns.AssignedTeacher,
		Color:           ns.Color,
		Schedule:        ns.Schedule,
		OwnerID:         ownerID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return svc.repo.CreateSubject(ctx, sub)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Subject, error) {
	return svc.repo.GetSubjectByID(ctx, id)
}

func (svc *Service) QueryByOwner(ctx context.Context, ownerID string) ([]Subject, error) {
	return svc.repo.QuerySubjectsByOwner(ctx, ownerID)
}

// Update persists an already-validated UpdateSubject. Validation happens
// against the stored record before this call; a rejected schedule never
// reaches the repository, so the stored subject stays untouched.
func (svc *Service) Update(ctx context.Context, id string, us UpdateSubject) (Subject, error) {
	sub := Subject{
		ID:              id,
		Name:            us.Name,
		AssignedTeacher: us.AssignedTeacher,
		Color:           us.Color,
		Schedule:        us.Schedule,
		OwnerID:         us.OwnerID,
		UpdatedAt:       svc.clock().UTC(),
	}
	return svc.repo.UpdateSubject(ctx, sub)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteSubjectsByID(ctx, ids...)
}
