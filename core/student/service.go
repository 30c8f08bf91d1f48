package student

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

var (
	// errors
	ErrNotFound    = errors.New("student not found")
	ErrEmailExists = errors.New("a student with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedStudents ...Student) error
		CreateStudent(ctx context.Context, std Student) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		GetStudentByEmail(ctx context.Context, email string) (Student, error)
		UpdateStudent(ctx context.Context, std Student, isActive *bool) (Student, error)
		DeleteStudentsByID(ctx context.Context, ids ...string) error
	}

	ServiceInterface interface {
		CheckEmailUniqueness(email string, exclStudents ...Student) error
		Create(ctx context.Context, ns NewStudent) (Student, error)
		QueryAll(ctx context.Context) ([]Student, error)
		GetByID(ctx context.Context, id string) (Student, error)
		GetByEmail(ctx context.Context, email string) (Student, error)
		Update(ctx context.Context, id string, us UpdateStudent) (Student, error)
		Delete(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
		clock   func() time.Time
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
		clock:   time.Now,
	}
}

func (svc *Service) CheckEmailUniqueness(email string, exclStudents ...Student) error {
	if err := svc.repo.CheckEmailUniqueness(context.Background(), email, exclStudents...); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := svc.clock().UTC()
	role := ns.Role
	if role == "" {
		role = RoleStudent
	}
	std := Student{
		Name:      ns.Name,
		Email:     ns.Email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	std.SetActive(true)
	if err := std.SetPassword(ns.Password); err != nil {
		return Student{}, errors.Wrap(err, "setting password")
	}

	std, err := svc.repo.CreateStudent(ctx, std)
	if err != nil {
		return Student{}, errors.Wrap(err, "creating student")
	}
	svc.sendWelcomeEmail(std)
	return std, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Student, error) {
	return svc.repo.GetStudentByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	std := Student{
		ID:        id,
		Name:      us.Name,
		Email:     us.Email,
		Role:      us.Role,
		UpdatedAt: svc.clock().UTC(),
	}
	if us.Password != "" {
		if err := std.SetPassword(us.Password); err != nil {
			return Student{}, errors.Wrap(err, "setting password")
		}
	}
	return svc.repo.UpdateStudent(ctx, std, us.IsActive)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteStudentsByID(ctx, ids...)
}

func (svc *Service) sendWelcomeEmail(std Student) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: std.Name, Address: std.Email}},
		Subject: "Welcome to " + svc.conf.AppName,
		BodyStr: fmt.Sprintf("Hi %s,\n\nYour account has been created. Happy studying!\n", std.Name),
	})
}
