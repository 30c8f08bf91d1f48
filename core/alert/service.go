package alert

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/subject"
	"github.com/trezcool/academia/core/task"
)

// alertWindowDays is how far ahead the due-date window reaches.
const alertWindowDays = 2

var (
	// errors
	ErrNotFound = errors.New("alert not found")
)

type (
	Repository interface {
		CreateAlert(ctx context.Context, alt Alert) (Alert, error)
		// QueryAlertsByOwner follows the task -> subject -> owner chain.
		QueryAlertsByOwner(ctx context.Context, ownerID string) ([]Alert, error)
		// AlertExistsForTaskOn reports whether an alert was already recorded
		// for the task on the given calendar day.
		AlertExistsForTaskOn(ctx context.Context, taskID string, day time.Time) (bool, error)
	}

	taskQuerier interface {
		QueryTasksDueBetween(ctx context.Context, from, to time.Time) ([]task.Task, error)
	}

	subjectGetter interface {
		GetSubjectByID(ctx context.Context, id string) (subject.Subject, error)
	}

	ownerGetter interface {
		GetStudentByID(ctx context.Context, id string) (student.Student, error)
	}

	ServiceInterface interface {
		Scan(ctx context.Context) error
		GenerateForTask(ctx context.Context, tsk task.Task) error
		QueryByOwner(ctx context.Context, ownerID string) ([]Alert, error)
	}

	Service struct {
		repo     Repository
		tasks    taskQuerier
		subjects subjectGetter
		owners   ownerGetter
		mailSvc  core.EmailService
		logger   core.Logger
		clock    func() time.Time
	}
)

var _ ServiceInterface = (*Service)(nil)
var _ task.AlertEvaluator = (*Service)(nil)

func NewService(
	repo Repository,
	tasks taskQuerier,
	subjects subjectGetter,
	owners ownerGetter,
	mailSvc core.EmailService,
	logger core.Logger,
) *Service {
	return &Service{
		repo:     repo,
		tasks:    tasks,
		subjects: subjects,
		owners:   owners,
		mailSvc:  mailSvc,
		logger:   logger,
		clock:    time.Now,
	}
}

// alertMessage is intentionally fixed text: the original notifier emits
// "due in 2 days" regardless of the actual remaining days.
func alertMessage(tsk task.Task) string {
	return fmt.Sprintf("The task %q is due in 2 days.", tsk.Title)
}

// Scan is the recurring due-date check. It computes the window
// [now, end-of-day(now+2d)], fetches tasks due inside it and records one
// alert per qualifying task. A failed write is logged and the scan moves on
// to the remaining tasks.
func (svc *Service) Scan(ctx context.Context) error {
	now := svc.clock()
	from := now
	to := endOfDay(now.AddDate(0, 0, alertWindowDays))

	svc.logger.Info("checking for tasks due soon...")

	tasks, err := svc.tasks.QueryTasksDueBetween(ctx, from, to)
	if err != nil {
		return errors.Wrap(err, "querying tasks due soon")
	}
	if len(tasks) == 0 {
		svc.logger.Info("no tasks due soon")
		return nil
	}

	for _, tsk := range tasks {
		if err := svc.record(ctx, tsk, now); err != nil {
			svc.logger.Error(fmt.Sprintf("recording alert for task %s: %v", tsk.ID, err), err)
			continue
		}
	}
	return nil
}

// GenerateForTask re-runs the due-window test against "now" for a single
// task, right after creation or update.
func (svc *Service) GenerateForTask(ctx context.Context, tsk task.Task) error {
	now := svc.clock()
	days := wholeDaysUntil(now, tsk.DeliveryDate)
	if days < 0 || days > alertWindowDays {
		return nil
	}
	return svc.record(ctx, tsk, now)
}

func (svc *Service) QueryByOwner(ctx context.Context, ownerID string) ([]Alert, error) {
	return svc.repo.QueryAlertsByOwner(ctx, ownerID)
}

// record writes one alert for the task, at most once per task per calendar
// day, and emails the owner.
func (svc *Service) record(ctx context.Context, tsk task.Task, now time.Time) error {
	exists, err := svc.repo.AlertExistsForTaskOn(ctx, tsk.ID, startOfDay(now))
	if err != nil {
		return errors.Wrap(err, "checking existing alerts")
	}
	if exists {
		return nil
	}

	alt := Alert{
		TaskID:    tsk.ID,
		AlertDate: now,
		Message:   alertMessage(tsk),
	}
	if alt, err = svc.repo.CreateAlert(ctx, alt); err != nil {
		return errors.Wrap(err, "inserting alert")
	}
	svc.logger.Info(fmt.Sprintf("notification created for task %s", tsk.Title))

	svc.notifyOwner(ctx, tsk, alt)
	return nil
}

// notifyOwner emails the alert to the owning student; a failed lookup only
// costs the email, never the alert record.
func (svc *Service) notifyOwner(ctx context.Context, tsk task.Task, alt Alert) {
	if svc.mailSvc == nil {
		return
	}
	sub, err := svc.subjects.GetSubjectByID(ctx, tsk.SubjectID)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("resolving subject for alert email: %v", err), err)
		return
	}
	owner, err := svc.owners.GetStudentByID(ctx, sub.OwnerID)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("resolving owner for alert email: %v", err), err)
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: owner.Name, Address: owner.Email}},
		Subject: "Task due soon: " + tsk.Title,
		BodyStr: alt.Message,
	})
}

// wholeDaysUntil counts whole days from `from` to `to`, truncated toward
// zero (a delivery a few hours away still counts as 0 days).
func wholeDaysUntil(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
