package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/subject"
	"github.com/trezcool/academia/core/task"
)

// NopLogger discards all log output.
type NopLogger struct{}

func (NopLogger) Debug(msg string, args ...interface{}) {}
func (NopLogger) Info(msg string, args ...interface{})  {}
func (NopLogger) Warn(msg string, args ...interface{})  {}
func (NopLogger) Error(msg string, args ...interface{}) {}
func (NopLogger) Fatal(msg string, args ...interface{}) {}

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	name, email, pwd, role string,
	isActive bool,
	createdAt ...time.Time,
) student.Student {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	std := student.Student{
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	std.SetActive(isActive)
	if pwd != "" {
		if err := std.SetPassword(pwd); err != nil {
			t.Fatalf("CreateStudent() failed: %v", err)
		}
	}
	std, err := repo.CreateStudent(context.Background(), std)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

func CreateSubject(
	t *testing.T,
	repo subject.Repository,
	ownerID, name string,
	sched []subject.ScheduleEntry,
) subject.Subject {
	t.Helper()

	now := time.Now().UTC()
	sub, err := repo.CreateSubject(context.Background(), subject.Subject{
		Name:            name,
		AssignedTeacher: "Mr. Kalala",
		Color:           "#00FF00",
		Schedule:        sched,
		OwnerID:         ownerID,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return sub
}

func CreateTask(
	t *testing.T,
	repo task.Repository,
	subjectID, title string,
	start, delivery time.Time,
) task.Task {
	t.Helper()

	now := time.Now().UTC()
	tsk, err := repo.CreateTask(context.Background(), task.Task{
		SubjectID:    subjectID,
		Title:        title,
		Description:  title,
		StartDate:    start,
		DeliveryDate: delivery,
		Priority:     task.PriorityMedium,
		State:        task.StatePending,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}
	return tsk
}
