package task_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/alert"
	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/subject"
	"github.com/trezcool/academia/core/task"
	dummydb "github.com/trezcool/academia/storage/database/dummy"
	testutil "github.com/trezcool/academia/tests"
)

type fixture struct {
	svc      task.ServiceInterface
	alertSvc alert.ServiceInterface
	owner    student.Student
	sub      subject.Subject
	now      time.Time
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	stdRepo := dummydb.NewStudentRepository(db)
	subRepo := dummydb.NewSubjectRepository(db)
	taskRepo := dummydb.NewTaskRepository(db)
	altRepo := dummydb.NewAlertRepository(db)

	owner := testutil.CreateStudent(t, stdRepo, "Awe Mwamba", "awe@test.cd", "", student.RoleStudent, true)
	sub := testutil.CreateSubject(t, subRepo, owner.ID, "Chimie", nil)

	now := time.Date(2021, 3, 15, 10, 30, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	alertSvc := alert.NewServiceMock(altRepo, taskRepo, subRepo, stdRepo, nil, testutil.NopLogger{}, clock)
	svc := task.NewServiceMock(taskRepo, subRepo, alertSvc, testutil.NopLogger{}, clock)

	return &fixture{svc: svc, alertSvc: alertSvc, owner: owner, sub: sub, now: now}
}

func Test_Service_Create(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	nt := task.NewTask{
		SubjectID:    f.sub.ID,
		Title:        "Rapport de labo",
		Description:  "Rediger le rapport",
		StartDate:    f.now,
		DeliveryDate: f.now.AddDate(0, 0, 7),
		Priority:     task.PriorityHigh,
		State:        task.StatePending,
	}

	tsk, err := f.svc.Create(ctx, nt)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if tsk.ID == "" {
		t.Error("Create() did not assign an ID")
	}
	if tsk.SubjectID != f.sub.ID {
		t.Errorf("Create() SubjectID = %q, want %q", tsk.SubjectID, f.sub.ID)
	}

	// delivery is a week out: no alert yet
	alerts, err := f.alertSvc.QueryByOwner(ctx, f.owner.ID)
	if err != nil {
		t.Fatalf("QueryByOwner() failed: %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("Create() recorded %d alerts for a far-off task", len(alerts))
	}

	t.Run("unknown subject", func(t *testing.T) {
		bad := nt
		bad.SubjectID = "nope"
		if _, err := f.svc.Create(ctx, bad); errors.Cause(err) != subject.ErrNotFound {
			t.Errorf("Create() error = %v, want %v", err, subject.ErrNotFound)
		}
	})
}

func Test_Service_Create_alertsImminentTask(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tsk, err := f.svc.Create(ctx, task.NewTask{
		SubjectID:    f.sub.ID,
		Title:        "Interro",
		Description:  "Chapitres 3 et 4",
		StartDate:    f.now,
		DeliveryDate: f.now.AddDate(0, 0, 1),
		Priority:     task.PriorityUrgent,
		State:        task.StatePending,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	alerts, err := f.alertSvc.QueryByOwner(ctx, f.owner.ID)
	if err != nil {
		t.Fatalf("QueryByOwner() failed: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("Create() recorded %d alerts, want 1", len(alerts))
	}
	if alerts[0].TaskID != tsk.ID {
		t.Errorf("alert TaskID = %q, want %q", alerts[0].TaskID, tsk.ID)
	}
}

func Test_Service_Update(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	orig, err := f.svc.Create(ctx, task.NewTask{
		SubjectID:    f.sub.ID,
		Title:        "Expose",
		Description:  "La photosynthese",
		StartDate:    f.now,
		DeliveryDate: f.now.AddDate(0, 0, 10),
		Priority:     task.PriorityMedium,
		State:        task.StatePending,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	upd, err := f.svc.Update(ctx, orig.ID, task.UpdateTask{
		Title:        orig.Title,
		Description:  orig.Description,
		StartDate:    orig.StartDate,
		DeliveryDate: f.now.AddDate(0, 0, 1), // moved up
		Priority:     orig.Priority,
		State:        task.StateInProgress,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if upd.State != task.StateInProgress {
		t.Errorf("Update() State = %q, want %q", upd.State, task.StateInProgress)
	}

	// the new delivery date is inside the alert window
	alerts, err := f.alertSvc.QueryByOwner(ctx, f.owner.ID)
	if err != nil {
		t.Fatalf("QueryByOwner() failed: %v", err)
	}
	if len(alerts) != 1 {
		t.Errorf("Update() recorded %d alerts, want 1", len(alerts))
	}

	t.Run("not found", func(t *testing.T) {
		_, err := f.svc.Update(ctx, "nope", task.UpdateTask{Title: "x"})
		if errors.Cause(err) != task.ErrNotFound {
			t.Errorf("Update() error = %v, want %v", err, task.ErrNotFound)
		}
	})
}

func Test_Service_Queries(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for i, title := range []string{"T1", "T2"} {
		if _, err := f.svc.Create(ctx, task.NewTask{
			SubjectID:    f.sub.ID,
			Title:        title,
			Description:  title,
			StartDate:    f.now,
			DeliveryDate: f.now.AddDate(0, 0, 10+i),
			Priority:     task.PriorityLow,
			State:        task.StatePending,
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	bySub, err := f.svc.QueryBySubject(ctx, f.sub.ID)
	if err != nil {
		t.Fatalf("QueryBySubject() error = %v", err)
	}
	if len(bySub) != 2 {
		t.Errorf("QueryBySubject() returned %d tasks, want 2", len(bySub))
	}

	byOwner, err := f.svc.QueryByOwner(ctx, f.owner.ID)
	if err != nil {
		t.Fatalf("QueryByOwner() error = %v", err)
	}
	if len(byOwner) != 2 {
		t.Errorf("QueryByOwner() returned %d tasks, want 2", len(byOwner))
	}
}
