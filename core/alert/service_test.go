package alert_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/alert"
	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/subject"
	"github.com/trezcool/academia/core/task"
	dummydb "github.com/trezcool/academia/storage/database/dummy"
	testutil "github.com/trezcool/academia/tests"
)

// mailRecorder captures outgoing messages synchronously.
type mailRecorder struct {
	sync.Mutex
	messages []core.EmailMessage
}

func (m *mailRecorder) SendMessages(messages ...*core.EmailMessage) {
	m.Lock()
	defer m.Unlock()
	for _, msg := range messages {
		m.messages = append(m.messages, *msg)
	}
}

type fixture struct {
	svc      alert.ServiceInterface
	altRepo  alert.Repository
	taskRepo task.Repository
	mail     *mailRecorder
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
	mail := &mailRecorder{}
	svc := alert.NewServiceMock(
		altRepo, taskRepo, subRepo, stdRepo, mail, testutil.NopLogger{},
		func() time.Time { return now },
	)

	return &fixture{
		svc:      svc,
		altRepo:  altRepo,
		taskRepo: taskRepo,
		mail:     mail,
		owner:    owner,
		sub:      sub,
		now:      now,
	}
}

func (f *fixture) ownerAlerts(t *testing.T) []alert.Alert {
	t.Helper()
	alerts, err := f.svc.QueryByOwner(context.Background(), f.owner.ID)
	if err != nil {
		t.Fatalf("QueryByOwner() failed: %v", err)
	}
	return alerts
}

func Test_Service_Scan_window(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		delivery time.Time
		want     bool
	}{
		{name: "due later today", delivery: f.now.Add(7 * time.Hour), want: true},
		{name: "due tomorrow", delivery: f.now.AddDate(0, 0, 1), want: true},
		{name: "due in two days", delivery: f.now.AddDate(0, 0, 2), want: true},
		{name: "due at end of second day", delivery: time.Date(2021, 3, 17, 23, 0, 0, 0, time.UTC), want: true},
		{name: "due in three days", delivery: f.now.AddDate(0, 0, 3), want: false},
		{name: "already past", delivery: f.now.Add(-2 * time.Hour), want: false},
	}

	wantTotal := 0
	for _, tt := range tests {
		testutil.CreateTask(t, f.taskRepo, f.sub.ID, tt.name, f.now, tt.delivery)
		if tt.want {
			wantTotal++
		}
	}

	if err := f.svc.Scan(ctx); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	alerts := f.ownerAlerts(t)
	if len(alerts) != wantTotal {
		t.Fatalf("Scan() recorded %d alerts, want %d: %+v", len(alerts), wantTotal, alerts)
	}

	alerted := make(map[string]bool)
	tasks, _ := f.taskRepo.QueryTasksDueBetween(ctx, f.now.AddDate(0, 0, -10), f.now.AddDate(0, 0, 10))
	byID := make(map[string]task.Task, len(tasks))
	for _, tsk := range tasks {
		byID[tsk.ID] = tsk
	}
	for _, alt := range alerts {
		alerted[byID[alt.TaskID].Title] = true
	}
	for _, tt := range tests {
		if alerted[tt.name] != tt.want {
			t.Errorf("%s: alerted = %v, want %v", tt.name, alerted[tt.name], tt.want)
		}
	}
}

func Test_Service_Scan_message(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tsk := testutil.CreateTask(t, f.taskRepo, f.sub.ID, "TP Chimie", f.now, f.now.Add(5*time.Hour))

	if err := f.svc.Scan(ctx); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	alerts := f.ownerAlerts(t)
	if len(alerts) != 1 {
		t.Fatalf("Scan() recorded %d alerts, want 1", len(alerts))
	}
	alt := alerts[0]
	if alt.TaskID != tsk.ID {
		t.Errorf("TaskID = %q, want %q", alt.TaskID, tsk.ID)
	}
	// fixed wording, whatever the actual remaining time
	want := fmt.Sprintf("The task %q is due in 2 days.", tsk.Title)
	if alt.Message != want {
		t.Errorf("Message = %q, want %q", alt.Message, want)
	}
	if !alt.AlertDate.Equal(f.now) {
		t.Errorf("AlertDate = %v, want %v", alt.AlertDate, f.now)
	}

	// the owner got an email carrying the same message
	if len(f.mail.messages) != 1 {
		t.Fatalf("sent %d emails, want 1", len(f.mail.messages))
	}
	msg := f.mail.messages[0]
	if len(msg.To) != 1 || msg.To[0].Address != f.owner.Email {
		t.Errorf("email To = %+v, want %s", msg.To, f.owner.Email)
	}
	if msg.BodyStr != want {
		t.Errorf("email body = %q, want %q", msg.BodyStr, want)
	}
}

func Test_Service_Scan_noTasks(t *testing.T) {
	f := setup(t)

	if err := f.svc.Scan(context.Background()); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if alerts := f.ownerAlerts(t); len(alerts) != 0 {
		t.Errorf("Scan() recorded %d alerts on empty store", len(alerts))
	}
	if len(f.mail.messages) != 0 {
		t.Errorf("Scan() sent %d emails on empty store", len(f.mail.messages))
	}
}

func Test_Service_Scan_dedup(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	testutil.CreateTask(t, f.taskRepo, f.sub.ID, "Examen", f.now, f.now.AddDate(0, 0, 1))

	for i := 0; i < 3; i++ {
		if err := f.svc.Scan(ctx); err != nil {
			t.Fatalf("Scan() #%d error = %v", i+1, err)
		}
	}

	if alerts := f.ownerAlerts(t); len(alerts) != 1 {
		t.Errorf("repeated scans recorded %d alerts, want 1", len(alerts))
	}
	if len(f.mail.messages) != 1 {
		t.Errorf("repeated scans sent %d emails, want 1", len(f.mail.messages))
	}
}

func Test_Service_GenerateForTask(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		delivery time.Time
		want     bool
	}{
		{name: "due in an hour", delivery: f.now.Add(time.Hour), want: true},
		{name: "due in 49 hours", delivery: f.now.Add(49 * time.Hour), want: true},
		{name: "due in 80 hours", delivery: f.now.Add(80 * time.Hour), want: false},
		{name: "due two days ago", delivery: f.now.AddDate(0, 0, -2), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tsk := testutil.CreateTask(t, f.taskRepo, f.sub.ID, tt.name, f.now.AddDate(0, 0, -3), tt.delivery)

			before := len(f.ownerAlerts(t))
			if err := f.svc.GenerateForTask(ctx, tsk); err != nil {
				t.Fatalf("GenerateForTask() error = %v", err)
			}
			got := len(f.ownerAlerts(t)) > before
			if got != tt.want {
				t.Errorf("GenerateForTask() recorded alert = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("same day re-evaluation is deduped", func(t *testing.T) {
		tsk := testutil.CreateTask(t, f.taskRepo, f.sub.ID, "re-eval", f.now, f.now.Add(3*time.Hour))

		before := len(f.ownerAlerts(t))
		for i := 0; i < 2; i++ {
			if err := f.svc.GenerateForTask(ctx, tsk); err != nil {
				t.Fatalf("GenerateForTask() error = %v", err)
			}
		}
		if got := len(f.ownerAlerts(t)) - before; got != 1 {
			t.Errorf("GenerateForTask() recorded %d alerts, want 1", got)
		}
	})
}
