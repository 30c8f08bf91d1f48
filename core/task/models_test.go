package task

import (
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

func newTestValidator() *validator.Validate {
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate
}

func validationField(t *testing.T, err error) string {
	t.Helper()
	vErr, ok := err.(*core.ValidationError)
	if !ok {
		t.Fatalf("expected *core.ValidationError, got %T: %v", err, err)
	}
	if len(vErr.Fields) == 0 {
		t.Fatal("expected at least one field error")
	}
	return vErr.Fields[0].Field
}

func TestNewTask_Validate(t *testing.T) {
	validate := newTestValidator()
	now := time.Date(2021, 3, 15, 10, 30, 0, 0, time.UTC)

	base := NewTask{
		SubjectID:    "f2a4c0de-0000-4000-8000-000000000001",
		Title:        "TP Thermodynamique",
		Description:  "Exercices 1 a 12",
		StartDate:    now.Add(24 * time.Hour),
		DeliveryDate: now.Add(72 * time.Hour),
		Priority:     PriorityHigh,
		State:        StatePending,
	}

	t.Run("ok", func(t *testing.T) {
		nt := base
		if err := nt.Validate(validate, now); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("start equals delivery", func(t *testing.T) {
		nt := base
		nt.StartDate = now.Add(24 * time.Hour)
		nt.DeliveryDate = nt.StartDate
		if err := nt.Validate(validate, now); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("start today is fine", func(t *testing.T) {
		nt := base
		nt.StartDate = now.Add(-2 * time.Hour) // earlier today
		if err := nt.Validate(validate, now); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("start after delivery", func(t *testing.T) {
		nt := base
		nt.StartDate = now.Add(96 * time.Hour)
		err := nt.Validate(validate, now)
		if err == nil {
			t.Fatal("Validate() expected error")
		}
		if fld := validationField(t, err); fld != "start_date" {
			t.Errorf("Validate() field = %q, want start_date", fld)
		}
	})

	t.Run("start in the past", func(t *testing.T) {
		nt := base
		nt.StartDate = now.Add(-48 * time.Hour)
		err := nt.Validate(validate, now)
		if err == nil {
			t.Fatal("Validate() expected error")
		}
		if fld := validationField(t, err); fld != "start_date" {
			t.Errorf("Validate() field = %q, want start_date", fld)
		}
	})

	t.Run("bad priority", func(t *testing.T) {
		nt := base
		nt.Priority = "WHENEVER"
		if err := nt.Validate(validate, now); err == nil {
			t.Error("Validate() expected error")
		}
	})

	t.Run("bad state", func(t *testing.T) {
		nt := base
		nt.State = "SLEEPING"
		if err := nt.Validate(validate, now); err == nil {
			t.Error("Validate() expected error")
		}
	})

	t.Run("bad subject id", func(t *testing.T) {
		nt := base
		nt.SubjectID = "42"
		if err := nt.Validate(validate, now); err == nil {
			t.Error("Validate() expected error")
		}
	})
}

func TestUpdateTask_Validate(t *testing.T) {
	validate := newTestValidator()
	now := time.Date(2021, 3, 15, 10, 30, 0, 0, time.UTC)

	orig := Task{
		ID:           "f2a4c0de-0000-4000-8000-000000000002",
		SubjectID:    "f2a4c0de-0000-4000-8000-000000000001",
		Title:        "Dissertation",
		Description:  "Sujet libre",
		StartDate:    now,
		DeliveryDate: now.Add(5 * 24 * time.Hour),
		Priority:     PriorityLow,
		State:        StatePending,
	}

	t.Run("empty update keeps original values", func(t *testing.T) {
		var ut UpdateTask
		if err := ut.Validate(validate, orig); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if ut.Title != orig.Title || ut.Priority != orig.Priority || ut.State != orig.State {
			t.Errorf("Validate() merge failed: %+v", ut)
		}
		if !ut.StartDate.Equal(orig.StartDate) || !ut.DeliveryDate.Equal(orig.DeliveryDate) {
			t.Errorf("Validate() dates not merged: %+v", ut)
		}
	})

	t.Run("state transition", func(t *testing.T) {
		ut := UpdateTask{State: StateCompleted}
		if err := ut.Validate(validate, orig); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if ut.State != StateCompleted || ut.Title != orig.Title {
			t.Errorf("Validate() merge failed: %+v", ut)
		}
	})

	t.Run("new delivery before original start", func(t *testing.T) {
		ut := UpdateTask{DeliveryDate: now.Add(-24 * time.Hour)}
		if err := ut.Validate(validate, orig); err == nil {
			t.Error("Validate() expected error")
		}
	})

	t.Run("moving start back is allowed", func(t *testing.T) {
		// rescheduling an existing task may place its start in the past
		ut := UpdateTask{StartDate: now.Add(-24 * time.Hour)}
		if err := ut.Validate(validate, orig); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})
}
