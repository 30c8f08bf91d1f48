package task

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

type State string

const (
	StatePending    State = "PENDING"
	StateInProgress State = "IN_PROGRESS"
	StateCompleted  State = "COMPLETED"
	StateCancelled  State = "CANCELLED"
)

var (
	AllPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
	AllStates     = []State{StatePending, StateInProgress, StateCompleted, StateCancelled}
)

type Task struct {
	ID           string    `json:"task_id"`
	SubjectID    string    `json:"subjectId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	StartDate    time.Time `json:"start_date"`
	DeliveryDate time.Time `json:"delivery_date"`
	Priority     Priority  `json:"priority"`
	State        State     `json:"state"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

var (
	errStartAfterDelivery = "start_date must not be after delivery_date"
	errStartInPast        = "start_date must not be in the past"
)

// NewTask contains information needed to create a new Task.
type NewTask struct {
	SubjectID    string    `json:"subjectId" validate:"required,uuid4"`
	Title        string    `json:"title" validate:"required,max=200,namechars"`
	Description  string    `json:"description" validate:"required,max=1000"`
	StartDate    time.Time `json:"start_date" validate:"required"`
	DeliveryDate time.Time `json:"delivery_date" validate:"required"`
	Priority     Priority  `json:"priority" validate:"required,taskpriority"`
	State        State     `json:"state" validate:"required,taskstate"`
}

// Validate checks field rules, then date ordering against `now`.
// A zero-length interval (start == delivery) is legal.
func (nt *NewTask) Validate(validate *validator.Validate, now time.Time) error {
	nt.Title = core.CleanString(nt.Title)
	nt.Description = core.CleanString(nt.Description)

	if err := validate.Struct(nt); err != nil {
		return err
	}
	if nt.StartDate.After(nt.DeliveryDate) {
		return core.NewValidationError(nil, core.FieldError{Field: "start_date", Error: errStartAfterDelivery})
	}
	// compare at day granularity: creating a task starting today is fine
	if startOfDay(nt.StartDate).Before(startOfDay(now)) {
		return core.NewValidationError(nil, core.FieldError{Field: "start_date", Error: errStartInPast})
	}
	return nil
}

// UpdateTask defines what information may be provided to modify an existing
// Task. Zero-valued fields are kept as-is (merge semantics).
type UpdateTask struct {
	Title        string    `json:"title" validate:"omitempty,max=200,namechars"`
	Description  string    `json:"description" validate:"omitempty,max=1000"`
	StartDate    time.Time `json:"start_date"`
	DeliveryDate time.Time `json:"delivery_date"`
	Priority     Priority  `json:"priority" validate:"omitempty,taskpriority"`
	State        State     `json:"state" validate:"omitempty,taskstate"`
}

func (ut *UpdateTask) Validate(validate *validator.Validate, orig Task) error {
	if title := core.CleanString(ut.Title); title != "" {
		ut.Title = title
	} else {
		ut.Title = orig.Title
	}
	if desc := core.CleanString(ut.Description); desc != "" {
		ut.Description = desc
	} else {
		ut.Description = orig.Description
	}
	if ut.StartDate.IsZero() {
		ut.StartDate = orig.StartDate
	}
	if ut.DeliveryDate.IsZero() {
		ut.DeliveryDate = orig.DeliveryDate
	}
	if ut.Priority == "" {
		ut.Priority = orig.Priority
	}
	if ut.State == "" {
		ut.State = orig.State
	}

	if err := validate.Struct(ut); err != nil {
		return err
	}
	if ut.StartDate.After(ut.DeliveryDate) {
		return core.NewValidationError(nil, core.FieldError{Field: "start_date", Error: errStartAfterDelivery})
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
