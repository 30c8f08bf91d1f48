package subject

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

type Subject struct {
	ID              string          `json:"subjectId"`
	Name            string          `json:"name"`
	AssignedTeacher string          `json:"assignedTeacher"`
	Color           string          `json:"color"`
	Schedule        []ScheduleEntry `json:"schedule"`
	OwnerID         string          `json:"studentId"`
	CreatedAt       time.Time       `json:"created_at"` // UTC
	UpdatedAt       time.Time       `json:"updated_at"` // UTC
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Name            string          `json:"name" validate:"required,max=100,namechars"`
	AssignedTeacher string          `json:"assignedTeacher" validate:"required,max=104,namechars"`
	Color           string          `json:"color" validate:"required,hexcolor"`
	Schedule        []ScheduleEntry `json:"schedule"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.AssignedTeacher = core.CleanString(ns.AssignedTeacher)
	ns.Color = core.CleanString(ns.Color)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	if err := ValidateSchedule(ns.Schedule); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "schedule", Error: err.Error()})
	}
	return nil
}

// UpdateSubject defines what information may be provided to modify an existing
// Subject. Empty fields are kept as-is (merge semantics). An owner may never
// be reassigned; a provided OwnerID must match the stored one.
type UpdateSubject struct {
	Name            string          `json:"name" validate:"omitempty,max=100,namechars"`
	AssignedTeacher string          `json:"assignedTeacher" validate:"omitempty,max=104,namechars"`
	Color           string          `json:"color" validate:"omitempty,hexcolor"`
	Schedule        []ScheduleEntry `json:"schedule"`
	OwnerID         string          `json:"studentId"`
}

var errOwnerImmutable = "subject owner cannot be changed"

func (us *UpdateSubject) Validate(validate *validator.Validate, orig Subject) error {
	if name := core.CleanString(us.Name); name != "" {
		us.Name = name
	} else {
		us.Name = orig.Name
	}
	if teacher := core.CleanString(us.AssignedTeacher); teacher != "" {
		us.AssignedTeacher = teacher
	} else {
		us.AssignedTeacher = orig.AssignedTeacher
	}
	if color := core.CleanString(us.Color); color != "" {
		us.Color = color
	} else {
		us.Color = orig.Color
	}
	if us.Schedule == nil {
		us.Schedule = orig.Schedule
	}

	if us.OwnerID != "" && us.OwnerID != orig.OwnerID {
		return core.NewValidationError(nil, core.FieldError{Field: "studentId", Error: errOwnerImmutable})
	}
	us.OwnerID = orig.OwnerID

	if err := validate.Struct(us); err != nil {
		return err
	}
	if err := ValidateSchedule(us.Schedule); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "schedule", Error: err.Error()})
	}
	return nil
}
