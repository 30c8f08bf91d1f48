package student

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/academia/core"
)

// Roles
const (
	RoleStudent = "STUDENT"
	RoleAdmin   = "ADMIN"
)

var AllRoles = []string{RoleStudent, RoleAdmin}

type Student struct {
	ID           string    `json:"studentId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	IsActive     *bool     `json:"is_active"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

func (s *Student) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Student) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

func (s *Student) SetActive(active bool) {
	s.IsActive = &active
}

func (s *Student) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Name            string `json:"name" validate:"required,max=100,namechars"`
	Email           string `json:"email" validate:"required,email"`
	Role            string `json:"role" validate:"omitempty,studentrole"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (ns *NewStudent) Validate(validate *validator.Validate, svc ServiceInterface) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(ns.Email)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Empty fields are kept as-is (merge semantics).
type UpdateStudent struct {
	Name            string `json:"name" validate:"omitempty,max=100,namechars"`
	Email           string `json:"email" validate:"omitempty,email"`
	Role            string `json:"role" validate:"omitempty,studentrole"`
	IsActive        *bool  `json:"is_active"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate, orig Student, svc ServiceInterface) error {
	if name := core.CleanString(us.Name); name != "" {
		us.Name = name
	} else {
		us.Name = orig.Name
	}
	if email := core.CleanString(us.Email, true /* lower */); email != "" {
		us.Email = email
	} else {
		us.Email = orig.Email
	}
	if us.Role == "" {
		us.Role = orig.Role
	}

	if err := validate.Struct(us); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(us.Email, orig)
}
