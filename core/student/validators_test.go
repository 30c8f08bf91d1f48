package student

import (
	"strings"
	"testing"

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

func wantTag(t *testing.T, err error, tag string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected validation error with tag %q", tag)
	}
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		t.Fatalf("expected validator.ValidationErrors, got %T: %v", err, err)
	}
	for _, fe := range vErrs {
		if fe.Tag() == tag {
			return
		}
	}
	t.Errorf("tag %q not found in %v", tag, err)
}

func TestNewStudent_passwordPolicy(t *testing.T) {
	validate := newTestValidator()

	newStd := func(pwd string) NewStudent {
		return NewStudent{
			Name:            "Awe Mwamba",
			Email:           "awe@test.cd",
			Role:            RoleStudent,
			Password:        pwd,
			PasswordConfirm: pwd,
		}
	}

	tests := []struct {
		name    string
		pwd     string
		wantTag string
	}{
		{name: "ok", pwd: "LeT@2021!go"},
		{name: "too short", pwd: "aB1!", wantTag: pwdMinLenTag},
		{name: "too long", pwd: "aB1!" + strings.Repeat("x", 125), wantTag: pwdMaxLenTag},
		{name: "whitespace", pwd: "aB1! aB1!", wantTag: pwdNoSpaceTag},
		{name: "all numeric", pwd: "123456789", wantTag: pwdNotAllNumTag},
		{name: "no uppercase", pwd: "lowercase1!", wantTag: pwdComplexityTag},
		{name: "no digit", pwd: "NoDigits!!", wantTag: pwdComplexityTag},
		{name: "no special", pwd: "NoSpecial123", wantTag: pwdComplexityTag},
		{name: "similar to email", pwd: "Awe@test.cd1", wantTag: pwdAttrSimTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(newStd(tt.pwd))
			if tt.wantTag == "" {
				if err != nil {
					t.Errorf("Struct() error = %v", err)
				}
				return
			}
			wantTag(t, err, tt.wantTag)
		})
	}

	t.Run("password confirm mismatch", func(t *testing.T) {
		ns := newStd("LeT@2021!go")
		ns.PasswordConfirm = "different"
		wantTag(t, validate.Struct(ns), "eqfield")
	})

	t.Run("bad role", func(t *testing.T) {
		ns := newStd("LeT@2021!go")
		ns.Role = "JANITOR"
		wantTag(t, validate.Struct(ns), roleTag)
	})
}

func TestUpdateStudent_passwordOptional(t *testing.T) {
	validate := newTestValidator()

	// no password provided: policy not applied
	us := UpdateStudent{Name: "Awe Mwamba"}
	if err := validate.Struct(us); err != nil {
		t.Errorf("Struct() error = %v", err)
	}

	// provided password still goes through the policy
	us = UpdateStudent{Password: "short", PasswordConfirm: "short"}
	wantTag(t, validate.Struct(us), pwdMinLenTag)
}
