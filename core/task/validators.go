package task

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

var (
	priorityTag  = "taskpriority"
	priorityText = "priority must be one of LOW, MEDIUM, HIGH, URGENT"

	stateTag  = "taskstate"
	stateText = "state must be one of PENDING, IN_PROGRESS, COMPLETED, CANCELLED"
)

// InitValidators registers this package's custom validators and translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(priorityTag, priorityValidation)
	core.RegisterCustomTranslation(validate, translator, priorityTag, priorityText)

	_ = validate.RegisterValidation(stateTag, stateValidation)
	core.RegisterCustomTranslation(validate, translator, stateTag, stateText)
}

func priorityValidation(fl validator.FieldLevel) bool {
	p := Priority(fl.Field().String())
	for _, known := range AllPriorities {
		if p == known {
			return true
		}
	}
	return false
}

func stateValidation(fl validator.FieldLevel) bool {
	s := State(fl.Field().String())
	for _, known := range AllStates {
		if s == known {
			return true
		}
	}
	return false
}
