package service

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/KirthanNB/Zchedule.ai/internal"
)

var hhmm = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return IsClock(fl.Field().String())
	})
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return internal.IsWeekday(fl.Field().String())
	})
	return v
}

// IsClock reports whether s is a 24-hour "HH:MM" time.
func IsClock(s string) bool {
	return hhmm.MatchString(s)
}

// ValidateProfile checks the formats of an inline profile. Absent optional
// fields pass; they are defaulted later.
func ValidateProfile(p *internal.UserProfile) error {
	return validate.Struct(p)
}

func IsValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}
