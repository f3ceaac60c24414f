package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrProfileExists  = errors.New("profile already exists")
	ErrDayOutOfRange  = errors.New("day must be between 1 and 21")
	ErrDayLocked      = errors.New("day is locked")
	ErrQuotaExceeded  = errors.New("monthly analysis quota exceeded")
	ErrReportFailed   = errors.New("report generation failed")
	ErrUnknownNote    = errors.New("unknown note")
	ErrInvalidPayload = errors.New("invalid audio payload")
)

// IsValidation reports whether err comes from request validation.
func IsValidation(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs) || errors.Is(err, ErrInvalidInput)
}
