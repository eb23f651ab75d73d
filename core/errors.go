package core

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// FieldError is a rejected input field, eg. a student without an email address.
type FieldError struct {
	Field string
	Error string
}

// TranslateFieldErrors flattens validator errors into FieldErrors, keeping their order.
func TranslateFieldErrors(vErrs validator.ValidationErrors, translator ut.Translator) []FieldError {
	flds := make([]FieldError, 0, len(vErrs))
	for _, vErr := range vErrs {
		flds = append(flds, FieldError{Field: vErr.Field(), Error: vErr.Translate(translator)})
	}
	return flds
}

// ValidationError reports why an entity (student, grade...) was rejected.
type ValidationError struct {
	Entity string
	Fields []FieldError
}

func NewValidationError(entity string, flds ...FieldError) error {
	return &ValidationError{Entity: entity, Fields: flds}
}

// Error reads like "invalid student: lastname: this field is required, emailAddress: ...".
func (err ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("invalid ")
	b.WriteString(err.Entity)
	for i, fld := range err.Fields {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(fld.Field + ": " + fld.Error)
	}
	return b.String()
}

// FieldMap indexes the field messages by field name, as rendered in API responses.
func (err ValidationError) FieldMap() map[string]string {
	flds := make(map[string]string, len(err.Fields))
	for _, fld := range err.Fields {
		flds[fld.Field] = fld.Error
	}
	return flds
}

// shutdown marks an error after which the store can no longer be trusted.
type shutdown struct {
	message string
	cause   error
}

// NewShutdownError reports a store integrity failure. cause may be nil.
func NewShutdownError(msg string, cause error) error {
	return &shutdown{message: msg, cause: cause}
}

func (s shutdown) Error() string {
	if s.cause == nil {
		return s.message
	}
	return s.message + ": " + s.cause.Error()
}

func (s shutdown) Unwrap() error { return s.cause }

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
