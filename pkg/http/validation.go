package http

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// validatorInstance reports fields by their JSON names.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
	})
	return validate
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ValidationErrors holds multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve.Errors) == 0 {
		return "validation failed"
	}
	return ve.Errors[0].Message
}

// AddError adds a new validation error
func (ve *ValidationErrors) AddError(field, message, code string) {
	ve.Errors = append(ve.Errors, ValidationError{
		Field:   field,
		Message: message,
		Code:    code,
	})
}

// HasErrors returns true if there are validation errors
func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}

// Fields lists the failing field names in order.
func (ve *ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(ve.Errors))
	for _, e := range ve.Errors {
		fields = append(fields, e.Field)
	}
	return fields
}

// AppError converts the collected errors into a validation AppError, or nil.
func (ve *ValidationErrors) AppError() *errors.AppError {
	if !ve.HasErrors() {
		return nil
	}
	messages := make([]string, 0, len(ve.Errors))
	for _, e := range ve.Errors {
		messages = append(messages, e.Message)
	}
	return errors.New(errors.ErrCodeValidation, "please fill in all required fields").
		WithDetails(strings.Join(messages, "; "))
}

// SanitizeString trims whitespace and strips control characters.
func SanitizeString(input string) string {
	sanitized := strings.TrimSpace(input)
	sanitized = strings.ReplaceAll(sanitized, "\x00", "")

	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, sanitized)
}

// ValidateStruct validates a struct using the validator package
func ValidateStruct(s interface{}) *ValidationErrors {
	errs := &ValidationErrors{}

	err := validatorInstance().Struct(s)
	if err == nil {
		return errs
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.AddError("request", err.Error(), "invalid")
		return errs
	}
	for _, fe := range fieldErrors {
		errs.AddError(fe.Field(), formatValidationMessage(fe), fe.Tag())
	}
	return errs
}

var validationMessages = map[string]string{
	"required": "%s is required",
	"min":      "%s must be at least %s",
	"max":      "%s must be at most %s",
	"gt":       "%s must be greater than %s",
	"gte":      "%s must be greater than or equal to %s",
	"url":      "%s must be a valid URL",
}

func formatValidationMessage(fe validator.FieldError) string {
	format, ok := validationMessages[fe.Tag()]
	if !ok {
		return fe.Field() + " is invalid"
	}
	if strings.Count(format, "%s") == 2 {
		return fmt.Sprintf(format, fe.Field(), fe.Param())
	}
	return fmt.Sprintf(format, fe.Field())
}
