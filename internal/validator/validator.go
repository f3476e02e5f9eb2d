package validator

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError содержит ошибки по полям: json-имя -> сообщение.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e.Errors[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator оборачивает go-playground/validator с доменными тегами.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	registerCustomRules(v)
	return &Validator{validate: v}
}

// Validate возвращает *ValidationError, если структура не прошла проверку.
func (v *Validator) Validate(obj interface{}) error {
	err := v.validate.Struct(obj)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fe.Field()] = describe(fe)
	}
	return &ValidationError{Errors: out}
}

func jsonFieldName(fld reflect.StructField) string {
	tag := fld.Tag.Get("json")
	if tag == "" {
		tag = fld.Tag.Get("form")
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// сообщения для кастомных тегов из rules.go
var customMessages = map[string]string{
	"is-user-type":        "must be one of: particulier, artisan",
	"is-user-status":      "must be one of: ghost, validated, suspended",
	"is-swipe-action":     "must be one of: like, dislike",
	"is-message-type":     "must be one of: text, quote_request, meeting_request",
	"is-document-type":    "unknown document type",
	"is-document-status":  "must be one of: pending, validated, rejected",
	"is-report-status":    "must be one of: resolved, dismissed",
	"is-admin-role":       "must be one of: super_admin, admin, support",
	"is-admin-permission": "unknown permission",
	"is-profession":       "unknown profession",
}

func describe(fe validator.FieldError) string {
	if msg, ok := customMessages[fe.Tag()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "required", "required_if", "required_with":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min", "gte":
		if isSized(fe.Kind()) {
			return fmt.Sprintf("must contain at least %s items/characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max", "lte":
		if isSized(fe.Kind()) {
			return fmt.Sprintf("must contain at most %s items/characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", fe.Param())
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "url":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "dive":
		return "contains an invalid item"
	}
	return fmt.Sprintf("is invalid (%s)", fe.Tag())
}

func isSized(k reflect.Kind) bool {
	return k == reflect.String || k == reflect.Slice || k == reflect.Map
}
