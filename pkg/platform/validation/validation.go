// Package validation wraps go-playground/validator for request DTOs.
//
// Struct tags carry the declarative rules; Struct converts the first failing
// rule into a CodeValidation domain error naming the JSON field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	dErrors "lotolink/pkg/domain-errors"
)

// Size limits shared by request DTOs.
const (
	MaxNameLength    = 128
	MaxAddressLength = 256
	MaxPhoneLength   = 20
	MaxEmailLength   = 254
	MaxCodeLength    = 32
	MaxURLLength     = 2048
	MinPasswordLen   = 8
)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\-\s]{5,18}$`)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return dErrors.New(dErrors.CodeValidation, describe(verrs[0].Field(), verrs[0]))
	}
	return dErrors.Wrap(err, dErrors.CodeValidation, "invalid request")
}

// Var validates a single value against a tag expression, naming it field.
func Var(field string, value any, tag string) error {
	err := instance().Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return dErrors.New(dErrors.CodeValidation, describe(field, verrs[0]))
	}
	return dErrors.Wrap(err, dErrors.CodeValidation, "invalid "+field)
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "url", "http_url":
		return field + " must be a valid URL"
	case "phone":
		return field + " must be a valid phone number"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gte", "lte", "gt", "lt":
		return fmt.Sprintf("%s is out of range", field)
	default:
		return field + " is invalid"
	}
}
