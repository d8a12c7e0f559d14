package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/guildledger/internal/domain"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

var (
	validate     *Validator
	validateOnce sync.Once
)

// InitValidator initializes the global validator. Later calls are no-ops.
func InitValidator() {
	validateOnce.Do(func() { validate = newValidator() })
}

func newValidator() *Validator {
	v := validator.New()

	// Report JSON names instead of Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("slot", validateSlot)
	_ = v.RegisterValidation("listable", validateListable)

	return &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	InitValidator()
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s any) error {
	return v.validate.Struct(s)
}

// FormatValidationError formats validation errors into a field -> message map
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["_"] = "Invalid value"
		return errs
	}

	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "slot":
			errs[field] = "Must be one of weapon, armor, helmet, boots, accessory"
		case "listable":
			errs[field] = "Must be one of gems, metals, quartz"
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s", e.Param())
		case "min", "gte":
			errs[field] = fmt.Sprintf("Must be at least %s", e.Param())
		case "excludesall":
			errs[field] = "Contains invalid characters"
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

// validateSlot accepts an empty value; pair with "required" when needed.
func validateSlot(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := domain.ParseSlot(s)
	return err == nil
}

func validateListable(fl validator.FieldLevel) bool {
	r, err := domain.ParseResource(fl.Field().String())
	return err == nil && r.IsListable()
}
