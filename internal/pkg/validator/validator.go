// Package validator checks moderation API request DTOs.
package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/EdnondDantes/golosStroyki/internal/entity"
	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("variant", func(fl validator.FieldLevel) bool {
		return entity.FormVariant(fl.Field().String()).Validate() == nil
	})
	_ = v.RegisterValidation("record_status", func(fl validator.FieldLevel) bool {
		return entity.RecordStatus(fl.Field().String()).Validate() == nil
	})
	_ = v.RegisterValidation("complaint_status", func(fl validator.FieldLevel) bool {
		return entity.ComplaintStatus(fl.Field().String()).Validate() == nil
	})

	return &Validator{validate: v}
}

// Struct validates s and wraps failures into entity.ErrInvalidParameter.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", entity.ErrInvalidParameter, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is not a valid %s", field, fe.Tag())
	}
}
