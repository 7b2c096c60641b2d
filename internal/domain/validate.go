package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("posint", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil && n > 0 && n <= math.MaxInt32
	})
	return v
}

// fieldMessages maps "<StructField>.<tag>" to the client-facing message.
var fieldMessages = map[string]string{
	"Username.required":        "username is required",
	"Description.notblank":     "description is required",
	"DurationMinutes.required": "durationMinutes is required",
	"DurationMinutes.posint":   "durationMinutes must be a valid number greater than 0",
	"Date.datetime":            "date must be in the format YYYY-MM-DD",
}

// validateInput runs struct tag validation and reports the first failing field.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return validationError(err.Error())
	}

	first := fieldErrs[0]
	if msg, ok := fieldMessages[first.StructField()+"."+first.Tag()]; ok {
		return validationError(msg)
	}
	return validationError(fmt.Sprintf("%s is invalid", strings.ToLower(first.Field())))
}
