// Package validator wraps go-playground/validator with a shared instance,
// Catapult specific tags and uniform error messages.
//
// Extra tags:
//
//	catapult_address  a 39 character address or a 40 character legacy one
//	catapult_key      a 64 character hex key
//	namespace_name    a dotted namespace path such as "cat.currency"
package validator

import (
	"errors"
	"fmt"

	"github.com/gabapcia/catapultcli/internal/pkg/catapult"

	gvalidator "github.com/go-playground/validator/v10"
)

// ErrValidationFailed heads the joined error returned by Validate.
var ErrValidationFailed = errors.New("struct validation failed")

var validator *gvalidator.Validate

// Example: "'Endpoint': value 'localhost' does not meet the requirements for the 'url' validation"
const errStringFormat = "'%s': value '%v' does not meet the requirements for the '%s' validation"

func init() {
	validator = gvalidator.New(gvalidator.WithRequiredStructEnabled())

	must(validator.RegisterValidation("catapult_address", func(fl gvalidator.FieldLevel) bool {
		_, err := catapult.ParseAddress(fl.Field().String())
		return err == nil
	}))
	must(validator.RegisterValidation("catapult_key", func(fl gvalidator.FieldLevel) bool {
		_, err := catapult.ParsePublicKey(fl.Field().String())
		return err == nil
	}))
	must(validator.RegisterValidation("namespace_name", func(fl gvalidator.FieldLevel) bool {
		_, err := catapult.NamespacePath(fl.Field().String())
		return err == nil
	}))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func formatError(err error) error {
	var validationErrors gvalidator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := []error{ErrValidationFailed}
	for _, validationErr := range validationErrors {
		errs = append(errs, fmt.Errorf(errStringFormat,
			validationErr.Field(),
			validationErr.Value(),
			validationErr.Tag(),
		))
	}

	return errors.Join(errs...)
}

// Validate checks v against its `validate` tags. Failures are reported as
// ErrValidationFailed joined with one message per offending field.
func Validate(v any) error {
	if err := validator.Struct(v); err != nil {
		return formatError(err)
	}

	return nil
}
