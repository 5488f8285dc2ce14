// Package businessflow contains the core business logic and use cases for customer option pricing
package businessflow

import (
	"errors"
	"fmt"

	"github.com/glintshop/customer-options/app/dto"
)

// Business flow error constants
var (
	// Lookup errors
	ErrProductNotFound             = errors.New("product not found")
	ErrCustomerOptionNotFound      = errors.New("customer option not found")
	ErrCustomerOptionValueNotFound = errors.New("customer option value not found")
	ErrChannelNotFound             = errors.New("channel not found")

	// Price resolution errors
	ErrAmbiguousPrice = errors.New("multiple prices match the same identity tuple")

	// Import errors
	ErrEmptyImportFile    = errors.New("import file contains no data rows")
	ErrMissingImportField = errors.New("required import column is missing")

	// Order item option errors
	ErrInvalidDateValue   = errors.New("value is not a parseable date")
	ErrOrderItemRequired  = errors.New("order item is required")
	ErrOptionValueMissing = errors.New("option value is required")

	// Customer option admin errors
	ErrOptionCodeTaken    = errors.New("customer option code already exists")
	ErrInvalidOptionType  = errors.New("unknown customer option type")
	ErrOptionCodeRequired = errors.New("customer option code is required")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

// ConstraintViolationError carries the structured violation list produced
// by entity validation for one import row.
type ConstraintViolationError struct {
	Violations []dto.Violation
}

func (e *ConstraintViolationError) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("validation failed: %s: %s", e.Violations[0].PropertyPath, e.Violations[0].Message)
	}
	return fmt.Sprintf("validation failed with %d violations", len(e.Violations))
}

func IsProductNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound)
}

func IsCustomerOptionNotFound(err error) bool {
	return errors.Is(err, ErrCustomerOptionNotFound)
}

func IsCustomerOptionValueNotFound(err error) bool {
	return errors.Is(err, ErrCustomerOptionValueNotFound)
}

func IsChannelNotFound(err error) bool {
	return errors.Is(err, ErrChannelNotFound)
}

func IsAmbiguousPrice(err error) bool {
	return errors.Is(err, ErrAmbiguousPrice)
}

func IsInvalidDateValue(err error) bool {
	return errors.Is(err, ErrInvalidDateValue)
}

func IsOptionCodeTaken(err error) bool {
	return errors.Is(err, ErrOptionCodeTaken)
}

func IsInvalidOptionType(err error) bool {
	return errors.Is(err, ErrInvalidOptionType)
}

func IsConstraintViolation(err error) bool {
	var cve *ConstraintViolationError
	return errors.As(err, &cve)
}
