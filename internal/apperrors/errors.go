package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the acting user is not allowed to perform the operation.
var ErrForbidden = errors.New("operation not permitted")

// ErrConflict indicates the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("conflicting state")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrInsufficientFunds indicates the paying account cannot cover the amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrSelfTransfer indicates sender and recipient are the same account.
var ErrSelfTransfer = errors.New("sender and recipient accounts are the same")

// ErrUnsupportedCurrencyPair indicates no conversion rate is registered for the ordered pair.
var ErrUnsupportedCurrencyPair = errors.New("unsupported currency pair")

// ErrAlreadyResolved indicates a payment request has already left the pending state.
var ErrAlreadyResolved = errors.New("payment request already resolved")

// ErrBusy indicates a row lock could not be acquired within the bounded wait.
// Unlike the other sentinels it is safely retryable: the operation performed
// no mutation before timing out.
var ErrBusy = errors.New("resource busy, retry")

// AppError carries a status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewValidationError creates an AppError that matches errors.Is(err, ErrValidation).
func NewValidationError(message string) *AppError {
	return &AppError{Code: 400, Message: message, Err: ErrValidation}
}
