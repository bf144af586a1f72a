package usecase

import (
	"errors"
	"fmt"

	"github.com/xavierca1/lead-outreach/internal/entity"
)

const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeParse          = "PARSE_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeStorage        = "STORAGE_ERROR"
	CodeDispatchFailed = "DISPATCH_FAILED"
)

// DomainError is a caller mistake: bad input, unknown record, bad token.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var d *DomainError
	return errors.As(err, &d)
}

// TechnicalError is an upstream failure. Details is safe to show to the
// caller for debugging; the wrapped error is for logs only.
type TechnicalError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error { return e.Err }

func IsTechnicalError(err error) bool {
	var t *TechnicalError
	return errors.As(err, &t)
}

func validationError(msg string) error {
	return &DomainError{Code: CodeValidation, Message: msg}
}

func notFound(what string) error {
	return &DomainError{Code: CodeNotFound, Message: what + " not found"}
}

// storageError turns a repository error into the use-case vocabulary.
// entity.ErrNotFound becomes a NOT_FOUND domain error for what.
func storageError(what string, err error) error {
	if errors.Is(err, entity.ErrNotFound) {
		return notFound(what)
	}
	return &TechnicalError{Code: CodeStorage, Message: "storage error", Err: fmt.Errorf("%s: %w", what, err)}
}

func storageIsNotFound(err error) bool {
	return errors.Is(err, entity.ErrNotFound)
}
