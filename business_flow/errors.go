// Package businessflow contains the core business logic and use cases for the repair service
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Auth errors
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrAdminNotFound      = errors.New("admin not found")

	// Repair request errors
	ErrRepairRequestNotFound = errors.New("repair request not found")
	ErrGDPRConsentRequired   = errors.New("GDPR consent is required")
	ErrInvalidStatus         = errors.New("invalid status value")
	ErrInvalidPriority       = errors.New("invalid priority value")
	ErrNoChangesMade         = errors.New("no changes made")
	ErrUpdateConflict        = errors.New("repair request was modified concurrently")

	// Contact message errors
	ErrContactMessageNotFound = errors.New("contact message not found")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
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

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsAdminNotFound(err error) bool {
	return errors.Is(err, ErrAdminNotFound)
}

func IsRepairRequestNotFound(err error) bool {
	return errors.Is(err, ErrRepairRequestNotFound)
}

func IsGDPRConsentRequired(err error) bool {
	return errors.Is(err, ErrGDPRConsentRequired)
}

func IsInvalidStatus(err error) bool {
	return errors.Is(err, ErrInvalidStatus)
}

func IsInvalidPriority(err error) bool {
	return errors.Is(err, ErrInvalidPriority)
}

func IsNoChangesMade(err error) bool {
	return errors.Is(err, ErrNoChangesMade)
}

func IsUpdateConflict(err error) bool {
	return errors.Is(err, ErrUpdateConflict)
}

func IsContactMessageNotFound(err error) bool {
	return errors.Is(err, ErrContactMessageNotFound)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}
