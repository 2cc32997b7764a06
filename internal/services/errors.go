package services

import "errors"

type ErrorCode string

const (
	ErrorInvalid      ErrorCode = "invalid"
	ErrorNotFound     ErrorCode = "not_found"
	ErrorConflict     ErrorCode = "conflict"
	ErrorUnauthorized ErrorCode = "unauthorized"

	// Rejection outcomes of the answer pipeline. These are decisions, not
	// failures: the request was handled, the answer was refused.
	ErrorEmptyOrOversize ErrorCode = "empty_or_oversize"
	ErrorGibberish       ErrorCode = "gibberish"
	ErrorBanned          ErrorCode = "banned"
	ErrorQuestionFull    ErrorCode = "question_full"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error  { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewNotFoundError(msg string) error { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewConflictError(msg string) error { return &ServiceError{Code: ErrorConflict, Message: msg} }
func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

func NewRejection(code ErrorCode, msg string) error {
	return &ServiceError{Code: code, Message: msg}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsRejection reports whether err is one of the pipeline rejection outcomes.
func IsRejection(err error) bool {
	se, ok := AsServiceError(err)
	if !ok {
		return false
	}
	switch se.Code {
	case ErrorEmptyOrOversize, ErrorGibberish, ErrorBanned, ErrorQuestionFull:
		return true
	}
	return false
}
