package service

import (
	"errors"
	"fmt"
)

// Service errors. The API layer maps them to HTTP status codes.
var (
	// ErrNotFound indicates the requested section, disease, file, banner or
	// blob does not exist. API layer should map this to HTTP 404 Not Found.
	ErrNotFound = errors.New("not found")

	// ErrExportFailed indicates the document serializer failed. It is
	// reported once, without retry.
	ErrExportFailed = errors.New("export failed")

	// ErrStillLoading indicates the initial catalog load has not settled.
	ErrStillLoading = errors.New("catalog is still loading")
)

// ServiceError adds the failing operation to an error.
type ServiceError struct {
	Service   string
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service %s failed: %v", e.Service, e.Operation, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a ServiceError.
func NewServiceError(service, operation string, err error) *ServiceError {
	return &ServiceError{Service: service, Operation: operation, Err: err}
}
