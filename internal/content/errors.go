package content

import (
	"errors"
	"fmt"
)

var (
	// ErrFetchFailed is returned when a fragment could not be retrieved.
	ErrFetchFailed = errors.New("fragment fetch failed")

	// ErrMalformedFragment is returned when a fragment was retrieved but
	// could not be decoded or failed validation.
	ErrMalformedFragment = errors.New("malformed fragment")

	errFragmentTooLarge = fmt.Errorf("fragment exceeds %d bytes", maxFragmentSize)
)

// FetchError records which fragment failed and why.
type FetchError struct {
	Path string // fragment path relative to the content root
	Kind error  // ErrFetchFailed or ErrMalformedFragment
	Err  error  // underlying cause
}

// Error implements the error interface for FetchError.
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Path)
}

// Unwrap exposes both the kind and the cause to errors.Is/errors.As.
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func fetchFailed(path string, err error) error {
	return &FetchError{Path: path, Kind: ErrFetchFailed, Err: err}
}

func malformed(path string, err error) error {
	return &FetchError{Path: path, Kind: ErrMalformedFragment, Err: err}
}
