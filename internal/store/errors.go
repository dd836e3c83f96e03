package store

import "errors"

// ErrStoreClosed is returned by every write made after Close.
var ErrStoreClosed = errors.New("catalog store closed")
