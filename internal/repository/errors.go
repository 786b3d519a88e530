package repository

import "errors"

// ErrNotFound is wrapped by every repository lookup that matches no row.
// Callers use errors.Is to distinguish a missing record from an
// infrastructure failure.
var ErrNotFound = errors.New("not found")
