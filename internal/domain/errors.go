package domain

import "errors"

// ErrNotFound is returned by relationship sources when the requested user,
// transaction or path does not exist.
var ErrNotFound = errors.New("not found")
