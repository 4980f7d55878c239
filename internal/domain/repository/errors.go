package repository

import "errors"

// ErrNotFound is returned by all repositories when the requested row does
// not exist. Services translate it into the business-level NotFound kind.
var ErrNotFound = errors.New("not found")
