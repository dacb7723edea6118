package domain

import "errors"

// ErrDuplicate is returned by stores when a unique constraint is violated.
var ErrDuplicate = errors.New("duplicate key")
