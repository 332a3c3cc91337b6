package domain

import "errors"

// Common errors
var (
	ErrNotFound          = errors.New("record not found")
	ErrForbidden         = errors.New("access forbidden: you don't own this resource")
	ErrInvalidID         = errors.New("invalid id")
	ErrDuplicateExercise = errors.New("exercise with this name already exists")
	ErrDuplicateSet      = errors.New("set with this client id already exists")
)
