package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrSubjectNotFound = errors.New("subject not found")
	ErrFlagCapExceeded = errors.New("flag cardinality cap exceeded")
	ErrDuplicateFlag   = errors.New("flag already assigned")
)
