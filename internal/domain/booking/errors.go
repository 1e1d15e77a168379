package booking

import "errors"

var (
	ErrValidation              = errors.New("validation error")
	ErrNotFound                = errors.New("booking not found")
	ErrForbidden               = errors.New("forbidden")
	ErrAlreadyTaken            = errors.New("booking already taken")
	ErrNotCancellable          = errors.New("booking no longer cancellable")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
