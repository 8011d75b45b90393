package domain

import "errors"

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUnknownUser           = errors.New("user not found")
	ErrForbidden             = errors.New("forbidden")
	ErrNotFound              = errors.New("not found")
	ErrInvalidStatus         = errors.New("invalid status")
	ErrInvalidDeadlineFormat = errors.New("invalid deadline format")
	ErrMissingField          = errors.New("missing field")
	ErrWeakPassword          = errors.New("weak password")
	ErrDuplicateUsername     = errors.New("username already exists")
	ErrDuplicateEmail        = errors.New("email already exists")
	ErrStoreUnavailable      = errors.New("store unavailable")
)
