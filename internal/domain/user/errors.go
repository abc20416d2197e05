package user

import "errors"

var (
	ErrInvalidEmail        = errors.New("email address is not valid")
	ErrMissingPasswordHash = errors.New("password hash is required")
	ErrUserNotFound        = errors.New("user not found")
)
