package service

import "errors"

// Error kinds returned by the user services. Callers match them with errors.Is.
var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateLogin    = errors.New("login already exists")
	ErrInvalidLogin      = errors.New("invalid login")
	ErrInvalidField      = errors.New("invalid field value")
	ErrInvalidPermission = errors.New("invalid permission")
	ErrInvalidDate       = errors.New("invalid date")
)
