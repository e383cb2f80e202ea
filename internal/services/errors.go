package services

import "errors"

// Business-level errors. Handlers map these to HTTP status codes.
var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicate          = errors.New("username or email already in use")
	ErrInsertFailed       = errors.New("failed to insert into the database")
)
