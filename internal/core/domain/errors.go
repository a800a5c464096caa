package domain

import "errors"

var (
	ErrDuplicateIdentity  = errors.New("email already registered")
	ErrInvalidAdminCode   = errors.New("invalid admin registration code")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmptyPassword      = errors.New("password cannot be empty")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
	ErrUnknownRole        = errors.New("unknown role")

	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)
