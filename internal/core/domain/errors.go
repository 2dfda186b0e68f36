package domain

import "errors"

var (
	ErrBadRequest         = errors.New("missing or malformed input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrDuplicateIdentity  = errors.New("identity already exists")
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrInvalidResetCode   = errors.New("invalid or expired code")
)
