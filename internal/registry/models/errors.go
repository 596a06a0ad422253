package models

import dErrors "vaxcert/pkg/domain-errors"

// Caller-visible failure kinds. Match with errors.Is; messages may vary.
var (
	ErrTokenNotFound   = dErrors.New(dErrors.CodeTokenNotFound, "token not found")
	ErrNotOwner        = dErrors.New(dErrors.CodeNotOwner, "caller is not the token owner")
	ErrNotAdmin        = dErrors.New(dErrors.CodeNotAdmin, "caller is not the admin")
	ErrUninitialized   = dErrors.New(dErrors.CodeUninitialized, "registry is not initialized")
	ErrUnauthenticated = dErrors.New(dErrors.CodeUnauthenticated, "authorization proof rejected")
)
