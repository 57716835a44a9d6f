package auth

import "proact-backend/internal/pkg/apperr"

var (
	ErrEmailPasswordRequired = apperr.Validation("Email and password are required")
	ErrInvalidEmail          = apperr.Validation("Invalid email address")
	ErrWeakPassword          = apperr.Validation("Password must be at least 8 characters with a letter, a number and a special character")
	ErrInvalidName           = apperr.Validation("Name may only contain letters, spaces, hyphens and apostrophes")
	ErrInvalidRole           = apperr.Validation("Invalid role")
	ErrEmailTaken            = apperr.Validation("Email is already registered")
	ErrIncorrectCredentials  = apperr.Unauthorized("Incorrect email or password")
)
