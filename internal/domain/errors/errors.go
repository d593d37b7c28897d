package errors

import "errors"

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidFullName    = errors.New("invalid full name")
	ErrInvalidProofURL    = errors.New("invalid payment proof url")
	ErrInvalidMessage     = errors.New("invalid message content")
	ErrInvalidTransition  = errors.New("illegal order status transition")
	ErrAlreadyDelivered   = errors.New("order already delivered")
	ErrNotAdmin           = errors.New("admin privileges required")
	ErrSelfRevoke         = errors.New("admins cannot revoke their own grant")
	ErrNotConfigured      = errors.New("integration not configured")
)
