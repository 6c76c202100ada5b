package schema

import "github.com/pkg/errors"

var (
	ErrTypeNotFound      = errors.New("component type not found")
	ErrMemberNotFound    = errors.New("member not found")
	ErrInvalidType       = errors.New("invalid component type")
	ErrAlreadyRegistered = errors.New("component type already registered")
)
