package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a unique constraint violation.
	ErrConflict = errors.New("already exists")
	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials indicates login failure. The message is shared
	// between unknown-user and bad-password paths on purpose.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUnauthorized indicates a missing, invalid or expired token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates a valid identity without the required permission.
	ErrForbidden = errors.New("forbidden")
	// ErrRoleInUse occurs when deleting a role still referenced by users.
	ErrRoleInUse = errors.New("role is still assigned to users")
)
