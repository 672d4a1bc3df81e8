package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness or referential violation.
	ErrConflict = errors.New("conflict")
	// ErrInvalidArgument indicates malformed or self-contradictory input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthenticated indicates a missing or unusable identity.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrPermissionDenied indicates a valid identity with insufficient grants.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrForbidden indicates an operation blocked by policy.
	ErrForbidden = errors.New("forbidden")
	// ErrRateLimited indicates the request volume budget is exhausted.
	ErrRateLimited = errors.New("rate limited")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserSafeMessage returns a message safe to surface to clients. Wrapped
// sentinel errors keep their text; anything else collapses to a generic
// message so internals never leak.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrPermissionDenied),
		errors.Is(err, ErrForbidden),
		errors.Is(err, ErrRateLimited),
		errors.Is(err, ErrInvalidCredentials):
		return err.Error()
	default:
		return "internal error"
	}
}
