package httpx

import (
	"errors"
	"net/http"

	"github.com/atlas-admin/atlas-admin/internal/shared"
)

// RespondError maps domain errors to envelope responses. Unknown errors
// collapse to a generic 500; the detail stays server-side.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidArgument):
		Fail(w, http.StatusBadRequest, shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrUnauthenticated), errors.Is(err, shared.ErrInvalidCredentials):
		Fail(w, http.StatusUnauthorized, shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrPermissionDenied), errors.Is(err, shared.ErrForbidden):
		Fail(w, http.StatusForbidden, shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrNotFound):
		Fail(w, http.StatusNotFound, shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrConflict):
		Fail(w, http.StatusConflict, shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrRateLimited):
		Fail(w, http.StatusTooManyRequests, shared.UserSafeMessage(err))
	default:
		Fail(w, http.StatusInternalServerError, "internal error")
	}
}
