package httpx

import (
	"errors"
	"net/http"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
//
// Unauthenticated responses carry no detail: missing, malformed, expired and
// unknown-identity credentials are indistinguishable to the caller.
// Escalation failures keep their message; the caller is authenticated and the
// message tells them what to fix.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrUnauthenticated):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "")
	case errors.Is(err, shared.ErrPrivilegeEscalation):
		Problem(w, http.StatusForbidden, "Forbidden", "you cannot assign permissions higher than your own")
	case errors.Is(err, shared.ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", "")
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrInvariant):
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
