package httpx

import (
	"errors"
	"net/http"

	"github.com/eduprima/eduprima-api/internal/shared"
)

// RespondError maps domain errors to envelope responses.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrUnauthorized), errors.Is(err, shared.ErrInvalidCredentials):
		Fail(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, shared.ErrForbidden):
		Fail(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, shared.ErrValidation):
		Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shared.ErrNotFound):
		Fail(w, http.StatusNotFound, "Not found")
	case errors.Is(err, shared.ErrStorage):
		Fail(w, http.StatusInternalServerError, "Storage failure")
	default:
		Fail(w, http.StatusInternalServerError, "Internal error")
	}
}
