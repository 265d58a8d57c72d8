package handler

import (
	"errors"
	"net/http"

	"github.com/edvin/onboarding/internal/api/response"
	"github.com/edvin/onboarding/internal/onboarding"
	"github.com/edvin/onboarding/internal/store"
)

// writeServiceError maps a service error to its HTTP status.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, onboarding.ErrBusy):
		response.WriteError(w, http.StatusConflict, err.Error())
	default:
		response.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
