package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"shop-api/internal/models"
	"shop-api/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(w http.ResponseWriter, code int, payload models.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func respondWithData(w http.ResponseWriter, code int, message string, data interface{}) {
	writeJSON(w, code, models.Response{Success: true, Message: message, Data: data})
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, models.Response{Success: false, Error: message})
}

// respondServiceError maps service sentinel errors onto the HTTP taxonomy.
// Anything unmapped is a 500 with a generic body; detail stays in the log.
func respondServiceError(w http.ResponseWriter, logger zerolog.Logger, err error, logMsg string) {
	code := statusForError(err)
	if code == http.StatusInternalServerError {
		logger.Error().Err(err).Msg(logMsg)
		respondWithError(w, code, "Internal server error")
		return
	}
	respondWithError(w, code, err.Error())
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrCartEmpty):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidSession),
		errors.Is(err, services.ErrSessionExpired):
		return http.StatusForbidden
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrCartNotFound),
		errors.Is(err, services.ErrCartItemNotFound),
		errors.Is(err, services.ErrTagNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrTagExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
