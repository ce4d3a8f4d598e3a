package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ethos-app/ethos-backend/internal/errs"
	"github.com/ethos-app/ethos-backend/pkg/logger"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (h *responseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	h.writeError(w, r, status, ErrorResponse{Code: code, Message: message})
}

func (h *responseHandler) writeError(w http.ResponseWriter, r *http.Request, status int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Use context logger if encoding fails
		log := logger.FromContext(r.Context())
		log.Error("failed to encode error response", "error", err, "status", status, "code", body.Code)
	}
}

func (h *responseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	var (
		notFound *errs.NotFoundError
		exists   *errs.AlreadyExistsError
		invalid  *errs.ValidationError
		trackCfg *errs.InvalidTrackConfigError
		payload  *errs.InvalidEntryPayloadError
		badZone  *errs.InvalidTimezoneError
		dbErr    *errs.DatabaseError
	)

	switch {
	case errors.As(err, &notFound):
		log.Warn("resource not found", "error", notFound.Message)
		h.WriteError(w, r, http.StatusNotFound, "not_found", notFound.Message)

	case errors.As(err, &exists):
		log.Warn("resource already exists", "error", exists.Message)
		h.WriteError(w, r, http.StatusConflict, "already_exists", exists.Message)

	case errors.As(err, &invalid):
		log.Warn("validation failed", "error", invalid.Message)
		h.WriteError(w, r, http.StatusBadRequest, "invalid_input", invalid.Message)

	case errors.As(err, &trackCfg):
		log.Warn("invalid track config", "field", trackCfg.Field, "error", trackCfg.Message)
		h.writeError(w, r, http.StatusBadRequest, ErrorResponse{
			Code:    "invalid_input",
			Message: trackCfg.Message,
			Field:   trackCfg.Field,
		})

	case errors.As(err, &payload):
		log.Warn("invalid entry payload",
			"track_id", payload.TrackID,
			"track_type", payload.TrackType,
			"error", payload.Message)
		h.WriteError(w, r, http.StatusBadRequest, "invalid_input", payload.Message)

	case errors.As(err, &badZone):
		log.Warn("invalid time zone", "time_zone", badZone.TimeZone)
		h.WriteError(w, r, http.StatusBadRequest, "invalid_input", badZone.Message)

	case errors.As(err, &dbErr):
		log.Error("database error",
			"operation", dbErr.Operation,
			"error", dbErr.Message,
			"cause", dbErr.Err)
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An error occurred")

	default:
		log.Error("unexpected error",
			"error", err,
			"type", fmt.Sprintf("%T", err))
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An unexpected error occurred")
	}
}
