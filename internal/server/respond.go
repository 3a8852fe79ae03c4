package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dmoura/consorciapp/internal/auth"
	"github.com/dmoura/consorciapp/internal/draw"
	"github.com/dmoura/consorciapp/internal/schedule"
	"github.com/dmoura/consorciapp/internal/service"
	"github.com/dmoura/consorciapp/internal/storage"
)

var errBadBody = errors.New("invalid request body")

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor maps domain errors to HTTP status codes. Unknown errors are
// internal.
func statusFor(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrEmailExists),
		errors.Is(err, storage.ErrAlreadyGenerated),
		errors.Is(err, storage.ErrAlreadyDrawn),
		errors.Is(err, storage.ErrAlreadyPaid),
		errors.Is(err, storage.ErrGroupFull),
		errors.Is(err, storage.ErrAlreadyMember),
		errors.Is(err, storage.ErrScheduleStarted),
		errors.Is(err, service.ErrGroupClosed),
		errors.Is(err, service.ErrLastAdmin):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrAccountDisabled):
		return http.StatusForbidden
	case errors.Is(err, errBadBody),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrEmptyRoster),
		errors.Is(err, schedule.ErrNoParticipants),
		errors.Is(err, draw.ErrDuplicatePosition),
		errors.Is(err, draw.ErrIncompleteAdjust),
		errors.As(err, &verrs):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func forbidden(w http.ResponseWriter) {
	writeJSON(w, http.StatusForbidden, map[string]string{"error": "not your group"})
}

// decode parses and validates a JSON request body.
func (s *Server) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errBadBody
	}
	return s.validate.Struct(dst)
}
