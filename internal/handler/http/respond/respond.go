// Package respond provides utilities for sending HTTP responses in JSON
// format, including a single AppError-driven error envelope so handlers
// never have to sniff error message strings to decide a status code.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"catchup-feed/internal/domain/entity"
)

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Log the error but cannot send error response as headers already sent
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Error writes a JSON error response with the given status code and
// error message, uninspected.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, map[string]string{"error": err.Error()})
}

// AppErrorResponse routes an error through its entity.ErrorKind: the
// kind's fixed HTTP status and the AppError's own Msg are what the
// client sees; the wrapped cause is only logged. A plain error (not an
// AppError, ErrNotFound, or ValidationError) is treated as unexpected
// and never has its message echoed back.
func AppErrorResponse(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	var appErr *entity.AppError
	if errors.As(err, &appErr) {
		status := appErr.Kind.HTTPStatus()
		if status >= 500 {
			slog.Default().Error("request failed",
				slog.String("kind", string(appErr.Kind)),
				slog.String("error", SanitizeError(appErr)))
		}
		JSON(w, status, map[string]string{"error": appErr.Msg})
		return
	}

	if errors.Is(err, entity.ErrNotFound) {
		JSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	var validationErr *entity.ValidationError
	if errors.As(err, &validationErr) {
		JSON(w, http.StatusBadRequest, map[string]string{"error": validationErr.Error()})
		return
	}

	slog.Default().Error("unclassified request error", slog.String("error", SanitizeError(err)))
	JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}
