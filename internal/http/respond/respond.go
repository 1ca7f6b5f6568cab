// Package respond writes JSON bodies and maps domain errors to HTTP status codes.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/spendwise/internal/budget"
	"github.com/MrJamesThe3rd/spendwise/internal/importer"
	"github.com/MrJamesThe3rd/spendwise/internal/matching"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

// Status returns the HTTP status for err. Unrecognised errors are 500.
func Status(err error) int {
	switch {
	case errors.Is(err, transaction.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, budget.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, transaction.ErrInvalid),
		errors.Is(err, budget.ErrInvalid),
		errors.Is(err, matching.ErrInvalid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, importer.ErrUnknownFormat), errors.Is(err, importer.ErrUnreadable):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// Error writes err as plain text. Internal errors are logged and replaced by a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", status)

		return
	}

	http.Error(w, err.Error(), status)
}
