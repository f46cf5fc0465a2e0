package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fittrack/fittrack/internal/ui"
	"github.com/fittrack/fittrack/internal/ui/components/toast"
	"github.com/fittrack/fittrack/internal/validation"
)

// fieldMessage extracts the user-facing text of a validation failure.
func fieldMessage(err error) (string, bool) {
	var fieldErr *validation.FieldError
	if errors.As(err, &fieldErr) {
		return fieldErr.Message, true
	}
	return "", false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// toastError reports a failed htmx action without replacing the page.
func toastError(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("HX-Reswap", "none")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	ui.RenderOOB(w, r, toast.Toast(toast.Props{
		Title:       "Error",
		Description: message,
		Variant:     toast.VariantError,
		Dismissible: true,
	}), "beforeend:#toast-container")
}
