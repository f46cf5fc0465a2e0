package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/fittrack/fittrack/internal/ctxkeys"
	"github.com/fittrack/fittrack/internal/service"
)

type ExportHandler struct {
	exportService *service.ExportService
}

func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// Export redirects to the stored archive when object storage is configured
// and streams it as an attachment otherwise.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	export, err := h.exportService.Export(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to export workouts", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to export workouts", http.StatusInternalServerError)
		return
	}

	if export.URL != "" {
		http.Redirect(w, r, export.URL, http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	_, err = w.Write(export.Data)
	if err != nil {
		slog.Error("failed to write export", "error", err, "user_id", user.ID)
	}
}
