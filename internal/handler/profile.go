package handler

import (
	"log/slog"
	"net/http"

	"github.com/fittrack/fittrack/internal/ctxkeys"
	"github.com/fittrack/fittrack/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
	settings       *SettingsHandler
}

func NewProfileHandler(profileService *service.ProfileService, settings *SettingsHandler) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		settings:       settings,
	}
}

func (h *ProfileHandler) UpdateName(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	err := h.profileService.UpdateName(r.Context(), userID, r.FormValue("name"))
	if msg, ok := fieldMessage(err); ok {
		h.settings.renderError(w, r, http.StatusBadRequest, msg)
		return
	}
	if err != nil {
		slog.Error("failed to update name", "error", err, "user_id", userID)
		h.settings.renderError(w, r, http.StatusInternalServerError, "Failed to update name")
		return
	}

	http.Redirect(w, r, "/app/settings?saved=name", http.StatusSeeOther)
}
