package handler

import (
	"log/slog"
	"net/http"

	"github.com/fittrack/fittrack/internal/ctxkeys"
	"github.com/fittrack/fittrack/internal/service"
	"github.com/fittrack/fittrack/internal/ui"
	"github.com/fittrack/fittrack/internal/ui/pages"
)

var settingsNotices = map[string]string{
	"name":             "Name updated",
	"password":         "Password saved",
	"password-removed": "Password removed. Sign in with email links from now on.",
	"password-reset":   "Your password was removed. Set a new one below.",
	"email":            "Check your new address for a confirmation link",
	"email-changed":    "Email address updated",
}

type SettingsHandler struct {
	userService *service.UserService
}

func NewSettingsHandler(userService *service.UserService) *SettingsHandler {
	return &SettingsHandler{
		userService: userService,
	}
}

func (h *SettingsHandler) SettingsPage(w http.ResponseWriter, r *http.Request) {
	data, err := h.settingsData(r)
	if err != nil {
		http.Error(w, "Failed to load settings", http.StatusInternalServerError)
		return
	}
	data.Notice = settingsNotices[r.URL.Query().Get("saved")]

	ui.Render(w, r, pages.Settings(data))
}

// renderError re-renders the settings page with message and status.
func (h *SettingsHandler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	data, err := h.settingsData(r)
	if err != nil {
		http.Error(w, message, status)
		return
	}
	data.Error = message

	ui.RenderStatus(w, r, status, pages.Settings(data))
}

// settingsData reloads the user because the session copy has its password hash stripped.
func (h *SettingsHandler) settingsData(r *http.Request) (pages.SettingsData, error) {
	userID := ctxkeys.UserID(r.Context())

	user, err := h.userService.ByID(r.Context(), userID)
	if err != nil {
		slog.Error("failed to load user", "error", err, "user_id", userID)
		return pages.SettingsData{}, err
	}

	data := pages.SettingsData{
		Email:       user.Email,
		HasPassword: user.HasPassword(),
	}
	if user.PendingEmail != nil {
		data.PendingEmail = *user.PendingEmail
	}
	return data, nil
}
