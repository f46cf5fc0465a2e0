package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fittrack/fittrack/internal/ctxkeys"
	"github.com/fittrack/fittrack/internal/service"
)

type AccountHandler struct {
	authService *service.AuthService
	userService *service.UserService
	settings    *SettingsHandler
}

func NewAccountHandler(authService *service.AuthService, userService *service.UserService, settings *SettingsHandler) *AccountHandler {
	return &AccountHandler{
		authService: authService,
		userService: userService,
		settings:    settings,
	}
}

// SavePassword sets a first password for passwordless accounts and changes it otherwise.
func (h *AccountHandler) SavePassword(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	current := r.FormValue("current_password")
	next := r.FormValue("new_password")

	var err error
	if current == "" {
		err = h.authService.SetPassword(r.Context(), userID, next)
	} else {
		err = h.userService.UpdatePassword(r.Context(), userID, current, next)
	}

	if msg, ok := fieldMessage(err); ok {
		h.settings.renderError(w, r, http.StatusBadRequest, msg)
		return
	}
	switch {
	case err == nil:
		slog.Info("password saved", "user_id", userID)
		http.Redirect(w, r, "/app/settings?saved=password", http.StatusSeeOther)
	case errors.Is(err, service.ErrPasswordAlreadySet):
		h.settings.renderError(w, r, http.StatusBadRequest, "Enter your current password to change it")
	case errors.Is(err, service.ErrInvalidCurrentPassword):
		h.settings.renderError(w, r, http.StatusBadRequest, "Current password is incorrect")
	default:
		slog.Error("failed to save password", "error", err, "user_id", userID)
		h.settings.renderError(w, r, http.StatusInternalServerError, "Failed to save password")
	}
}

// ChangeEmail starts an email change; the address switches once the link sent to it is opened.
func (h *AccountHandler) ChangeEmail(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	email := strings.TrimSpace(r.FormValue("email"))

	err := h.authService.RequestEmailChange(r.Context(), userID, email)
	if msg, ok := fieldMessage(err); ok {
		h.settings.renderError(w, r, http.StatusBadRequest, msg)
		return
	}
	switch {
	case err == nil:
		http.Redirect(w, r, "/app/settings?saved=email", http.StatusSeeOther)
	case errors.Is(err, service.ErrEmailUnchanged):
		h.settings.renderError(w, r, http.StatusBadRequest, "That is already your email address")
	case errors.Is(err, service.ErrEmailAlreadyExists):
		h.settings.renderError(w, r, http.StatusConflict, "Email already in use")
	default:
		slog.Error("failed to request email change", "error", err, "user_id", userID)
		h.settings.renderError(w, r, http.StatusInternalServerError, "Failed to change email")
	}
}

func (h *AccountHandler) RemovePassword(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	err := h.authService.RemovePassword(r.Context(), userID)
	switch {
	case err == nil:
		http.Redirect(w, r, "/app/settings?saved=password-removed", http.StatusSeeOther)
	case errors.Is(err, service.ErrAlreadyPasswordless):
		h.settings.renderError(w, r, http.StatusBadRequest, "This account has no password")
	default:
		slog.Error("failed to remove password", "error", err, "user_id", userID)
		h.settings.renderError(w, r, http.StatusInternalServerError, "Failed to remove password")
	}
}

// DeleteAccount removes the account with all its workouts and signs out.
// The form must tick the confirm box; htmx DELETE requests confirm client side.
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	if r.Method == http.MethodPost && r.FormValue("confirm") != "yes" {
		h.settings.renderError(w, r, http.StatusBadRequest, "Confirm that you want to delete your account")
		return
	}

	err := h.userService.DeleteAccount(r.Context(), userID)
	if err != nil {
		slog.Error("account deletion failed", "error", err, "user_id", userID)
		if isHTMX(r) {
			toastError(w, r, http.StatusInternalServerError, "Failed to delete account. Please try again.")
			return
		}
		h.settings.renderError(w, r, http.StatusInternalServerError, "Failed to delete account. Please try again.")
		return
	}

	h.authService.ClearJWTCookie(w)
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
