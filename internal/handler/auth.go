package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/fittrack/fittrack/internal/config"
	"github.com/fittrack/fittrack/internal/ctxkeys"
	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/service"
	"github.com/fittrack/fittrack/internal/ui"
	"github.com/fittrack/fittrack/internal/ui/pages"
	"github.com/fittrack/fittrack/internal/validation"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 10 * time.Minute
)

var errNoOAuthEmail = errors.New("provider returned no email address")

// oauthProvider is an OAuth2 app plus the call that resolves the signed-in account's email.
type oauthProvider struct {
	name   string
	config *oauth2.Config
	email  func(ctx context.Context, client *http.Client) (string, error)
}

type AuthHandler struct {
	authService *service.AuthService
	providers   map[string]*oauthProvider
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		providers: map[string]*oauthProvider{
			"google": {
				name: "google",
				config: &oauth2.Config{
					ClientID:     cfg.GoogleClientID,
					ClientSecret: cfg.GoogleClientSecret,
					RedirectURL:  cfg.AppURL + "/auth/oauth/google/callback",
					Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email"},
					Endpoint:     google.Endpoint,
				},
				email: googleEmail,
			},
			"github": {
				name: "github",
				config: &oauth2.Config{
					ClientID:     cfg.GitHubClientID,
					ClientSecret: cfg.GitHubClientSecret,
					RedirectURL:  cfg.AppURL + "/auth/oauth/github/callback",
					Scopes:       []string{"user:email"},
					Endpoint:     github.Endpoint,
				},
				email: githubEmail,
			},
		},
	}
}

func (h *AuthHandler) AuthPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Auth(""))
}

func (h *AuthHandler) PasswordPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.AuthPassword(""))
}

func (h *AuthHandler) OnboardingPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Onboarding(""))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) SendMagicLink(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))

	err := validation.ValidateEmail(email)
	if msg, ok := fieldMessage(err); ok {
		ui.RenderStatus(w, r, http.StatusBadRequest, pages.Auth(msg))
		return
	}

	err = h.authService.SendMagicLink(r.Context(), email)
	if err != nil {
		// Same page either way so addresses cannot be enumerated
		slog.Warn("magic link send failed", "error", err, "email", email)
	}

	ui.Render(w, r, pages.MagicLinkSent(email))
}

func (h *AuthHandler) VerifyMagicLink(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	user, err := h.authService.VerifyMagicLink(r.Context(), token)
	if err != nil {
		slog.Warn("magic link verification failed", "error", err)
		ui.RenderStatus(w, r, http.StatusBadRequest, pages.Auth("Invalid or expired magic link. Please try again."))
		return
	}

	h.signIn(w, r, user, pages.Auth)
}

func (h *AuthHandler) PasswordAuth(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		ui.RenderStatus(w, r, http.StatusBadRequest, pages.AuthPassword("Email and password are required"))
		return
	}

	user, err := h.authService.Login(r.Context(), email, password)
	if errors.Is(err, service.ErrPasswordless) {
		ui.RenderStatus(w, r, http.StatusUnauthorized, pages.AuthPassword("This account signs in with an email link"))
		return
	}
	if err != nil {
		slog.Warn("password login failed", "error", err, "email", email)
		ui.RenderStatus(w, r, http.StatusUnauthorized, pages.AuthPassword("Invalid email or password"))
		return
	}

	h.signIn(w, r, user, pages.AuthPassword)
}

func (h *AuthHandler) ForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.ForgotPassword(""))
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))

	err := h.authService.SendForgotPasswordLink(r.Context(), email)
	if msg, ok := fieldMessage(err); ok {
		ui.RenderStatus(w, r, http.StatusBadRequest, pages.ForgotPassword(msg))
		return
	}
	if err != nil {
		slog.Warn("forgot password link send failed", "error", err)
	}

	ui.Render(w, r, pages.MagicLinkSent(email))
}

// VerifyForgotPassword signs the user in and removes the forgotten password,
// so a new one can be set from settings.
func (h *AuthHandler) VerifyForgotPassword(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.VerifyMagicLink(r.Context(), r.PathValue("token"))
	if err != nil {
		slog.Warn("forgot password verification failed", "error", err)
		ui.RenderStatus(w, r, http.StatusBadRequest, pages.Auth("Invalid or expired link. Please try again."))
		return
	}

	if user.HasPassword() {
		err = h.authService.RemovePassword(r.Context(), user.ID)
		if err != nil {
			slog.Error("failed to remove password during forgot password flow", "error", err, "user_id", user.ID)
			ui.RenderStatus(w, r, http.StatusInternalServerError, pages.Auth("An error occurred. Please try again."))
			return
		}
	}

	err = h.authService.SignIn(w, user)
	if err != nil {
		slog.Error("failed to sign in", "error", err, "user_id", user.ID)
		ui.RenderStatus(w, r, http.StatusInternalServerError, pages.Auth("An error occurred. Please try again."))
		return
	}

	slog.Info("user signed in via forgot password flow", "user_id", user.ID)
	http.Redirect(w, r, "/app/settings?saved=password-reset", http.StatusSeeOther)
}

// VerifyEmailChange applies a pending email change and refreshes the session.
func (h *AuthHandler) VerifyEmailChange(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.VerifyEmailChange(r.Context(), r.PathValue("token"))
	if errors.Is(err, service.ErrInvalidEmailChange) {
		ui.RenderStatus(w, r, http.StatusBadRequest, pages.Auth("Invalid or expired verification link."))
		return
	}
	if errors.Is(err, service.ErrEmailAlreadyExists) {
		ui.RenderStatus(w, r, http.StatusConflict, pages.Auth("That email address is already in use."))
		return
	}
	if err != nil {
		slog.Error("email change verification failed", "error", err)
		ui.RenderStatus(w, r, http.StatusInternalServerError, pages.Auth("An error occurred. Please try again."))
		return
	}

	err = h.authService.SignIn(w, user)
	if err != nil {
		slog.Error("failed to sign in after email change", "error", err, "user_id", user.ID)
		ui.RenderStatus(w, r, http.StatusInternalServerError, pages.Auth("An error occurred. Please try again."))
		return
	}

	http.Redirect(w, r, "/app/settings?saved=email-changed", http.StatusSeeOther)
}

func (h *AuthHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	if user == nil {
		http.Redirect(w, r, "/auth", http.StatusSeeOther)
		return
	}

	err := h.authService.CompleteOnboarding(r.Context(), user.ID, r.FormValue("name"))
	if msg, ok := fieldMessage(err); ok {
		ui.RenderStatus(w, r, http.StatusBadRequest, pages.Onboarding(msg))
		return
	}
	if err != nil {
		slog.Error("onboarding failed", "error", err, "user_id", user.ID)
		ui.RenderStatus(w, r, http.StatusInternalServerError, pages.Onboarding("An error occurred. Please try again."))
		return
	}

	http.Redirect(w, r, "/app/dashboard", http.StatusSeeOther)
}

// OAuthStart redirects to the consent screen of the provider named in the path.
func (h *AuthHandler) OAuthStart(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.providers[r.PathValue("provider")]
	if !ok || provider.config.ClientID == "" {
		http.NotFound(w, r)
		return
	}

	state, err := generateOAuthState()
	if err != nil {
		slog.Error("failed to generate oauth state", "error", err)
		http.Error(w, "Failed to start sign in", http.StatusInternalServerError)
		return
	}

	cfg := ctxkeys.Config(r.Context())
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg != nil && cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(oauthStateMaxAge.Seconds()),
	})

	http.Redirect(w, r, provider.config.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (h *AuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.providers[r.PathValue("provider")]
	if !ok || provider.config.ClientID == "" {
		http.NotFound(w, r)
		return
	}

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || cookie.Value != state {
		slog.Warn("oauth state validation failed", "provider", provider.name, "error", err)
		ui.RenderStatus(w, r, http.StatusBadRequest, pages.Auth("OAuth authentication failed. Please try again."))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   oauthStateCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("oauth callback missing code", "provider", provider.name)
		ui.RenderStatus(w, r, http.StatusBadRequest, pages.Auth("OAuth authentication failed. Please try again."))
		return
	}

	token, err := provider.config.Exchange(r.Context(), code)
	if err != nil {
		slog.Error("oauth token exchange failed", "provider", provider.name, "error", err)
		ui.RenderStatus(w, r, http.StatusBadGateway, pages.Auth("OAuth authentication failed. Please try again."))
		return
	}

	email, err := provider.email(r.Context(), provider.config.Client(r.Context(), token))
	if err != nil {
		slog.Error("failed to resolve oauth email", "provider", provider.name, "error", err)
		ui.RenderStatus(w, r, http.StatusBadGateway, pages.Auth("OAuth authentication failed. Please try again."))
		return
	}

	user, err := h.authService.AuthenticateOAuth(r.Context(), email, provider.name)
	if errors.Is(err, service.ErrSignupDisabled) {
		ui.RenderStatus(w, r, http.StatusForbidden, pages.Auth("Sign up is currently disabled."))
		return
	}
	if err != nil {
		slog.Error("oauth authentication failed", "provider", provider.name, "error", err, "email", email)
		ui.RenderStatus(w, r, http.StatusInternalServerError, pages.Auth("Authentication failed. Please try again."))
		return
	}

	h.signIn(w, r, user, pages.Auth)
}

// signIn sets the session cookie and sends new users to onboarding.
func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request, user *model.User, errorPage func(string) templ.Component) {
	err := h.authService.SignIn(w, user)
	if err != nil {
		slog.Error("failed to sign in", "error", err, "user_id", user.ID)
		ui.RenderStatus(w, r, http.StatusInternalServerError, errorPage("An error occurred. Please try again."))
		return
	}

	needsOnboarding, err := h.authService.NeedsOnboarding(r.Context(), user.ID)
	if err != nil {
		slog.Warn("failed to check onboarding status", "error", err, "user_id", user.ID)
	}
	if needsOnboarding {
		http.Redirect(w, r, "/auth/onboarding", http.StatusSeeOther)
		return
	}

	slog.Info("user signed in", "user_id", user.ID)
	http.Redirect(w, r, "/app/dashboard", http.StatusSeeOther)
}

func googleEmail(ctx context.Context, client *http.Client) (string, error) {
	var info struct {
		Email string `json:"email"`
	}
	err := getJSON(ctx, client, "https://www.googleapis.com/oauth2/v2/userinfo", &info)
	if err != nil {
		return "", err
	}
	if info.Email == "" {
		return "", errNoOAuthEmail
	}
	return info.Email, nil
}

// githubEmail falls back to /user/emails because private addresses are omitted from /user.
func githubEmail(ctx context.Context, client *http.Client) (string, error) {
	var info struct {
		Email string `json:"email"`
	}
	err := getJSON(ctx, client, "https://api.github.com/user", &info)
	if err != nil {
		return "", err
	}
	if info.Email != "" {
		return info.Email, nil
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	err = getJSON(ctx, client, "https://api.github.com/user/emails", &emails)
	if err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	return "", errNoOAuthEmail
}

func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func generateOAuthState() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
