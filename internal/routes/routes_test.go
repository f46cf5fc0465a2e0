package routes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fittrack/fittrack/internal/app"
	"github.com/fittrack/fittrack/internal/config"
	"github.com/fittrack/fittrack/internal/db/dbtest"
	"github.com/fittrack/fittrack/internal/repository"
	"github.com/fittrack/fittrack/internal/routes"
	"github.com/fittrack/fittrack/internal/service"
)

type server struct {
	handler http.Handler
	app     *app.App
}

func newServer(t *testing.T) *server {
	t.Helper()

	conn := dbtest.New(t)
	cfg := &config.Config{
		AppName:          "FitTrack",
		AppEnv:           "development",
		AppURL:           "http://localhost:8090",
		JWTSecret:        "test-secret",
		JWTExpiry:        time.Hour,
		AllowSignup:      true,
		ExerciseCacheTTL: 5 * time.Minute,
	}

	users := repository.NewUserRepository(conn)
	profiles := repository.NewProfileRepository(conn)
	workouts := repository.NewWorkoutRepository(conn)
	email := service.NewEmailService("", cfg.EmailFrom, cfg.AppURL, cfg.AppName, true)

	a := &app.App{
		Cfg:             cfg,
		DB:              conn,
		AuthService:     service.NewAuthService(users, profiles, repository.NewTokenRepository(conn), email, cfg.JWTSecret, false, true, cfg.JWTExpiry, 10*time.Minute, 24*time.Hour),
		UserService:     service.NewUserService(users, profiles, email, repository.NewTransactor(conn)),
		ProfileService:  service.NewProfileService(profiles),
		EmailService:    email,
		WorkoutService:  service.NewWorkoutService(workouts, nil),
		StatsService:    service.NewStatsService(workouts),
		ExerciseService: service.NewExerciseService(repository.NewExerciseRepository(conn), cfg.ExerciseCacheTTL, nil),
		ExportService:   service.NewExportService(workouts, nil, nil),
	}

	handler, limiter := routes.SetupRoutes(a)
	t.Cleanup(limiter.Stop)

	return &server{handler: handler, app: a}
}

func (s *server) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// session signs up a user through OAuth, completes onboarding and returns its cookies.
func (s *server) session(t *testing.T, email string) []*http.Cookie {
	t.Helper()
	ctx := context.Background()

	user, err := s.app.AuthService.AuthenticateOAuth(ctx, email, "github")
	require.NoError(t, err)
	require.NoError(t, s.app.AuthService.CompleteOnboarding(ctx, user.ID, "Ada"))

	token, _, err := s.app.AuthService.GenerateJWT(user)
	require.NoError(t, err)

	// A GET hands out the csrf cookie.
	rec := s.serve(httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	return append(cookies, &http.Cookie{Name: service.AuthCookieName, Value: token})
}

func csrfToken(cookies []*http.Cookie) string {
	for _, c := range cookies {
		if c.Name == "csrf_token" {
			return c.Value
		}
	}
	return ""
}

func withCookies(req *http.Request, cookies []*http.Cookie) *http.Request {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestRoutes_Public(t *testing.T) {
	s := newServer(t)

	rec := s.serve(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "'nonce-")

	rec = s.serve(httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	assert.Contains(t, rec.Body.String(), "Disallow: /app/")

	rec = s.serve(httptest.NewRequest(http.MethodGet, "/no/such/page", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoutes_AnonymousIsRedirected(t *testing.T) {
	s := newServer(t)

	rec := s.serve(httptest.NewRequest(http.MethodGet, "/app/dashboard", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth", rec.Header().Get("Location"))

	rec = s.serve(httptest.NewRequest(http.MethodGet, "/app/exercises", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoutes_WorkoutFlow(t *testing.T) {
	s := newServer(t)
	cookies := s.session(t, "ada@example.com")

	form := url.Values{
		"csrf_token":   {csrfToken(cookies)},
		"title":        {"Morning run"},
		"workout_date": {"2025-03-03"},
		"start_time":   {"07:00"},
	}

	t.Run("post without csrf token is rejected", func(t *testing.T) {
		unsigned := url.Values{"title": {"Morning run"}, "workout_date": {"2025-03-03"}}
		req := httptest.NewRequest(http.MethodPost, "/app/workouts", strings.NewReader(unsigned.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := s.serve(withCookies(req, cookies))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	req := httptest.NewRequest(http.MethodPost, "/app/workouts", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := s.serve(withCookies(req, cookies))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/app/dashboard?date=2025-03-03", rec.Header().Get("Location"))

	rec = s.serve(withCookies(httptest.NewRequest(http.MethodGet, "/app/dashboard?date=2025-03-03", nil), cookies))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Morning run")

	t.Run("other users see nothing", func(t *testing.T) {
		other := s.session(t, "grace@example.com")
		rec := s.serve(withCookies(httptest.NewRequest(http.MethodGet, "/app/dashboard?date=2025-03-03", nil), other))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "Morning run")
	})
}
