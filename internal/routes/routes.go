package routes

import (
	"net/http"
	"time"

	"github.com/fittrack/fittrack/internal/app"
	"github.com/fittrack/fittrack/internal/handler"
	"github.com/fittrack/fittrack/internal/middleware"
)

// SetupRoutes builds the application handler. The returned limiter must be
// stopped on shutdown.
func SetupRoutes(app *app.App) (http.Handler, *middleware.RateLimiter) {
	// Handlers
	home := handler.NewHomeHandler()
	seo := handler.NewSEOHandler(app.Cfg.AppURL)
	auth := handler.NewAuthHandler(app.AuthService, app.Cfg)
	settings := handler.NewSettingsHandler(app.UserService)
	account := handler.NewAccountHandler(app.AuthService, app.UserService, settings)
	profile := handler.NewProfileHandler(app.ProfileService, settings)
	dashboard := handler.NewDashboardHandler(app.WorkoutService, app.StatsService, nil)
	workout := handler.NewWorkoutHandler(app.WorkoutService, app.ExerciseService, nil)
	exercise := handler.NewExerciseHandler(app.ExerciseService)
	export := handler.NewExportHandler(app.ExportService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /robots.txt", seo.Robots)
	mux.HandleFunc("GET /health", home.Health)
	mux.HandleFunc("GET /{$}", home.HomePage)

	// Auth (5 attempts per 15 minutes per IP)
	authLimiter := middleware.NewRateLimiter(5, 15*time.Minute)
	rateLimited := middleware.RateLimit(authLimiter)

	mux.HandleFunc("GET /auth", middleware.RequireGuest(auth.AuthPage))
	mux.HandleFunc("GET /auth/password", middleware.RequireGuest(auth.PasswordPage))
	mux.HandleFunc("GET /auth/forgot-password", middleware.RequireGuest(auth.ForgotPasswordPage))
	mux.HandleFunc("GET /auth/onboarding", middleware.RequireAuth(auth.OnboardingPage))

	mux.HandleFunc("GET /auth/oauth/{provider}", rateLimited(middleware.RequireGuest(auth.OAuthStart)))
	mux.HandleFunc("GET /auth/oauth/{provider}/callback", rateLimited(auth.OAuthCallback))
	mux.HandleFunc("GET /auth/magic-link/{token}", auth.VerifyMagicLink)
	mux.HandleFunc("GET /auth/forgot-password/{token}", auth.VerifyForgotPassword)
	mux.HandleFunc("GET /auth/verify-email-change/{token}", auth.VerifyEmailChange)

	mux.HandleFunc("POST /auth/magic-link", rateLimited(middleware.RequireGuest(auth.SendMagicLink)))
	mux.HandleFunc("POST /auth/password", rateLimited(middleware.RequireGuest(auth.PasswordAuth)))
	mux.HandleFunc("POST /auth/forgot-password", rateLimited(middleware.RequireGuest(auth.ForgotPassword)))
	mux.HandleFunc("POST /auth/onboarding", middleware.RequireAuth(auth.CompleteOnboarding))
	mux.HandleFunc("POST /auth/logout", auth.Logout)

	// ============================================================================
	// PROTECTED ROUTES (/app/*)
	// ============================================================================

	mux.HandleFunc("GET /app/dashboard", middleware.RequireAuth(dashboard.DashboardPage))

	// Workouts
	mux.HandleFunc("GET /app/workouts/new", middleware.RequireAuth(workout.NewPage))
	mux.HandleFunc("GET /app/workouts/export", middleware.RequireAuth(export.Export))
	mux.HandleFunc("GET /app/workouts/{id}", middleware.RequireAuth(workout.DetailPage))
	mux.HandleFunc("POST /app/workouts", middleware.RequireAuth(workout.Create))
	mux.HandleFunc("POST /app/workouts/{id}", middleware.RequireAuth(workout.Update))
	mux.HandleFunc("PATCH /app/workouts/{id}", middleware.RequireAuth(workout.Update))
	mux.HandleFunc("POST /app/workouts/{id}/complete", middleware.RequireAuth(workout.Complete))
	mux.HandleFunc("POST /app/workouts/{id}/delete", middleware.RequireAuth(workout.Delete))
	mux.HandleFunc("DELETE /app/workouts/{id}", middleware.RequireAuth(workout.Delete))

	// Exercise library (JSON)
	mux.HandleFunc("GET /app/exercises", middleware.RequireAuthAPI(exercise.List))

	// Settings
	mux.HandleFunc("GET /app/settings", middleware.RequireAuth(settings.SettingsPage))
	mux.HandleFunc("POST /app/settings/profile", middleware.RequireAuth(profile.UpdateName))
	mux.HandleFunc("POST /app/settings/password", middleware.RequireAuth(account.SavePassword))
	mux.HandleFunc("POST /app/settings/password/remove", middleware.RequireAuth(account.RemovePassword))
	mux.HandleFunc("POST /app/settings/email", middleware.RequireAuth(account.ChangeEmail))
	mux.HandleFunc("POST /app/settings/delete", middleware.RequireAuth(account.DeleteAccount))
	mux.HandleFunc("DELETE /app/account", middleware.RequireAuth(account.DeleteAccount))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware, executed top to bottom
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg),
		middleware.NonceMiddleware,
		middleware.SecurityHeaders(app.Cfg),
		middleware.RequestLogging,
		middleware.CSRFProtection,
		middleware.AuthMiddleware(app.AuthService, app.UserService, app.ProfileService),
		middleware.WithURLPath,
	)

	return handler, authLimiter
}
