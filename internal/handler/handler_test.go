package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/fittrack/fittrack/internal/ctxkeys"
	"github.com/fittrack/fittrack/internal/db/dbtest"
	"github.com/fittrack/fittrack/internal/handler"
	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/repository"
	"github.com/fittrack/fittrack/internal/service"
)

// now is a fixed local instant; dashboard "today" is derived from it.
var now = time.Date(2025, 3, 3, 9, 30, 0, 0, time.Local)

func clock() time.Time { return now }

type fixture struct {
	mux       *http.ServeMux
	workouts  *service.WorkoutService
	exercises *service.ExerciseService
	userID    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn := dbtest.New(t)
	workoutRepo := repository.NewWorkoutRepository(conn)
	workouts := service.NewWorkoutService(workoutRepo, clock)
	stats := service.NewStatsService(workoutRepo)
	exercises := service.NewExerciseService(repository.NewExerciseRepository(conn), 5*time.Minute, clock)
	export := service.NewExportService(workoutRepo, nil, clock)

	dashboard := handler.NewDashboardHandler(workouts, stats, clock)
	workout := handler.NewWorkoutHandler(workouts, exercises, clock)
	exercise := handler.NewExerciseHandler(exercises)
	exporter := handler.NewExportHandler(export)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /app/dashboard", dashboard.DashboardPage)
	mux.HandleFunc("GET /app/workouts/new", workout.NewPage)
	mux.HandleFunc("GET /app/workouts/export", exporter.Export)
	mux.HandleFunc("GET /app/workouts/{id}", workout.DetailPage)
	mux.HandleFunc("POST /app/workouts", workout.Create)
	mux.HandleFunc("POST /app/workouts/{id}", workout.Update)
	mux.HandleFunc("PATCH /app/workouts/{id}", workout.Update)
	mux.HandleFunc("POST /app/workouts/{id}/complete", workout.Complete)
	mux.HandleFunc("POST /app/workouts/{id}/delete", workout.Delete)
	mux.HandleFunc("DELETE /app/workouts/{id}", workout.Delete)
	mux.HandleFunc("GET /app/exercises", exercise.List)

	return &fixture{
		mux:       mux,
		workouts:  workouts,
		exercises: exercises,
		userID:    uuid.New().String(),
	}
}

// do serves req as userID.
func (f *fixture) do(req *http.Request, userID string) *httptest.ResponseRecorder {
	ctx := ctxkeys.WithUser(req.Context(), &model.User{ID: userID})
	ctx = ctxkeys.WithProfile(ctx, &model.Profile{UserID: userID, Name: "Ada"})
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func (f *fixture) get(path string) *httptest.ResponseRecorder {
	return f.do(httptest.NewRequest(http.MethodGet, path, nil), f.userID)
}

func (f *fixture) postForm(path string, form url.Values, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return f.do(req, userID)
}

func (f *fixture) createWorkout(t *testing.T, userID, title string, startedAt time.Time) *model.Workout {
	t.Helper()

	w, err := f.workouts.Create(context.Background(), service.CreateWorkoutParams{
		UserID:    userID,
		Title:     title,
		StartedAt: startedAt,
	})
	require.NoError(t, err)
	return w
}
