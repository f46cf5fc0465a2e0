package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fittrack/fittrack/internal/ctxkeys"
	"github.com/fittrack/fittrack/internal/db/dbtest"
	"github.com/fittrack/fittrack/internal/handler"
	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/repository"
	"github.com/fittrack/fittrack/internal/service"
)

var errStorage = errors.New("database is locked")

// failingWorkoutRepository fails every dashboard read and delegates the rest.
type failingWorkoutRepository struct {
	repository.WorkoutRepository
}

func (failingWorkoutRepository) ByDateRange(context.Context, string, *time.Time, *time.Time) ([]*model.WorkoutSummary, error) {
	return nil, errStorage
}

func (failingWorkoutRepository) Stats(context.Context, string) (*model.WorkoutStats, error) {
	return nil, errStorage
}

func (failingWorkoutRepository) StatsBetween(context.Context, string, time.Time, time.Time) (*model.WorkoutStats, error) {
	return nil, errStorage
}

func TestDashboardHandler(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	morning := f.createWorkout(t, f.userID, "Morning run", time.Date(2025, 3, 3, 7, 0, 0, 0, time.Local))
	_, err := f.workouts.Complete(ctx, f.userID, morning.ID, 30)
	require.NoError(t, err)
	f.createWorkout(t, f.userID, "Evening lift", time.Date(2025, 3, 3, 19, 0, 0, 0, time.Local))
	f.createWorkout(t, f.userID, "Yesterday", time.Date(2025, 3, 2, 12, 0, 0, 0, time.Local))
	f.createWorkout(t, "someone-else", "Not mine", time.Date(2025, 3, 3, 8, 0, 0, 0, time.Local))

	t.Run("defaults to today", func(t *testing.T) {
		rec := f.get("/app/dashboard")
		require.Equal(t, http.StatusOK, rec.Code)

		body := rec.Body.String()
		assert.Contains(t, body, "3rd March 2025")
		assert.Contains(t, body, "Morning run")
		assert.Contains(t, body, "Evening lift")
		assert.NotContains(t, body, "Yesterday")
		assert.NotContains(t, body, "Not mine")
		assert.NotContains(t, body, "Back to today")
		assert.Less(t, strings.Index(body, "Morning run"), strings.Index(body, "Evening lift"))
	})

	t.Run("explicit date", func(t *testing.T) {
		rec := f.get("/app/dashboard?date=2025-03-02")
		require.Equal(t, http.StatusOK, rec.Code)

		body := rec.Body.String()
		assert.Contains(t, body, "2nd March 2025")
		assert.Contains(t, body, "Yesterday")
		assert.NotContains(t, body, "Morning run")
		assert.Contains(t, body, "Back to today")
	})

	t.Run("empty day", func(t *testing.T) {
		rec := f.get("/app/dashboard?date=2024-12-25")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "No workouts on this day.")
	})

	t.Run("malformed date", func(t *testing.T) {
		for _, raw := range []string{"03-03-2025", "2025-13-01", "today"} {
			rec := f.get("/app/dashboard?date=" + raw)
			assert.Equal(t, http.StatusBadRequest, rec.Code, raw)
		}
	})
}

func TestDashboardHandler_StorageFailureDegrades(t *testing.T) {
	repo := repository.NewWorkoutRepository(dbtest.New(t))
	userID := "ada"

	_, err := service.NewWorkoutService(repo, clock).Create(context.Background(), service.CreateWorkoutParams{
		UserID:    userID,
		Title:     "Morning run",
		StartedAt: now,
	})
	require.NoError(t, err)

	failing := failingWorkoutRepository{WorkoutRepository: repo}
	dashboard := handler.NewDashboardHandler(service.NewWorkoutService(failing, clock), service.NewStatsService(failing), clock)

	req := httptest.NewRequest(http.MethodGet, "/app/dashboard", nil)
	ctx := ctxkeys.WithUser(req.Context(), &model.User{ID: userID})
	ctx = ctxkeys.WithProfile(ctx, &model.Profile{UserID: userID, Name: "Ada"})
	rec := httptest.NewRecorder()
	dashboard.DashboardPage(rec, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "No workouts on this day.")
	assert.NotContains(t, body, "Morning run")
	assert.Equal(t, 3, strings.Count(body, `<dd class="text-2xl font-semibold">0</dd>`))
}
