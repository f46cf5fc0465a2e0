package pages_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fittrack/fittrack/internal/config"
	"github.com/fittrack/fittrack/internal/ctxkeys"
	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/ui/pages"
)

func render(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))
	return buf.String()
}

func signedIn() context.Context {
	ctx := templ.WithNonce(context.Background(), "n0nce")
	ctx = ctxkeys.WithConfig(ctx, &config.Config{AppName: "FitTrack"})
	ctx = ctxkeys.WithUser(ctx, &model.User{ID: "u1", Email: "a@example.com"})
	ctx = ctxkeys.WithProfile(ctx, &model.Profile{UserID: "u1", Name: "Ada"})
	ctx = ctxkeys.WithCSRFToken(ctx, "tok")
	return ctxkeys.WithURLPath(ctx, "/app/dashboard")
}

func TestDashboard(t *testing.T) {
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.Local)
	duration := 45
	completed := day.Add(8 * time.Hour)
	notes := "leg day"

	out := render(t, signedIn(), pages.Dashboard(pages.DashboardData{
		Date:  day,
		Today: day.AddDate(0, 0, 1),
		Workouts: []*model.WorkoutSummary{
			{
				Workout: model.Workout{
					ID:              "w1",
					Title:           "Morning <run>",
					Notes:           &notes,
					DurationMinutes: &duration,
					StartedAt:       day.Add(7*time.Hour + 15*time.Minute),
					CompletedAt:     &completed,
				},
				ExerciseCount: 2,
			},
		},
		Stats: model.WorkoutStats{TotalWorkouts: 3, TotalDuration: 100, AverageDuration: 33.3333},
	}))

	assert.Contains(t, out, "3rd March 2025")
	assert.Contains(t, out, `href="/app/dashboard?date=2025-03-02"`)
	assert.Contains(t, out, `href="/app/dashboard?date=2025-03-04"`)
	assert.Contains(t, out, "Back to today")
	assert.Contains(t, out, "Morning &lt;run&gt;")
	assert.Contains(t, out, "07:15")
	assert.Contains(t, out, "2 exercises")
	assert.Contains(t, out, "45 min")
	assert.Contains(t, out, "33.3")
	assert.Contains(t, out, `nonce="n0nce"`)
	assert.Contains(t, out, `content="tok"`)
	assert.Contains(t, out, "Dashboard | FitTrack")
}

func TestDashboard_Empty(t *testing.T) {
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.Local)

	out := render(t, signedIn(), pages.Dashboard(pages.DashboardData{Date: day, Today: day}))

	assert.Contains(t, out, "No workouts on this day.")
	assert.NotContains(t, out, "Back to today")
}

func TestWorkoutDetail_RendersNotesAsMarkdown(t *testing.T) {
	notes := "**heavy** squats\n\n<script>alert(1)</script>"
	w := &model.Workout{
		ID:        "w1",
		Title:     "Legs",
		Notes:     &notes,
		StartedAt: time.Date(2025, 3, 3, 18, 0, 0, 0, time.Local),
	}

	out := render(t, signedIn(), pages.WorkoutDetail(pages.WorkoutDetailData{
		Detail: &model.WorkoutDetail{Workout: w, Exercises: []*model.WorkoutExercise{}},
		Error:  "Title is required",
	}))

	assert.Contains(t, out, "<strong>heavy</strong>")
	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.Contains(t, out, "No exercises logged yet.")
	assert.Contains(t, out, `action="/app/workouts/w1/complete"`)
	assert.Contains(t, out, "Title is required")
}

func TestAuth_Anonymous(t *testing.T) {
	ctx := ctxkeys.WithConfig(context.Background(), &config.Config{AppName: "FitTrack", GoogleClientID: "id"})

	out := render(t, ctx, pages.Auth("Invalid email address"))

	assert.Contains(t, out, "Invalid email address")
	assert.Contains(t, out, "Continue with Google")
	assert.NotContains(t, out, "Continue with GitHub")
	assert.NotContains(t, out, "Log out")
}

func TestSettings(t *testing.T) {
	out := render(t, signedIn(), pages.Settings(pages.SettingsData{HasPassword: false}))

	assert.Contains(t, out, "Set a password")
	assert.NotContains(t, out, "current_password")
	assert.Contains(t, out, `value="Ada"`)
}
