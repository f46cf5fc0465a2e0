package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fittrack/fittrack/internal/dateutil"
	"github.com/fittrack/fittrack/internal/db/dbtest"
	"github.com/fittrack/fittrack/internal/repository"
	"github.com/fittrack/fittrack/internal/service"
)

func TestStatsService_UserStats(t *testing.T) {
	repo := repository.NewWorkoutRepository(dbtest.New(t))
	workouts := service.NewWorkoutService(repo, nil)
	stats := service.NewStatsService(repo)
	ctx := context.Background()
	userID := newUserID()

	day := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.Local)
	mustCreateWorkout(t, workouts, userID, "a", day.Add(8*time.Hour), ptr(30))
	mustCreateWorkout(t, workouts, userID, "b", day.Add(12*time.Hour), nil)
	mustCreateWorkout(t, workouts, userID, "c", day.Add(18*time.Hour), ptr(45))
	mustCreateWorkout(t, workouts, userID, "d", day.AddDate(0, 0, 1).Add(8*time.Hour), ptr(60))

	start, end := dateutil.StartOfDay(day), dateutil.EndOfDay(day)
	got, err := stats.UserStats(ctx, userID, &start, &end)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalWorkouts)
	assert.Equal(t, 75, got.TotalDuration)
	assert.InDelta(t, 25.0, got.AverageDuration, 0.0001)

	// a single bound falls back to all time
	got, err = stats.UserStats(ctx, userID, &start, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, got.TotalWorkouts)
	assert.Equal(t, 135, got.TotalDuration)

	got, err = stats.UserStats(ctx, newUserID(), &start, &end)
	require.NoError(t, err)
	assert.Zero(t, got.TotalWorkouts)
	assert.Zero(t, got.TotalDuration)
	assert.Zero(t, got.AverageDuration)
}

func TestStatsService_RequiresUser(t *testing.T) {
	stats := service.NewStatsService(repository.NewWorkoutRepository(dbtest.New(t)))

	_, err := stats.UserStats(context.Background(), "", nil, nil)
	assert.ErrorIs(t, err, service.ErrAuthRequired)
}
