package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fittrack/fittrack/internal/db/dbtest"
	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/repository"
)

func TestExerciseRepository(t *testing.T) {
	conn := dbtest.New(t)
	repo := repository.NewExerciseRepository(conn)
	ctx := context.Background()

	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.Local)
	seed := []*model.Exercise{
		{Name: "Squat", Category: model.CategoryStrength, CreatedAt: base},
		{Name: "Running", Category: model.CategoryCardio, CreatedAt: base.Add(time.Minute)},
		{Name: "Deadlift", Category: model.CategoryStrength, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range seed {
		require.NoError(t, repo.Create(ctx, e))
	}

	got, err := repo.ByID(ctx, seed[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Running", got.Name)
	assert.Equal(t, model.CategoryCardio, got.Category)

	_, err = repo.ByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrExerciseNotFound)

	byName, err := repo.ByName(ctx, "Deadlift")
	require.NoError(t, err)
	assert.Equal(t, seed[2].ID, byName.ID)

	strength, err := repo.ByCategory(ctx, model.CategoryStrength)
	require.NoError(t, err)
	require.Len(t, strength, 2)
	assert.Equal(t, "Squat", strength[0].Name)
	assert.Equal(t, "Deadlift", strength[1].Name)

	sports, err := repo.ByCategory(ctx, model.CategorySports)
	require.NoError(t, err)
	assert.Empty(t, sports)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestExerciseRepository_RejectsUnknownCategory(t *testing.T) {
	conn := dbtest.New(t)
	repo := repository.NewExerciseRepository(conn)

	err := repo.Create(context.Background(), &model.Exercise{Name: "Juggling", Category: "circus"})
	assert.Error(t, err)
}
