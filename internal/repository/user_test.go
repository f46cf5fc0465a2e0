package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fittrack/fittrack/internal/db/dbtest"
	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/repository"
)

func TestUserRepository(t *testing.T) {
	conn := dbtest.New(t)
	users := repository.NewUserRepository(conn)
	profiles := repository.NewProfileRepository(conn)
	ctx := context.Background()

	user := &model.User{ID: newUserID(), Email: "ada@example.com", CreatedAt: time.Now()}
	require.NoError(t, users.Create(ctx, user))

	err := users.Create(ctx, &model.User{ID: newUserID(), Email: "ada@example.com", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	got, err := users.ByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.False(t, got.HasPassword())

	got.PasswordHash = ptr("hash")
	require.NoError(t, users.Update(ctx, got))
	got, err = users.ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.HasPassword())

	_, err = users.ByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = profiles.ByUserID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrProfileNotFound)

	require.NoError(t, profiles.Create(ctx, &model.Profile{UserID: user.ID}))
	profile, err := profiles.ByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, profile.NeedsOnboarding())

	require.NoError(t, profiles.UpdateName(ctx, user.ID, "Ada"))
	profile, err = profiles.ByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.Name)
	assert.False(t, profile.NeedsOnboarding())
}

func TestTokenRepository_ConsumeOnce(t *testing.T) {
	conn := dbtest.New(t)
	users := repository.NewUserRepository(conn)
	tokens := repository.NewTokenRepository(conn)
	ctx := context.Background()

	user := &model.User{ID: newUserID(), Email: "grace@example.com", CreatedAt: time.Now()}
	require.NoError(t, users.Create(ctx, user))

	require.NoError(t, tokens.Create(ctx, &model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypeMagicLink,
		Token:     "fresh",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}))
	require.NoError(t, tokens.Create(ctx, &model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypeMagicLink,
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	consumed, err := tokens.ConsumeToken(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, user.ID, consumed.UserID)
	assert.True(t, consumed.IsUsed())

	_, err = tokens.ConsumeToken(ctx, "fresh")
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)

	_, err = tokens.ConsumeToken(ctx, "stale")
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	conn := dbtest.New(t)
	users := repository.NewUserRepository(conn)
	profiles := repository.NewProfileRepository(conn)
	ctx := context.Background()

	user := &model.User{ID: newUserID(), Email: "ada@example.com", CreatedAt: time.Now()}
	require.NoError(t, users.Create(ctx, user))
	require.NoError(t, profiles.Create(ctx, &model.Profile{UserID: user.ID}))

	got, err := users.ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PendingEmail)

	got.PendingEmail = ptr("ada@new.example.com")
	require.NoError(t, users.Update(ctx, got))
	got, err = users.ByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PendingEmail)
	assert.Equal(t, "ada@new.example.com", *got.PendingEmail)

	require.NoError(t, users.Delete(ctx, user.ID))
	assert.ErrorIs(t, users.Delete(ctx, user.ID), repository.ErrUserNotFound)

	_, err = profiles.ByUserID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrProfileNotFound)
}

func TestUserRepository_UpdateDuplicateEmail(t *testing.T) {
	conn := dbtest.New(t)
	users := repository.NewUserRepository(conn)
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, &model.User{ID: newUserID(), Email: "ada@example.com", CreatedAt: time.Now()}))
	grace := &model.User{ID: newUserID(), Email: "grace@example.com", CreatedAt: time.Now()}
	require.NoError(t, users.Create(ctx, grace))

	grace.Email = "ada@example.com"
	assert.ErrorIs(t, users.Update(ctx, grace), repository.ErrDuplicateEmail)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	conn := dbtest.New(t)
	workouts := repository.NewWorkoutRepository(conn)
	tx := repository.NewTransactor(conn)
	ctx := context.Background()
	userID := newUserID()

	failure := errors.New("boom")
	err := tx.WithTx(ctx, func(repos repository.Repositories) error {
		require.NoError(t, repos.Workouts.Create(ctx, &model.Workout{UserID: userID, Title: "Rolled back", StartedAt: time.Now()}))
		return failure
	})
	assert.ErrorIs(t, err, failure)

	all, err := workouts.ListAll(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, all)

	err = tx.WithTx(ctx, func(repos repository.Repositories) error {
		return repos.Workouts.Create(ctx, &model.Workout{UserID: userID, Title: "Kept", StartedAt: time.Now()})
	})
	require.NoError(t, err)

	all, err = workouts.ListAll(ctx, userID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Kept", all[0].Title)

	deleted, err := workouts.DeleteAllByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
