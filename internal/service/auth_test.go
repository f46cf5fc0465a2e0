package service_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fittrack/fittrack/internal/db/dbtest"
	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/repository"
	"github.com/fittrack/fittrack/internal/service"
	"github.com/fittrack/fittrack/internal/validation"
)

type authFixture struct {
	conn   *sqlx.DB
	auth   *service.AuthService
	users  repository.UserRepository
	tokens repository.TokenRepository
	user   *service.UserService
}

func newAuthFixture(t *testing.T, allowSignup bool) *authFixture {
	t.Helper()

	conn := dbtest.New(t)
	users := repository.NewUserRepository(conn)
	tokens := repository.NewTokenRepository(conn)
	email := service.NewEmailService("", "noreply@example.com", "http://localhost:8090", "FitTrack", true)
	auth := service.NewAuthService(
		users,
		repository.NewProfileRepository(conn),
		tokens,
		email,
		"test-secret",
		false,
		allowSignup,
		time.Hour,
		10*time.Minute,
		24*time.Hour,
	)

	userSvc := service.NewUserService(users, repository.NewProfileRepository(conn), email, repository.NewTransactor(conn))

	return &authFixture{conn: conn, auth: auth, users: users, tokens: tokens, user: userSvc}
}

// latestMagicToken reads the token the dev-mode email would have carried.
func (f *authFixture) latestMagicToken(t *testing.T, userID string) string {
	t.Helper()

	var token string
	err := f.conn.Get(&token, `SELECT token FROM tokens WHERE user_id = $1 AND type = $2 AND used_at IS NULL`, userID, model.TokenTypeMagicLink)
	require.NoError(t, err)
	return token
}

func TestAuthService_MagicLinkSignup(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()

	require.NoError(t, f.auth.SendMagicLink(ctx, "  Ada@Example.com "))

	user, err := f.users.ByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Nil(t, user.EmailVerifiedAt)

	token := f.latestMagicToken(t, user.ID)
	signedIn, err := f.auth.VerifyMagicLink(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, signedIn.ID)
	assert.NotNil(t, signedIn.EmailVerifiedAt)

	_, err = f.auth.VerifyMagicLink(ctx, token)
	assert.ErrorIs(t, err, service.ErrInvalidMagicLink)

	require.NoError(t, f.auth.CompleteOnboarding(ctx, user.ID, " Ada "))
	profile, err := repository.NewProfileRepository(f.conn).ByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.Name)
}

func TestAuthService_MagicLinkRejectsInvalidEmail(t *testing.T) {
	f := newAuthFixture(t, true)

	err := f.auth.SendMagicLink(context.Background(), "nope")
	var fe *validation.FieldError
	assert.True(t, errors.As(err, &fe))
}

func TestAuthService_SignupDisabled(t *testing.T) {
	f := newAuthFixture(t, false)
	ctx := context.Background()

	err := f.auth.SendMagicLink(ctx, "new@example.com")
	assert.ErrorIs(t, err, service.ErrSignupDisabled)

	_, err = f.auth.AuthenticateOAuth(ctx, "new@example.com", "github")
	assert.ErrorIs(t, err, service.ErrSignupDisabled)

	_, err = f.users.ByEmail(ctx, "new@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestAuthService_PasswordLogin(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()

	user, err := f.auth.AuthenticateOAuth(ctx, "grace@example.com", "google")
	require.NoError(t, err)
	require.NotNil(t, user.EmailVerifiedAt)

	_, err = f.auth.Login(ctx, "grace@example.com", "anything at all")
	assert.ErrorIs(t, err, service.ErrPasswordless)

	require.NoError(t, f.auth.SetPassword(ctx, user.ID, "correct horse battery"))
	assert.ErrorIs(t, f.auth.SetPassword(ctx, user.ID, "another long phrase"), service.ErrPasswordAlreadySet)

	loggedIn, err := f.auth.Login(ctx, "GRACE@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	_, err = f.auth.Login(ctx, "grace@example.com", "wrong horse battery")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, "nobody@example.com", "correct horse battery")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	users := f.user
	assert.ErrorIs(t, users.UpdatePassword(ctx, user.ID, "nope", "brand new phrase"), service.ErrInvalidCurrentPassword)
	require.NoError(t, users.UpdatePassword(ctx, user.ID, "correct horse battery", "brand new phrase"))
	_, err = f.auth.Login(ctx, "grace@example.com", "brand new phrase")
	require.NoError(t, err)
}

func TestAuthService_JWT(t *testing.T) {
	f := newAuthFixture(t, true)
	user := &model.User{ID: newUserID(), Email: "ada@example.com"}

	token, expiresAt, err := f.auth.GenerateJWT(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	userID, err := f.auth.VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	_, err = f.auth.VerifyJWT(token + "x")
	assert.Error(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, f.auth.SignIn(rec, user))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, service.AuthCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	cookieUserID, err := f.auth.VerifyJWT(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, user.ID, cookieUserID)
}

func TestAuthService_NeedsOnboarding(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()

	user, err := f.auth.AuthenticateOAuth(ctx, "grace@example.com", "google")
	require.NoError(t, err)
	require.NotNil(t, user.EmailVerifiedAt)

	needs, err := f.auth.NeedsOnboarding(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, needs)

	require.NoError(t, f.auth.CompleteOnboarding(ctx, user.ID, "Grace"))

	needs, err = f.auth.NeedsOnboarding(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, needs)
}

func (f *authFixture) latestToken(t *testing.T, userID, tokenType string) string {
	t.Helper()

	var token string
	err := f.conn.Get(&token, `SELECT token FROM tokens WHERE user_id = $1 AND type = $2 AND used_at IS NULL`, userID, tokenType)
	require.NoError(t, err)
	return token
}

func TestAuthService_RemovePassword(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()

	user, err := f.auth.AuthenticateOAuth(ctx, "grace@example.com", "google")
	require.NoError(t, err)

	assert.ErrorIs(t, f.auth.RemovePassword(ctx, user.ID), service.ErrAlreadyPasswordless)

	require.NoError(t, f.auth.SetPassword(ctx, user.ID, "correct horse battery"))
	require.NoError(t, f.auth.RemovePassword(ctx, user.ID))

	_, err = f.auth.Login(ctx, "grace@example.com", "correct horse battery")
	assert.ErrorIs(t, err, service.ErrPasswordless)
}

func TestAuthService_ForgotPassword(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()

	require.NoError(t, f.auth.SendForgotPasswordLink(ctx, "nobody@example.com"))

	user, err := f.auth.AuthenticateOAuth(ctx, "grace@example.com", "google")
	require.NoError(t, err)

	// passwordless accounts get nothing
	require.NoError(t, f.auth.SendForgotPasswordLink(ctx, "grace@example.com"))
	var count int
	require.NoError(t, f.conn.Get(&count, `SELECT COUNT(*) FROM tokens WHERE user_id = $1`, user.ID))
	assert.Zero(t, count)

	require.NoError(t, f.auth.SetPassword(ctx, user.ID, "correct horse battery"))
	require.NoError(t, f.auth.SendForgotPasswordLink(ctx, " Grace@Example.com "))

	signedIn, err := f.auth.VerifyMagicLink(ctx, f.latestToken(t, user.ID, model.TokenTypeMagicLink))
	require.NoError(t, err)
	assert.Equal(t, user.ID, signedIn.ID)
}

func TestAuthService_EmailChange(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()

	ada, err := f.auth.AuthenticateOAuth(ctx, "ada@example.com", "github")
	require.NoError(t, err)
	_, err = f.auth.AuthenticateOAuth(ctx, "grace@example.com", "google")
	require.NoError(t, err)

	assert.ErrorIs(t, f.auth.RequestEmailChange(ctx, ada.ID, "ADA@example.com"), service.ErrEmailUnchanged)
	assert.ErrorIs(t, f.auth.RequestEmailChange(ctx, ada.ID, "grace@example.com"), service.ErrEmailAlreadyExists)

	var fe *validation.FieldError
	assert.True(t, errors.As(f.auth.RequestEmailChange(ctx, ada.ID, "nope"), &fe))

	require.NoError(t, f.auth.RequestEmailChange(ctx, ada.ID, "ada@new.example.com"))

	pending, err := f.users.ByID(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", pending.Email)
	require.NotNil(t, pending.PendingEmail)
	assert.Equal(t, "ada@new.example.com", *pending.PendingEmail)

	// a magic link token cannot confirm an email change
	require.NoError(t, f.auth.SendMagicLink(ctx, "ada@example.com"))
	_, err = f.auth.VerifyEmailChange(ctx, f.latestToken(t, ada.ID, model.TokenTypeMagicLink))
	assert.ErrorIs(t, err, service.ErrInvalidEmailChange)

	token := f.latestToken(t, ada.ID, model.TokenTypeEmailChange)
	changed, err := f.auth.VerifyEmailChange(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "ada@new.example.com", changed.Email)
	assert.Nil(t, changed.PendingEmail)

	_, err = f.auth.VerifyEmailChange(ctx, token)
	assert.ErrorIs(t, err, service.ErrInvalidEmailChange)

	_, err = f.users.ByEmail(ctx, "ada@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserService_DeleteAccount(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()
	workoutRepo := repository.NewWorkoutRepository(f.conn)
	workouts := service.NewWorkoutService(workoutRepo, nil)
	weRepo := repository.NewWorkoutExerciseRepository(f.conn)
	exerciseRepo := repository.NewExerciseRepository(f.conn)

	ada, err := f.auth.AuthenticateOAuth(ctx, "ada@example.com", "github")
	require.NoError(t, err)
	grace, err := f.auth.AuthenticateOAuth(ctx, "grace@example.com", "google")
	require.NoError(t, err)

	_, err = service.NewExerciseService(exerciseRepo, time.Minute, nil).Seed(ctx, service.DefaultExercises)
	require.NoError(t, err)
	demo := service.NewDemoService(exerciseRepo, repository.NewTransactor(f.conn))
	adaWorkout, err := demo.SeedWorkout(ctx, ada.ID, time.Now())
	require.NoError(t, err)
	graceWorkout := mustCreateWorkout(t, workouts, grace.ID, "Kept", time.Now(), nil)

	require.NoError(t, f.user.DeleteAccount(ctx, ada.ID))

	_, err = f.users.ByID(ctx, ada.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	_, err = workoutRepo.ByID(ctx, ada.ID, adaWorkout.ID)
	assert.ErrorIs(t, err, repository.ErrWorkoutNotFound)
	sets, err := weRepo.CountSets(ctx, adaWorkout.ID)
	require.NoError(t, err)
	assert.Zero(t, sets)

	_, err = workoutRepo.ByID(ctx, grace.ID, graceWorkout.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, f.user.DeleteAccount(ctx, ada.ID), repository.ErrUserNotFound)
}
