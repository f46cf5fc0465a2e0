package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/repository"
	"github.com/fittrack/fittrack/internal/validation"
)

const AuthCookieName = "auth_token"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrPasswordless        = errors.New("this account uses passwordless login, please use the magic link option")
	ErrEmailNotVerified    = errors.New("email not verified")
	ErrSignupDisabled      = errors.New("sign up is disabled")
	ErrInvalidMagicLink    = errors.New("invalid or expired magic link")
	ErrPasswordAlreadySet  = errors.New("password already set")
	ErrAlreadyPasswordless = errors.New("account is already passwordless")
	ErrEmailAlreadyExists  = errors.New("email already in use")
	ErrEmailUnchanged      = errors.New("email is already set to this value")
	ErrInvalidEmailChange  = errors.New("invalid or expired verification link")
)

type AuthService struct {
	userRepository         repository.UserRepository
	profileRepository      repository.ProfileRepository
	tokenRepository        repository.TokenRepository
	emailService           *EmailService
	jwtSecret              string
	isProduction           bool
	allowSignup            bool
	jwtExpiry              time.Duration
	tokenMagicLinkExpiry   time.Duration
	tokenEmailChangeExpiry time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	profileRepository repository.ProfileRepository,
	tokenRepository repository.TokenRepository,
	emailService *EmailService,
	jwtSecret string,
	isProduction bool,
	allowSignup bool,
	jwtExpiry time.Duration,
	tokenMagicLinkExpiry time.Duration,
	tokenEmailChangeExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:         userRepository,
		profileRepository:      profileRepository,
		tokenRepository:        tokenRepository,
		emailService:           emailService,
		jwtSecret:              jwtSecret,
		isProduction:           isProduction,
		allowSignup:            allowSignup,
		jwtExpiry:              jwtExpiry,
		tokenMagicLinkExpiry:   tokenMagicLinkExpiry,
		tokenEmailChangeExpiry: tokenEmailChangeExpiry,
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepository.ByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		return nil, ErrPasswordless
	}

	err = bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.EmailVerifiedAt == nil {
		return nil, ErrEmailNotVerified
	}

	return user, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// GenerateToken returns 32 random bytes, hex encoded.
func (s *AuthService) GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func (s *AuthService) GenerateJWT(user *model.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.jwtExpiry)
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     expiresAt.Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// VerifyJWT validates the signature and expiry and returns the user id claim.
func (s *AuthService) VerifyJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.New("token has no user")
	}

	return userID, nil
}

// SignIn issues a session cookie for user.
func (s *AuthService) SignIn(w http.ResponseWriter, user *model.User) error {
	token, expiresAt, err := s.GenerateJWT(user)
	if err != nil {
		return fmt.Errorf("failed to generate session: %w", err)
	}

	s.setCookie(w, token, expiresAt)
	return nil
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	s.setCookie(w, "", time.Unix(0, 0))
}

func (s *AuthService) setCookie(w http.ResponseWriter, value string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    value,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) SetPassword(ctx context.Context, userID, newPassword string) error {
	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.HasPassword() {
		return ErrPasswordAlreadySet
	}

	err = validation.ValidatePassword(newPassword)
	if err != nil {
		return err
	}

	hashedPassword, err := s.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = &hashedPassword
	err = s.userRepository.Update(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}

	slog.Info("password set for passwordless account", "user_id", userID)
	return nil
}

func (s *AuthService) RemovePassword(ctx context.Context, userID string) error {
	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		return ErrAlreadyPasswordless
	}

	user.PasswordHash = nil
	err = s.userRepository.Update(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to remove password: %w", err)
	}

	slog.Info("password removed, account is now passwordless", "user_id", userID)
	return nil
}

// displayName returns the onboarding name, or "" when the profile cannot be read.
func (s *AuthService) displayName(ctx context.Context, userID string) string {
	profile, err := s.profileRepository.ByUserID(ctx, userID)
	if err != nil {
		return ""
	}
	return profile.Name
}

// RequestEmailChange stores newEmail as pending and mails a verification link to it.
// The address only changes once VerifyEmailChange consumes that link.
func (s *AuthService) RequestEmailChange(ctx context.Context, userID, newEmail string) error {
	newEmail = normalizeEmail(newEmail)

	err := validation.ValidateEmail(newEmail)
	if err != nil {
		return err
	}

	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if newEmail == user.Email {
		return ErrEmailUnchanged
	}

	_, err = s.userRepository.ByEmail(ctx, newEmail)
	if err == nil {
		return ErrEmailAlreadyExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	err = s.tokenRepository.DeleteByUserAndType(ctx, user.ID, model.TokenTypeEmailChange)
	if err != nil {
		slog.Warn("failed to delete old email change tokens", "error", err, "user_id", user.ID)
	}

	user.PendingEmail = &newEmail
	err = s.userRepository.Update(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to save pending email: %w", err)
	}

	verificationToken, err := s.GenerateToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	err = s.tokenRepository.Create(ctx, &model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypeEmailChange,
		Token:     verificationToken,
		ExpiresAt: time.Now().Add(s.tokenEmailChangeExpiry),
	})
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	name := s.displayName(ctx, user.ID)
	err = s.emailService.SendEmailChangeVerification(ctx, newEmail, verificationToken, name)
	if err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	err = s.emailService.SendEmailChangeNotification(ctx, user.Email, newEmail, name)
	if err != nil {
		slog.Warn("failed to send email change notification", "error", err, "user_id", user.ID)
	}

	slog.Info("email change requested", "user_id", user.ID)
	return nil
}

// VerifyEmailChange consumes the token and moves the pending address into place.
func (s *AuthService) VerifyEmailChange(ctx context.Context, token string) (*model.User, error) {
	tokenModel, err := s.tokenRepository.ConsumeToken(ctx, token)
	if err != nil || tokenModel.Type != model.TokenTypeEmailChange {
		return nil, ErrInvalidEmailChange
	}

	user, err := s.userRepository.ByID(ctx, tokenModel.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.PendingEmail == nil || *user.PendingEmail == "" {
		return nil, ErrInvalidEmailChange
	}

	now := time.Now()
	user.Email = *user.PendingEmail
	user.PendingEmail = nil
	user.EmailVerifiedAt = &now

	err = s.userRepository.Update(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, ErrEmailAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update email: %w", err)
	}

	slog.Info("email changed", "user_id", user.ID)
	return user, nil
}

// createUser inserts a user together with its empty profile; the name is set during onboarding.
func (s *AuthService) createUser(ctx context.Context, email string, verifiedAt *time.Time) (*model.User, error) {
	if !s.allowSignup {
		return nil, ErrSignupDisabled
	}

	now := time.Now()
	user := &model.User{
		ID:              uuid.New().String(),
		Email:           email,
		EmailVerifiedAt: verifiedAt,
		CreatedAt:       now,
	}

	err := s.userRepository.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	err = s.profileRepository.Create(ctx, &model.Profile{
		UserID:    user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return user, nil
}

// SendMagicLink handles the combined login/signup flow.
// Unknown addresses get a new passwordless account (when sign up is allowed).
func (s *AuthService) SendMagicLink(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	err := validation.ValidateEmail(email)
	if err != nil {
		return err
	}

	user, err := s.userRepository.ByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		user, err = s.createUser(ctx, email, nil)
		if err != nil {
			return err
		}
		slog.Info("new passwordless user created", "user_id", user.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to lookup user: %w", err)
	}

	err = s.tokenRepository.DeleteByUserAndType(ctx, user.ID, model.TokenTypeMagicLink)
	if err != nil {
		slog.Warn("failed to delete old magic link tokens", "error", err, "user_id", user.ID)
	}

	magicToken, err := s.GenerateToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	err = s.tokenRepository.Create(ctx, &model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypeMagicLink,
		Token:     magicToken,
		ExpiresAt: time.Now().Add(s.tokenMagicLinkExpiry),
	})
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	err = s.emailService.SendMagicLinkEmail(ctx, user.Email, magicToken)
	if err != nil {
		slog.Error("failed to send magic link email", "error", err, "user_id", user.ID)
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("magic link sent", "user_id", user.ID)
	return nil
}

// SendForgotPasswordLink mails a one-time sign-in link to accounts that have a password.
// Unknown and passwordless addresses succeed silently so accounts cannot be enumerated.
func (s *AuthService) SendForgotPasswordLink(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	err := validation.ValidateEmail(email)
	if err != nil {
		return err
	}

	user, err := s.userRepository.ByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		slog.Info("forgot password requested for unknown email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to lookup user: %w", err)
	}

	if !user.HasPassword() {
		slog.Info("forgot password requested for passwordless account", "user_id", user.ID)
		return nil
	}

	err = s.tokenRepository.DeleteByUserAndType(ctx, user.ID, model.TokenTypeMagicLink)
	if err != nil {
		slog.Warn("failed to delete old magic link tokens", "error", err, "user_id", user.ID)
	}

	magicToken, err := s.GenerateToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	err = s.tokenRepository.Create(ctx, &model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypeMagicLink,
		Token:     magicToken,
		ExpiresAt: time.Now().Add(s.tokenMagicLinkExpiry),
	})
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	err = s.emailService.SendForgotPasswordEmail(ctx, user.Email, magicToken)
	if err != nil {
		slog.Error("failed to send forgot password email", "error", err, "user_id", user.ID)
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("forgot password link sent", "user_id", user.ID)
	return nil
}

// VerifyMagicLink consumes the token and returns the signed-in user.
func (s *AuthService) VerifyMagicLink(ctx context.Context, token string) (*model.User, error) {
	tokenModel, err := s.tokenRepository.ConsumeToken(ctx, token)
	if err != nil {
		return nil, ErrInvalidMagicLink
	}

	if tokenModel.Type != model.TokenTypeMagicLink {
		return nil, ErrInvalidMagicLink
	}

	user, err := s.userRepository.ByID(ctx, tokenModel.UserID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	// Clicking the link proves ownership of the address.
	if user.EmailVerifiedAt == nil {
		now := time.Now()
		user.EmailVerifiedAt = &now
		err = s.userRepository.Update(ctx, user)
		if err != nil {
			slog.Warn("failed to verify email", "error", err, "user_id", user.ID)
		}
	}

	slog.Info("user authenticated via magic link", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) CompleteOnboarding(ctx context.Context, userID, name string) error {
	name = strings.TrimSpace(name)

	err := validation.ValidateName(name)
	if err != nil {
		return err
	}

	err = s.profileRepository.UpdateName(ctx, userID, name)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	user, err := s.userRepository.ByID(ctx, userID)
	if err == nil {
		err = s.emailService.SendWelcomeEmail(ctx, user.Email, name)
		if err != nil {
			slog.Warn("failed to send welcome email", "error", err, "user_id", userID)
		}
	}

	slog.Info("onboarding completed", "user_id", userID)
	return nil
}

// NeedsOnboarding reports whether the user has not chosen a display name yet.
func (s *AuthService) NeedsOnboarding(ctx context.Context, userID string) (bool, error) {
	profile, err := s.profileRepository.ByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile.NeedsOnboarding(), nil
}

// AuthenticateOAuth signs in (or signs up) the owner of a provider-verified email.
func (s *AuthService) AuthenticateOAuth(ctx context.Context, email, provider string) (*model.User, error) {
	email = normalizeEmail(email)

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user, err := s.userRepository.ByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		user, err = s.createUser(ctx, email, &now)
		if err != nil {
			return nil, err
		}
		slog.Info("new OAuth user created", "user_id", user.ID, "provider", provider)
		return user, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user: %w", err)
	}

	if user.EmailVerifiedAt == nil {
		user.EmailVerifiedAt = &now
		err = s.userRepository.Update(ctx, user)
		if err != nil {
			slog.Warn("failed to mark email as verified", "error", err, "user_id", user.ID)
		}
	}

	slog.Info("user authenticated via OAuth", "user_id", user.ID, "provider", provider)
	return user, nil
}
