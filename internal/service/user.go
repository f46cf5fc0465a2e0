package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/repository"
	"github.com/fittrack/fittrack/internal/validation"
)

var ErrInvalidCurrentPassword = errors.New("current password is incorrect")

type UserService struct {
	userRepository    repository.UserRepository
	profileRepository repository.ProfileRepository
	emailService      *EmailService
	tx                *repository.Transactor
}

func NewUserService(
	userRepository repository.UserRepository,
	profileRepository repository.ProfileRepository,
	emailService *EmailService,
	tx *repository.Transactor,
) *UserService {
	return &UserService{
		userRepository:    userRepository,
		profileRepository: profileRepository,
		emailService:      emailService,
		tx:                tx,
	}
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	return s.userRepository.ByID(ctx, id)
}

func (s *UserService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		return ErrPasswordless
	}

	err = bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(currentPassword))
	if err != nil {
		return ErrInvalidCurrentPassword
	}

	err = validation.ValidatePassword(newPassword)
	if err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	hash := string(hashedPassword)
	user.PasswordHash = &hash

	err = s.userRepository.Update(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// DeleteAccount removes the user's workouts and then the user in one transaction.
// Workouts are not tied to users by a foreign key, so they are deleted explicitly;
// their exercises and sets, the profile and the tokens cascade.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	name := ""
	profile, err := s.profileRepository.ByUserID(ctx, userID)
	if err != nil {
		slog.Warn("failed to get profile for deletion email", "error", err, "user_id", userID)
	} else {
		name = profile.Name
	}

	var workouts int64
	err = s.tx.WithTx(ctx, func(repos repository.Repositories) error {
		workouts, err = repos.Workouts.DeleteAllByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to delete workouts: %w", err)
		}
		return repos.Users.Delete(ctx, userID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	err = s.emailService.SendAccountDeletedEmail(ctx, user.Email, name)
	if err != nil {
		slog.Warn("failed to send account deleted email", "error", err, "user_id", userID)
	}

	slog.Info("account deleted", "user_id", userID, "workouts_deleted", workouts)
	return nil
}
