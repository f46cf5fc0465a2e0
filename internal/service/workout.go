package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fittrack/fittrack/internal/dateutil"
	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/repository"
	"github.com/fittrack/fittrack/internal/validation"
)

var (
	ErrAuthRequired         = errors.New("authentication required")
	ErrCompletedBeforeStart = errors.New("completion time is before the workout start")
)

// CreateWorkoutParams carries an already resolved start instant.
type CreateWorkoutParams struct {
	UserID          string
	Title           string
	Notes           *string
	DurationMinutes *int
	StartedAt       time.Time
}

// WorkoutService is the only path that reads or mutates workouts.
// Every call is scoped to the given user; other users' workouts are reported
// as repository.ErrWorkoutNotFound.
type WorkoutService struct {
	workoutRepo repository.WorkoutRepository
	now         func() time.Time
}

func NewWorkoutService(workoutRepo repository.WorkoutRepository, now func() time.Time) *WorkoutService {
	if now == nil {
		now = time.Now
	}
	return &WorkoutService{
		workoutRepo: workoutRepo,
		now:         now,
	}
}

func requireUser(userID string) error {
	if userID == "" {
		return ErrAuthRequired
	}
	return nil
}

func (s *WorkoutService) Create(ctx context.Context, p CreateWorkoutParams) (*model.Workout, error) {
	err := requireUser(p.UserID)
	if err != nil {
		return nil, err
	}

	err = validation.ValidateTitle(p.Title)
	if err != nil {
		return nil, err
	}
	if p.DurationMinutes != nil {
		err = validation.ValidateDuration(*p.DurationMinutes)
		if err != nil {
			return nil, err
		}
	}

	notes := p.Notes
	if notes != nil && *notes == "" {
		notes = nil
	}

	workout := &model.Workout{
		UserID:          p.UserID,
		Title:           p.Title,
		Notes:           notes,
		DurationMinutes: p.DurationMinutes,
		StartedAt:       p.StartedAt,
	}

	err = s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, fmt.Errorf("failed to create workout: %w", err)
	}

	return workout, nil
}

// CreateFromInput validates the create form and places the workout on its
// date at the given start time, or at local noon without one.
func (s *WorkoutService) CreateFromInput(ctx context.Context, userID string, in validation.CreateWorkoutInput) (*model.Workout, error) {
	err := requireUser(userID)
	if err != nil {
		return nil, err
	}

	err = validation.ValidateCreateWorkout(in)
	if err != nil {
		return nil, err
	}

	startedAt, err := dateutil.ResolveStartedAt(in.WorkoutDate, in.StartTime)
	if err != nil {
		return nil, err
	}

	var notes *string
	if in.Notes != "" {
		notes = &in.Notes
	}

	return s.Create(ctx, CreateWorkoutParams{
		UserID:    userID,
		Title:     in.Title,
		Notes:     notes,
		StartedAt: startedAt,
	})
}

func (s *WorkoutService) ByID(ctx context.Context, userID, id string) (*model.Workout, error) {
	err := requireUser(userID)
	if err != nil {
		return nil, err
	}

	return s.workoutRepo.ByID(ctx, userID, id)
}

// ByDate lists workouts by ascending start time. A lone start selects its
// local calendar day; both bounds form an inclusive range.
func (s *WorkoutService) ByDate(ctx context.Context, userID string, start, end *time.Time) ([]*model.WorkoutSummary, error) {
	err := requireUser(userID)
	if err != nil {
		return nil, err
	}

	workouts, err := s.workoutRepo.ByDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}

	return workouts, nil
}

// WithExercises returns the workout with an empty exercise list.
// TODO: load workout_exercises and their exercise_sets once sets can be logged from the UI.
func (s *WorkoutService) WithExercises(ctx context.Context, userID, id string) (*model.WorkoutDetail, error) {
	workout, err := s.ByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	return &model.WorkoutDetail{
		Workout:   workout,
		Exercises: []*model.WorkoutExercise{},
	}, nil
}

func (s *WorkoutService) Update(ctx context.Context, userID, id string, update model.WorkoutUpdate) (*model.Workout, error) {
	err := requireUser(userID)
	if err != nil {
		return nil, err
	}

	err = validation.ValidateWorkoutUpdate(update)
	if err != nil {
		return nil, err
	}

	if update.CompletedAt != nil && !update.ClearCompletedAt {
		current, err := s.workoutRepo.ByID(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		if update.CompletedAt.Before(current.StartedAt) {
			return nil, ErrCompletedBeforeStart
		}
	}

	return s.workoutRepo.Update(ctx, userID, id, update)
}

// Delete reports whether the workout existed and was removed.
func (s *WorkoutService) Delete(ctx context.Context, userID, id string) (bool, error) {
	err := requireUser(userID)
	if err != nil {
		return false, err
	}

	deleted, err := s.workoutRepo.Delete(ctx, userID, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete workout: %w", err)
	}

	return deleted, nil
}

// Complete stamps the workout as finished now with the given duration.
// Calling it again overwrites both. A workout scheduled in the future is
// completed at its start time so completed_at never precedes started_at.
func (s *WorkoutService) Complete(ctx context.Context, userID, id string, durationMinutes int) (*model.Workout, error) {
	err := requireUser(userID)
	if err != nil {
		return nil, err
	}

	err = validation.ValidateDuration(durationMinutes)
	if err != nil {
		return nil, err
	}

	current, err := s.workoutRepo.ByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	completedAt := s.now()
	if completedAt.Before(current.StartedAt) {
		completedAt = current.StartedAt
	}

	return s.workoutRepo.Update(ctx, userID, id, model.WorkoutUpdate{
		DurationMinutes: &durationMinutes,
		CompletedAt:     &completedAt,
	})
}
