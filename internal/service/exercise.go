package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fittrack/fittrack/internal/cache"
	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/repository"
	"github.com/fittrack/fittrack/internal/validation"
)

// ExerciseService reads the shared exercise library. The full listing is
// served from a snapshot that is refreshed once it is older than the TTL;
// writes to the table are not visible until then.
type ExerciseService struct {
	exerciseRepo repository.ExerciseRepository
	all          *cache.TTL[[]*model.Exercise]
}

func NewExerciseService(exerciseRepo repository.ExerciseRepository, ttl time.Duration, now func() time.Time) *ExerciseService {
	return &ExerciseService{
		exerciseRepo: exerciseRepo,
		all:          cache.NewTTL[[]*model.Exercise](ttl, now),
	}
}

// ByID returns repository.ErrExerciseNotFound for unknown ids.
func (s *ExerciseService) ByID(ctx context.Context, id string) (*model.Exercise, error) {
	return s.exerciseRepo.ByID(ctx, id)
}

func (s *ExerciseService) ByCategory(ctx context.Context, category string) ([]*model.Exercise, error) {
	c, err := validation.ValidateCategory(category)
	if err != nil {
		return nil, err
	}

	exercises, err := s.exerciseRepo.ByCategory(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}

	return exercises, nil
}

func (s *ExerciseService) All(ctx context.Context) ([]*model.Exercise, error) {
	exercises, err := s.all.GetOrLoad(ctx, s.exerciseRepo.All)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}

	return exercises, nil
}

// Invalidate drops the cached listing so the next All reads the table.
func (s *ExerciseService) Invalidate() {
	s.all.Invalidate()
}

// Seed inserts the exercises whose names are not in the library yet and
// returns how many were added.
func (s *ExerciseService) Seed(ctx context.Context, exercises []model.Exercise) (int, error) {
	added := 0
	for _, e := range exercises {
		_, err := s.exerciseRepo.ByName(ctx, e.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrExerciseNotFound) {
			return added, fmt.Errorf("failed to look up exercise %q: %w", e.Name, err)
		}

		exercise := e
		err = s.exerciseRepo.Create(ctx, &exercise)
		if err != nil {
			return added, fmt.Errorf("failed to create exercise %q: %w", e.Name, err)
		}
		added++
	}

	if added > 0 {
		s.Invalidate()
		slog.Info("exercise library seeded", "added", added)
	}

	return added, nil
}

func describe(s string) *string {
	return &s
}

// DefaultExercises is the master library installed by `fittrack seed exercises`.
var DefaultExercises = []model.Exercise{
	{Name: "Back Squat", Category: model.CategoryStrength, Description: describe("Barbell on the upper back, squat to depth and stand.")},
	{Name: "Bench Press", Category: model.CategoryStrength, Description: describe("Press the barbell from chest to lockout on a flat bench.")},
	{Name: "Deadlift", Category: model.CategoryStrength, Description: describe("Lift the barbell from the floor to standing.")},
	{Name: "Overhead Press", Category: model.CategoryStrength, Description: describe("Press the barbell from shoulders to overhead while standing.")},
	{Name: "Barbell Row", Category: model.CategoryStrength, Description: describe("Hinge forward and row the barbell to the lower ribs.")},
	{Name: "Pull-up", Category: model.CategoryStrength, Description: describe("Hang from a bar and pull the chin over it.")},
	{Name: "Push-up", Category: model.CategoryStrength},
	{Name: "Lunge", Category: model.CategoryStrength},
	{Name: "Running", Category: model.CategoryCardio, Description: describe("Outdoor or treadmill run.")},
	{Name: "Cycling", Category: model.CategoryCardio},
	{Name: "Rowing", Category: model.CategoryCardio, Description: describe("Rowing machine.")},
	{Name: "Swimming", Category: model.CategoryCardio},
	{Name: "Jump Rope", Category: model.CategoryCardio},
	{Name: "Stair Climber", Category: model.CategoryCardio},
	{Name: "Yoga Flow", Category: model.CategoryFlexibility},
	{Name: "Hamstring Stretch", Category: model.CategoryFlexibility},
	{Name: "Hip Flexor Stretch", Category: model.CategoryFlexibility},
	{Name: "Foam Rolling", Category: model.CategoryFlexibility},
	{Name: "Basketball", Category: model.CategorySports},
	{Name: "Soccer", Category: model.CategorySports},
	{Name: "Tennis", Category: model.CategorySports},
	{Name: "Climbing", Category: model.CategorySports},
}
