package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/repository"
)

type demoExercise struct {
	name string
	rest int
	sets []model.ExerciseSet
}

var demoPlan = []demoExercise{
	{name: "Back Squat", rest: 120, sets: []model.ExerciseSet{
		{WeightLbs: ptrTo(135.0), Reps: ptrTo(5)},
		{WeightLbs: ptrTo(155.0), Reps: ptrTo(5)},
		{WeightLbs: ptrTo(175.0), Reps: ptrTo(5)},
	}},
	{name: "Running", sets: []model.ExerciseSet{
		{DurationSeconds: ptrTo(1200), DistanceMiles: ptrTo(2.0)},
	}},
}

func ptrTo[T any](v T) *T {
	return &v
}

// DemoService fills an account with a sample workout for local development.
type DemoService struct {
	exerciseRepo repository.ExerciseRepository
	tx           *repository.Transactor
}

func NewDemoService(exerciseRepo repository.ExerciseRepository, tx *repository.Transactor) *DemoService {
	return &DemoService{
		exerciseRepo: exerciseRepo,
		tx:           tx,
	}
}

// SeedWorkout creates a sample workout at local noon of day with its exercises and sets.
// Everything is written in one transaction. The exercise library must be seeded first.
func (s *DemoService) SeedWorkout(ctx context.Context, userID string, day time.Time) (*model.Workout, error) {
	exerciseIDs := make([]string, len(demoPlan))
	for i, e := range demoPlan {
		exercise, err := s.exerciseRepo.ByName(ctx, e.name)
		if err != nil {
			return nil, fmt.Errorf("failed to find exercise %q: %w", e.name, err)
		}
		exerciseIDs[i] = exercise.ID
	}

	y, m, d := day.In(time.Local).Date()
	var workout *model.Workout
	err := s.tx.WithTx(ctx, func(repos repository.Repositories) error {
		var err error
		workout, err = NewWorkoutService(repos.Workouts, nil).Create(ctx, CreateWorkoutParams{
			UserID:          userID,
			Title:           "Squats and a short run",
			Notes:           ptrTo("Sample workout. **Squats** first, then an easy run."),
			DurationMinutes: ptrTo(45),
			StartedAt:       time.Date(y, m, d, 12, 0, 0, 0, time.Local),
		})
		if err != nil {
			return err
		}

		for i, e := range demoPlan {
			we := &model.WorkoutExercise{
				WorkoutID:  workout.ID,
				ExerciseID: exerciseIDs[i],
				SortOrder:  i,
			}
			if e.rest > 0 {
				we.RestSeconds = ptrTo(e.rest)
			}
			err = repos.WorkoutExercises.Create(ctx, we)
			if err != nil {
				return fmt.Errorf("failed to add exercise %q: %w", e.name, err)
			}

			for n, set := range e.sets {
				set.WorkoutExerciseID = we.ID
				set.SetNumber = n + 1
				err = repos.WorkoutExercises.CreateSet(ctx, &set)
				if err != nil {
					return fmt.Errorf("failed to add set: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("demo workout seeded", "user_id", userID, "workout_id", workout.ID)
	return workout, nil
}
