package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/fittrack/fittrack/internal/model"
)

type WorkoutExerciseRepository interface {
	Create(ctx context.Context, we *model.WorkoutExercise) error
	CreateSet(ctx context.Context, set *model.ExerciseSet) error
	CountByWorkout(ctx context.Context, workoutID string) (int, error)
	CountSets(ctx context.Context, workoutID string) (int, error)
}

type workoutExerciseRepository struct {
	db DBTX
}

func NewWorkoutExerciseRepository(db DBTX) WorkoutExerciseRepository {
	return &workoutExerciseRepository{db: db}
}

func (r *workoutExerciseRepository) Create(ctx context.Context, we *model.WorkoutExercise) error {
	if we.ID == "" {
		we.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO workout_exercises (id, workout_id, exercise_id, sort_order, rest_seconds)
		VALUES ($1, $2, $3, $4, $5)
	`, we.ID, we.WorkoutID, we.ExerciseID, we.SortOrder, we.RestSeconds)

	return err
}

func (r *workoutExerciseRepository) CreateSet(ctx context.Context, set *model.ExerciseSet) error {
	if set.ID == "" {
		set.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO exercise_sets (id, workout_exercise_id, set_number, weight_lbs, reps, duration_seconds, distance_miles, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, set.ID, set.WorkoutExerciseID, set.SetNumber, set.WeightLbs, set.Reps, set.DurationSeconds, set.DistanceMiles, set.Notes)

	return err
}

func (r *workoutExerciseRepository) CountByWorkout(ctx context.Context, workoutID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM workout_exercises WHERE workout_id = $1`, workoutID)
	return count, err
}

// CountSets counts the exercise sets hanging off a workout's exercises.
func (r *workoutExerciseRepository) CountSets(ctx context.Context, workoutID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM exercise_sets es
		JOIN workout_exercises we ON we.id = es.workout_exercise_id
		WHERE we.workout_id = $1
	`, workoutID)
	return count, err
}
