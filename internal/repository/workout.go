package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fittrack/fittrack/internal/dateutil"
	"github.com/fittrack/fittrack/internal/model"
)

var ErrWorkoutNotFound = errors.New("workout not found")

type WorkoutRepository interface {
	Create(ctx context.Context, workout *model.Workout) error
	ByID(ctx context.Context, userID, id string) (*model.Workout, error)
	ByDateRange(ctx context.Context, userID string, start, end *time.Time) ([]*model.WorkoutSummary, error)
	Update(ctx context.Context, userID, id string, update model.WorkoutUpdate) (*model.Workout, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
	Stats(ctx context.Context, userID string) (*model.WorkoutStats, error)
	StatsBetween(ctx context.Context, userID string, start, end time.Time) (*model.WorkoutStats, error)
	ListAll(ctx context.Context, userID string) ([]*model.Workout, error)
}

type workoutRepository struct {
	db DBTX
}

func NewWorkoutRepository(db DBTX) WorkoutRepository {
	return &workoutRepository{db: db}
}

func (r *workoutRepository) Create(ctx context.Context, workout *model.Workout) error {
	if workout.ID == "" {
		workout.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO workouts (id, user_id, title, notes, duration_minutes, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, workout.ID, workout.UserID, workout.Title, workout.Notes, workout.DurationMinutes, workout.StartedAt, workout.CompletedAt)

	return err
}

// ByID returns the workout only when it belongs to userID. A foreign id is
// reported as ErrWorkoutNotFound.
func (r *workoutRepository) ByID(ctx context.Context, userID, id string) (*model.Workout, error) {
	var workout model.Workout
	err := r.db.GetContext(ctx, &workout, `SELECT * FROM workouts WHERE id = $1 AND user_id = $2`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}

	return &workout, nil
}

// ByDateRange lists a user's workouts by ascending start time with their exercise counts.
// With only start set the range is start's local calendar day; with both set it is
// [start, end] inclusive; with neither it is unrestricted.
func (r *workoutRepository) ByDateRange(ctx context.Context, userID string, start, end *time.Time) ([]*model.WorkoutSummary, error) {
	query := `
		SELECT w.*,
			(SELECT COUNT(*) FROM workout_exercises we WHERE we.workout_id = w.id) AS exercise_count
		FROM workouts w
		WHERE w.user_id = $1`
	args := []any{userID}

	from, to := start, end
	if start != nil && end == nil {
		dayStart := dateutil.StartOfDay(*start)
		dayEnd := dateutil.EndOfDay(*start)
		from, to = &dayStart, &dayEnd
	}

	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND w.started_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND w.started_at <= $%d", len(args))
	}
	query += " ORDER BY w.started_at ASC"

	workouts := []*model.WorkoutSummary{}
	err := r.db.SelectContext(ctx, &workouts, query, args...)
	if err != nil {
		return nil, err
	}

	return workouts, nil
}

// Update applies the non-nil fields in one statement scoped to (id, user_id)
// and returns the stored row. Empty notes are stored as NULL.
func (r *workoutRepository) Update(ctx context.Context, userID, id string, update model.WorkoutUpdate) (*model.Workout, error) {
	if update.IsEmpty() {
		return r.ByID(ctx, userID, id)
	}

	var sets []string
	var args []any
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title != nil {
		set("title", *update.Title)
	}
	if update.Notes != nil {
		var notes *string
		if *update.Notes != "" {
			notes = update.Notes
		}
		set("notes", notes)
	}
	if update.DurationMinutes != nil {
		set("duration_minutes", *update.DurationMinutes)
	}
	if update.ClearCompletedAt {
		sets = append(sets, "completed_at = NULL")
	} else if update.CompletedAt != nil {
		set("completed_at", *update.CompletedAt)
	}

	args = append(args, id, userID)
	query := fmt.Sprintf(`UPDATE workouts SET %s WHERE id = $%d AND user_id = $%d`,
		strings.Join(sets, ", "), len(args)-1, len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrWorkoutNotFound
	}

	// SQLite reports no declared types for RETURNING columns, so timestamps would not decode.
	return r.ByID(ctx, userID, id)
}

// Delete removes the workout when it belongs to userID and reports whether a row was removed.
// Linked workout_exercises and exercise_sets go with it via ON DELETE CASCADE.
func (r *workoutRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM workouts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// DeleteAllByUser removes every workout of userID, with their exercises and sets.
func (r *workoutRepository) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM workouts WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// A missing duration counts as 0 in both the sum and the average.
const statsColumns = `
	COUNT(*) AS total_workouts,
	COALESCE(SUM(COALESCE(duration_minutes, 0)), 0) AS total_duration,
	COALESCE(AVG(COALESCE(duration_minutes, 0)), 0) AS average_duration`

func (r *workoutRepository) Stats(ctx context.Context, userID string) (*model.WorkoutStats, error) {
	var stats model.WorkoutStats
	err := r.db.GetContext(ctx, &stats, `SELECT `+statsColumns+` FROM workouts WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *workoutRepository) StatsBetween(ctx context.Context, userID string, start, end time.Time) (*model.WorkoutStats, error) {
	var stats model.WorkoutStats
	err := r.db.GetContext(ctx, &stats, `SELECT `+statsColumns+`
		FROM workouts
		WHERE user_id = $1 AND started_at >= $2 AND started_at <= $3
	`, userID, start, end)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *workoutRepository) ListAll(ctx context.Context, userID string) ([]*model.Workout, error) {
	workouts := []*model.Workout{}
	err := r.db.SelectContext(ctx, &workouts, `SELECT * FROM workouts WHERE user_id = $1 ORDER BY started_at ASC`, userID)
	if err != nil {
		return nil, err
	}

	return workouts, nil
}
