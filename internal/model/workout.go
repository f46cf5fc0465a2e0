package model

import (
	"time"
)

type Workout struct {
	ID              string     `db:"id" json:"id"`
	UserID          string     `db:"user_id" json:"userId"`
	Title           string     `db:"title" json:"title"`
	Notes           *string    `db:"notes" json:"notes,omitempty"`
	DurationMinutes *int       `db:"duration_minutes" json:"durationMinutes,omitempty"`
	StartedAt       time.Time  `db:"started_at" json:"startedAt"`
	CompletedAt     *time.Time `db:"completed_at" json:"completedAt,omitempty"`
}

func (w *Workout) IsCompleted() bool {
	return w.CompletedAt != nil
}

// WorkoutSummary is a dashboard row: the workout plus how many exercises it links.
type WorkoutSummary struct {
	Workout
	ExerciseCount int `db:"exercise_count" json:"exerciseCount"`
}

// WorkoutUpdate carries the fields to change. Nil fields are left untouched;
// an empty Notes clears the notes and ClearCompletedAt resets the workout to in progress.
type WorkoutUpdate struct {
	Title            *string
	Notes            *string
	DurationMinutes  *int
	CompletedAt      *time.Time
	ClearCompletedAt bool
}

func (u WorkoutUpdate) IsEmpty() bool {
	return u.Title == nil && u.Notes == nil && u.DurationMinutes == nil &&
		u.CompletedAt == nil && !u.ClearCompletedAt
}

// WorkoutDetail is a workout together with its exercises and sets.
type WorkoutDetail struct {
	Workout   *Workout
	Exercises []*WorkoutExercise
}

type WorkoutStats struct {
	TotalWorkouts   int     `db:"total_workouts" json:"totalWorkouts"`
	TotalDuration   int     `db:"total_duration" json:"totalDuration"`
	AverageDuration float64 `db:"average_duration" json:"averageDuration"`
}
