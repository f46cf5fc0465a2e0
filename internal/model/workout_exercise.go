package model

// WorkoutExercise is one ordered occurrence of an exercise inside a workout.
type WorkoutExercise struct {
	ID          string `db:"id"`
	WorkoutID   string `db:"workout_id"`
	ExerciseID  string `db:"exercise_id"`
	SortOrder   int    `db:"sort_order"`
	RestSeconds *int   `db:"rest_seconds"`

	Sets []*ExerciseSet `db:"-"`
}

// ExerciseSet holds strength (weight + reps) or cardio (duration + distance) measurements.
type ExerciseSet struct {
	ID                string   `db:"id"`
	WorkoutExerciseID string   `db:"workout_exercise_id"`
	SetNumber         int      `db:"set_number"`
	WeightLbs         *float64 `db:"weight_lbs"`
	Reps              *int     `db:"reps"`
	DurationSeconds   *int     `db:"duration_seconds"`
	DistanceMiles     *float64 `db:"distance_miles"`
	Notes             *string  `db:"notes"`
}
