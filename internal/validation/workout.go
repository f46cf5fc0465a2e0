package validation

import (
	"unicode/utf8"

	"github.com/fittrack/fittrack/internal/dateutil"
	"github.com/fittrack/fittrack/internal/model"
)

const (
	MaxTitleLength     = 100
	MaxNotesLength     = 500
	MinDurationMinutes = 1
	MaxDurationMinutes = 24 * 60
)

// CreateWorkoutInput is the raw create form.
type CreateWorkoutInput struct {
	Title       string
	Notes       string
	WorkoutDate string // YYYY-MM-DD
	StartTime   string // HH:MM, optional
}

func ValidateCreateWorkout(in CreateWorkoutInput) error {
	err := ValidateTitle(in.Title)
	if err != nil {
		return err
	}

	if utf8.RuneCountInString(in.Notes) > MaxNotesLength {
		return fieldError("notes", "Notes too long")
	}

	if in.WorkoutDate == "" {
		return fieldError("workoutDate", "Date is required")
	}
	_, err = dateutil.ParseURLDate(in.WorkoutDate)
	if err != nil {
		return fieldError("workoutDate", "Invalid date")
	}

	if in.StartTime != "" {
		_, _, err = dateutil.ParseTimeOfDay(in.StartTime)
		if err != nil {
			return fieldError("startTime", "Invalid start time")
		}
	}

	return nil
}

// ValidateWorkoutUpdate checks the fields present in an update.
func ValidateWorkoutUpdate(u model.WorkoutUpdate) error {
	if u.Title != nil {
		err := ValidateTitle(*u.Title)
		if err != nil {
			return err
		}
	}
	if u.Notes != nil && utf8.RuneCountInString(*u.Notes) > MaxNotesLength {
		return fieldError("notes", "Notes too long")
	}
	if u.DurationMinutes != nil {
		err := ValidateDuration(*u.DurationMinutes)
		if err != nil {
			return err
		}
	}
	return nil
}

// ValidateDuration checks a workout duration in minutes: 1 minute up to 24 hours.
func ValidateDuration(minutes int) error {
	if minutes < MinDurationMinutes {
		return fieldError("durationMinutes", "Duration must be at least 1 minute")
	}
	if minutes > MaxDurationMinutes {
		return fieldError("durationMinutes", "Duration cannot exceed 24 hours")
	}

	return nil
}

// ValidateTitle checks 1..100 characters.
func ValidateTitle(title string) error {
	if title == "" {
		return fieldError("title", "Title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fieldError("title", "Title too long")
	}

	return nil
}
