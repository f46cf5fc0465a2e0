package model

import (
	"time"
)

type ExerciseCategory string

const (
	CategoryStrength    ExerciseCategory = "strength"
	CategoryCardio      ExerciseCategory = "cardio"
	CategoryFlexibility ExerciseCategory = "flexibility"
	CategorySports      ExerciseCategory = "sports"
)

// ExerciseCategories lists the categories in display order.
var ExerciseCategories = []ExerciseCategory{
	CategoryStrength,
	CategoryCardio,
	CategoryFlexibility,
	CategorySports,
}

func (c ExerciseCategory) Valid() bool {
	for _, known := range ExerciseCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Exercise is a row of the shared exercise library.
type Exercise struct {
	ID          string           `db:"id" json:"id"`
	Name        string           `db:"name" json:"name"`
	Category    ExerciseCategory `db:"category" json:"category"`
	Description *string          `db:"description" json:"description,omitempty"`
	CreatedBy   *string          `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
}
