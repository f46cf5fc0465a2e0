package validation

import "github.com/fittrack/fittrack/internal/model"

// ValidateCategory converts a raw category into a known ExerciseCategory.
func ValidateCategory(category string) (model.ExerciseCategory, error) {
	c := model.ExerciseCategory(category)
	if !c.Valid() {
		return "", fieldError("category", "Invalid category")
	}
	return c, nil
}
