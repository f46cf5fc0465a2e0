package handler

import (
	"log/slog"
	"net/http"

	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/service"
)

type ExerciseHandler struct {
	exerciseService *service.ExerciseService
}

func NewExerciseHandler(exerciseService *service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{
		exerciseService: exerciseService,
	}
}

// List serves the exercise library as JSON, optionally narrowed by ?category=.
// The unfiltered listing comes from the cached snapshot.
func (h *ExerciseHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	var (
		exercises []*model.Exercise
		err       error
	)
	if category == "" {
		exercises, err = h.exerciseService.All(r.Context())
	} else {
		exercises, err = h.exerciseService.ByCategory(r.Context(), category)
	}

	if msg, ok := fieldMessage(err); ok {
		writeJSONError(w, http.StatusBadRequest, msg)
		return
	}
	if err != nil {
		slog.Error("failed to list exercises", "error", err, "category", category)
		writeJSONError(w, http.StatusInternalServerError, "Failed to load exercises")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"exercises": exercises})
}
