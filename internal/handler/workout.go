package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fittrack/fittrack/internal/ctxkeys"
	"github.com/fittrack/fittrack/internal/dateutil"
	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/repository"
	"github.com/fittrack/fittrack/internal/service"
	"github.com/fittrack/fittrack/internal/ui"
	"github.com/fittrack/fittrack/internal/ui/pages"
	"github.com/fittrack/fittrack/internal/validation"
)

const workoutNotFoundMessage = "Workout not found or access denied"

type WorkoutHandler struct {
	workoutService  *service.WorkoutService
	exerciseService *service.ExerciseService
	now             func() time.Time
}

func NewWorkoutHandler(workoutService *service.WorkoutService, exerciseService *service.ExerciseService, now func() time.Time) *WorkoutHandler {
	if now == nil {
		now = time.Now
	}
	return &WorkoutHandler{
		workoutService:  workoutService,
		exerciseService: exerciseService,
		now:             now,
	}
}

// NewPage renders the create form, prefilled with ?date= when it is valid.
func (h *WorkoutHandler) NewPage(w http.ResponseWriter, r *http.Request) {
	date := dateutil.FormatURLDate(h.now())
	if raw := r.URL.Query().Get("date"); raw != "" {
		if _, err := dateutil.ParseURLDate(raw); err == nil {
			date = raw
		}
	}

	ui.Render(w, r, pages.WorkoutForm(pages.WorkoutFormData{
		Input:     validation.CreateWorkoutInput{WorkoutDate: date},
		Exercises: h.exerciseLibrary(r),
	}))
}

// exerciseLibrary lists the exercise library for the form sidebar. The form works without it.
func (h *WorkoutHandler) exerciseLibrary(r *http.Request) []*model.Exercise {
	if h.exerciseService == nil {
		return nil
	}
	exercises, err := h.exerciseService.All(r.Context())
	if err != nil {
		slog.Warn("failed to load exercise library", "error", err)
		return nil
	}
	return exercises
}

func (h *WorkoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	in := validation.CreateWorkoutInput{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Notes:       strings.TrimSpace(r.FormValue("notes")),
		WorkoutDate: strings.TrimSpace(r.FormValue("workout_date")),
		StartTime:   strings.TrimSpace(r.FormValue("start_time")),
	}

	workout, err := h.workoutService.CreateFromInput(r.Context(), user.ID, in)
	if err != nil {
		msg, ok := fieldMessage(err)
		status := http.StatusBadRequest
		if !ok {
			slog.Error("failed to create workout", "error", err, "user_id", user.ID)
			msg, status = "Failed to create workout", http.StatusInternalServerError
		}
		ui.RenderStatus(w, r, status, pages.WorkoutForm(pages.WorkoutFormData{
			Input:     in,
			Exercises: h.exerciseLibrary(r),
			Error:     msg,
		}))
		return
	}

	slog.Info("workout created", "user_id", user.ID, "workout_id", workout.ID)
	http.Redirect(w, r, "/app/dashboard?date="+dateutil.FormatURLDate(workout.StartedAt), http.StatusSeeOther)
}

func (h *WorkoutHandler) DetailPage(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	id := r.PathValue("id")

	detail, err := h.workoutService.WithExercises(r.Context(), user.ID, id)
	if errors.Is(err, repository.ErrWorkoutNotFound) {
		http.Error(w, workoutNotFoundMessage, http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to load workout", "error", err, "user_id", user.ID, "workout_id", id)
		http.Error(w, "Failed to load workout", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, pages.WorkoutDetail(pages.WorkoutDetailData{Detail: detail}))
}

// Update applies the fields present in the form. An empty notes field clears the notes.
func (h *WorkoutHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	id := r.PathValue("id")

	err := r.ParseForm()
	if err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	update, err := parseWorkoutUpdate(r.PostForm)
	if err != nil {
		h.handleMutationError(w, r, user.ID, id, err, "Failed to update workout")
		return
	}

	_, err = h.workoutService.Update(r.Context(), user.ID, id, update)
	if err != nil {
		h.handleMutationError(w, r, user.ID, id, err, "Failed to update workout")
		return
	}

	h.redirectToDetail(w, r, id)
}

func (h *WorkoutHandler) Complete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	id := r.PathValue("id")

	minutes, err := strconv.Atoi(strings.TrimSpace(r.FormValue("duration_minutes")))
	if err != nil {
		h.renderDetailError(w, r, user.ID, id, http.StatusBadRequest, "Duration must be a whole number of minutes")
		return
	}

	workout, err := h.workoutService.Complete(r.Context(), user.ID, id, minutes)
	if err != nil {
		h.handleMutationError(w, r, user.ID, id, err, "Failed to complete workout")
		return
	}

	slog.Info("workout completed", "user_id", user.ID, "workout_id", workout.ID, "duration_minutes", minutes)
	h.redirectToDetail(w, r, id)
}

func (h *WorkoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	id := r.PathValue("id")

	deleted, err := h.workoutService.Delete(r.Context(), user.ID, id)
	if err != nil {
		slog.Error("failed to delete workout", "error", err, "user_id", user.ID, "workout_id", id)
		h.fail(w, r, http.StatusInternalServerError, "Failed to delete workout")
		return
	}
	if !deleted {
		h.fail(w, r, http.StatusNotFound, workoutNotFoundMessage)
		return
	}

	slog.Info("workout deleted", "user_id", user.ID, "workout_id", id)
	target := "/app/dashboard"
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *WorkoutHandler) handleMutationError(w http.ResponseWriter, r *http.Request, userID, id string, err error, failure string) {
	if msg, ok := fieldMessage(err); ok {
		h.renderDetailError(w, r, userID, id, http.StatusBadRequest, msg)
		return
	}
	switch {
	case errors.Is(err, service.ErrCompletedBeforeStart):
		h.renderDetailError(w, r, userID, id, http.StatusBadRequest, "Completion time cannot be before the start time")
	case errors.Is(err, repository.ErrWorkoutNotFound):
		h.fail(w, r, http.StatusNotFound, workoutNotFoundMessage)
	default:
		slog.Error(strings.ToLower(failure), "error", err, "user_id", userID, "workout_id", id)
		h.fail(w, r, http.StatusInternalServerError, failure)
	}
}

// renderDetailError re-renders the detail page with message, or a toast for htmx requests.
func (h *WorkoutHandler) renderDetailError(w http.ResponseWriter, r *http.Request, userID, id string, status int, message string) {
	if isHTMX(r) {
		toastError(w, r, status, message)
		return
	}

	detail, err := h.workoutService.WithExercises(r.Context(), userID, id)
	if err != nil {
		http.Error(w, message, status)
		return
	}
	ui.RenderStatus(w, r, status, pages.WorkoutDetail(pages.WorkoutDetailData{Detail: detail, Error: message}))
}

func (h *WorkoutHandler) fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	if isHTMX(r) {
		toastError(w, r, status, message)
		return
	}
	http.Error(w, message, status)
}

func (h *WorkoutHandler) redirectToDetail(w http.ResponseWriter, r *http.Request, id string) {
	target := "/app/workouts/" + url.PathEscape(id)
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// parseWorkoutUpdate maps form fields onto a partial update; absent fields stay untouched.
// An empty duration_minutes also leaves the duration untouched. completed_at accepts
// YYYY-MM-DDTHH:MM, and an empty value marks the workout in progress again.
func parseWorkoutUpdate(form url.Values) (model.WorkoutUpdate, error) {
	var u model.WorkoutUpdate

	if form.Has("title") {
		title := strings.TrimSpace(form.Get("title"))
		u.Title = &title
	}
	if form.Has("notes") {
		notes := strings.TrimSpace(form.Get("notes"))
		u.Notes = &notes
	}
	if raw := strings.TrimSpace(form.Get("duration_minutes")); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil {
			return u, &validation.FieldError{Field: "durationMinutes", Message: "Duration must be a whole number of minutes"}
		}
		u.DurationMinutes = &minutes
	}
	if form.Has("completed_at") {
		raw := strings.TrimSpace(form.Get("completed_at"))
		if raw == "" {
			u.ClearCompletedAt = true
		} else {
			completedAt, err := dateutil.ParseDateTimeLocal(raw)
			if err != nil {
				return u, &validation.FieldError{Field: "completedAt", Message: "Invalid completion time"}
			}
			u.CompletedAt = &completedAt
		}
	}

	return u, nil
}
