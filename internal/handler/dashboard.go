package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/fittrack/fittrack/internal/ctxkeys"
	"github.com/fittrack/fittrack/internal/dateutil"
	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/service"
	"github.com/fittrack/fittrack/internal/ui"
	"github.com/fittrack/fittrack/internal/ui/pages"
)

type DashboardHandler struct {
	workoutService *service.WorkoutService
	statsService   *service.StatsService
	now            func() time.Time
}

func NewDashboardHandler(workoutService *service.WorkoutService, statsService *service.StatsService, now func() time.Time) *DashboardHandler {
	if now == nil {
		now = time.Now
	}
	return &DashboardHandler{
		workoutService: workoutService,
		statsService:   statsService,
		now:            now,
	}
}

// DashboardPage shows one local day: ?date=YYYY-MM-DD, today by default.
// A failing list or stats query degrades to an empty day instead of an error page.
func (h *DashboardHandler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	today := dateutil.StartOfDay(h.now())

	day := today
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := dateutil.ParseURLDate(raw)
		if err != nil {
			http.Error(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		day = parsed
	}

	start := dateutil.StartOfDay(day)
	end := dateutil.EndOfDay(day)

	workouts, err := h.workoutService.ByDate(r.Context(), user.ID, &start, nil)
	if err != nil {
		slog.Error("failed to load workouts", "error", err, "user_id", user.ID, "date", dateutil.FormatURLDate(day))
		workouts = []*model.WorkoutSummary{}
	}

	stats := model.WorkoutStats{}
	dayStats, err := h.statsService.UserStats(r.Context(), user.ID, &start, &end)
	if err != nil {
		slog.Error("failed to load workout stats", "error", err, "user_id", user.ID, "date", dateutil.FormatURLDate(day))
	} else {
		stats = *dayStats
	}

	ui.Render(w, r, pages.Dashboard(pages.DashboardData{
		Date:     start,
		Today:    today,
		Workouts: workouts,
		Stats:    stats,
	}))
}
