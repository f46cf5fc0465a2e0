package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/repository"
	"github.com/fittrack/fittrack/internal/storage"
)

// WorkoutExport is the archive handed to the user.
type WorkoutExport struct {
	Filename string
	Data     []byte
	// URL is a presigned download link when the archive was uploaded to storage.
	URL string
}

type exportDocument struct {
	ExportedAt time.Time        `json:"exportedAt"`
	Workouts   []*model.Workout `json:"workouts"`
}

type ExportService struct {
	workoutRepo repository.WorkoutRepository
	storage     storage.Storage
	now         func() time.Time
}

// NewExportService accepts nil storage; exports are then returned inline only.
func NewExportService(workoutRepo repository.WorkoutRepository, storage storage.Storage, now func() time.Time) *ExportService {
	if now == nil {
		now = time.Now
	}
	return &ExportService{
		workoutRepo: workoutRepo,
		storage:     storage,
		now:         now,
	}
}

func (s *ExportService) Export(ctx context.Context, userID string) (*WorkoutExport, error) {
	err := requireUser(userID)
	if err != nil {
		return nil, err
	}

	workouts, err := s.workoutRepo.ListAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}

	now := s.now()
	data, err := json.MarshalIndent(exportDocument{ExportedAt: now, Workouts: workouts}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	export := &WorkoutExport{
		Filename: fmt.Sprintf("workouts-%s.json", now.Format("20060102-150405")),
		Data:     data,
	}

	if s.storage == nil {
		return export, nil
	}

	key := fmt.Sprintf("exports/%s/%s", userID, export.Filename)
	err = s.storage.Save(ctx, key, "application/json", data)
	if err != nil {
		return nil, fmt.Errorf("failed to store export: %w", err)
	}

	export.URL, err = s.storage.PresignedURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign export link: %w", err)
	}

	slog.Info("workout export stored", "user_id", userID, "key", key, "workouts", len(workouts))
	return export, nil
}
