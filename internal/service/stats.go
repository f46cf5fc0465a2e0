package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/repository"
)

type StatsService struct {
	workoutRepo repository.WorkoutRepository
}

func NewStatsService(workoutRepo repository.WorkoutRepository) *StatsService {
	return &StatsService{
		workoutRepo: workoutRepo,
	}
}

// UserStats aggregates over [start, end] when both bounds are set and over all
// of the user's workouts otherwise. A missing duration counts as 0 minutes, also
// in the average. No workouts yields zero stats, not an error.
func (s *StatsService) UserStats(ctx context.Context, userID string, start, end *time.Time) (*model.WorkoutStats, error) {
	err := requireUser(userID)
	if err != nil {
		return nil, err
	}

	var stats *model.WorkoutStats
	if start != nil && end != nil {
		stats, err = s.workoutRepo.StatsBetween(ctx, userID, *start, *end)
	} else {
		stats, err = s.workoutRepo.Stats(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to compute workout stats: %w", err)
	}

	return stats, nil
}
