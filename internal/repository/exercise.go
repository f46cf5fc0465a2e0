package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fittrack/fittrack/internal/model"
)

var ErrExerciseNotFound = errors.New("exercise not found")

type ExerciseRepository interface {
	ByID(ctx context.Context, id string) (*model.Exercise, error)
	ByCategory(ctx context.Context, category model.ExerciseCategory) ([]*model.Exercise, error)
	All(ctx context.Context) ([]*model.Exercise, error)
	Create(ctx context.Context, exercise *model.Exercise) error
	ByName(ctx context.Context, name string) (*model.Exercise, error)
}

type exerciseRepository struct {
	db DBTX
}

func NewExerciseRepository(db DBTX) ExerciseRepository {
	return &exerciseRepository{db: db}
}

func (r *exerciseRepository) ByID(ctx context.Context, id string) (*model.Exercise, error) {
	var exercise model.Exercise
	err := r.db.GetContext(ctx, &exercise, `SELECT * FROM exercises WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExerciseNotFound
	}
	if err != nil {
		return nil, err
	}

	return &exercise, nil
}

func (r *exerciseRepository) ByName(ctx context.Context, name string) (*model.Exercise, error) {
	var exercise model.Exercise
	err := r.db.GetContext(ctx, &exercise, `SELECT * FROM exercises WHERE name = $1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExerciseNotFound
	}
	if err != nil {
		return nil, err
	}

	return &exercise, nil
}

// ByCategory returns the exercises of one category in insertion order.
func (r *exerciseRepository) ByCategory(ctx context.Context, category model.ExerciseCategory) ([]*model.Exercise, error) {
	exercises := []*model.Exercise{}
	err := r.db.SelectContext(ctx, &exercises, `
		SELECT * FROM exercises
		WHERE category = $1
		ORDER BY created_at ASC, name ASC
	`, category)
	if err != nil {
		return nil, err
	}

	return exercises, nil
}

func (r *exerciseRepository) All(ctx context.Context) ([]*model.Exercise, error) {
	exercises := []*model.Exercise{}
	err := r.db.SelectContext(ctx, &exercises, `SELECT * FROM exercises ORDER BY created_at ASC, name ASC`)
	if err != nil {
		return nil, err
	}

	return exercises, nil
}

func (r *exerciseRepository) Create(ctx context.Context, exercise *model.Exercise) error {
	if exercise.ID == "" {
		exercise.ID = uuid.New().String()
	}
	if exercise.CreatedAt.IsZero() {
		exercise.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO exercises (id, name, category, description, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, exercise.ID, exercise.Name, exercise.Category, exercise.Description, exercise.CreatedBy, exercise.CreatedAt)

	return err
}
