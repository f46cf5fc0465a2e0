package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// DBTX is the query surface shared by *sqlx.DB and *sqlx.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// Repositories are bound to one transaction for the duration of Transactor.WithTx.
type Repositories struct {
	Users            UserRepository
	Profiles         ProfileRepository
	Workouts         WorkoutRepository
	WorkoutExercises WorkoutExerciseRepository
}

type Transactor struct {
	db *sqlx.DB
}

func NewTransactor(db *sqlx.DB) *Transactor {
	return &Transactor{db: db}
}

// WithTx commits when fn returns nil and rolls back otherwise.
// fn must only use the repositories it is given; SQLite runs on a single
// connection, so the outer pool would block until the transaction ends.
func (t *Transactor) WithTx(ctx context.Context, fn func(repos Repositories) error) error {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	err = fn(Repositories{
		Users:            NewUserRepository(tx),
		Profiles:         NewProfileRepository(tx),
		Workouts:         NewWorkoutRepository(tx),
		WorkoutExercises: NewWorkoutExerciseRepository(tx),
	})
	if err != nil {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil {
			slog.Error("failed to roll back transaction", "error", rollbackErr)
		}
		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
