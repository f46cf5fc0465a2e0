package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fittrack/fittrack/internal/config"
	"github.com/fittrack/fittrack/internal/db"
	"github.com/fittrack/fittrack/internal/repository"
	"github.com/fittrack/fittrack/internal/service"
	"github.com/fittrack/fittrack/internal/storage"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	AuthService     *service.AuthService
	UserService     *service.UserService
	ProfileService  *service.ProfileService
	EmailService    *service.EmailService
	WorkoutService  *service.WorkoutService
	StatsService    *service.StatsService
	ExerciseService *service.ExerciseService
	ExportService   *service.ExportService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	workoutRepository := repository.NewWorkoutRepository(database)
	exerciseRepository := repository.NewExerciseRepository(database)

	// Storage is nil when no bucket is configured; exports then stream inline.
	exportStorage, err := storage.New(ctx, cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		profileRepository,
		tokenRepository,
		emailService,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.AllowSignup,
		cfg.JWTExpiry,
		cfg.TokenMagicLinkExpiry,
		cfg.TokenEmailChangeExpiry,
	)

	return &App{
		Cfg:             cfg,
		DB:              database,
		AuthService:     authService,
		UserService:     service.NewUserService(userRepository, profileRepository, emailService, repository.NewTransactor(database)),
		ProfileService:  service.NewProfileService(profileRepository),
		EmailService:    emailService,
		WorkoutService:  service.NewWorkoutService(workoutRepository, nil),
		StatsService:    service.NewStatsService(workoutRepository),
		ExerciseService: service.NewExerciseService(exerciseRepository, cfg.ExerciseCacheTTL, nil),
		ExportService:   service.NewExportService(workoutRepository, exportStorage, nil),
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
