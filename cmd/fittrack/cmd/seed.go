package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fittrack/fittrack/internal/dateutil"
	"github.com/fittrack/fittrack/internal/db"
	"github.com/fittrack/fittrack/internal/repository"
	"github.com/fittrack/fittrack/internal/service"
)

func SeedCmd() *cobra.Command {
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Insert reference data",
	}

	seed.AddCommand(&cobra.Command{
		Use:   "exercises",
		Short: "Add the built-in exercise library; existing names are skipped",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := open()
			if err != nil {
				return err
			}
			defer conn.Close()

			err = db.RunMigrations(conn.DB, cfg.DBDriver)
			if err != nil {
				return err
			}

			exercises := service.NewExerciseService(repository.NewExerciseRepository(conn), cfg.ExerciseCacheTTL, nil)
			added, err := exercises.Seed(cmd.Context(), service.DefaultExercises)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "added %d of %d exercises\n", added, len(service.DefaultExercises))
			return nil
		},
	})

	var email, date string
	demo := &cobra.Command{
		Use:   "demo",
		Short: "Add a sample workout with exercises and sets to an existing account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now()
			if date != "" {
				parsed, err := dateutil.ParseURLDate(date)
				if err != nil {
					return err
				}
				day = parsed
			}

			_, conn, err := open()
			if err != nil {
				return err
			}
			defer conn.Close()

			user, err := repository.NewUserRepository(conn).ByEmail(cmd.Context(), strings.ToLower(strings.TrimSpace(email)))
			if err != nil {
				return fmt.Errorf("failed to find user %q: %w", email, err)
			}

			svc := service.NewDemoService(repository.NewExerciseRepository(conn), repository.NewTransactor(conn))
			workout, err := svc.SeedWorkout(cmd.Context(), user.ID, day)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created workout %s on %s\n", workout.ID, dateutil.FormatURLDate(workout.StartedAt))
			return nil
		},
	}
	demo.Flags().StringVar(&email, "email", "", "account email")
	demo.Flags().StringVar(&date, "date", "", "workout date (YYYY-MM-DD), default today")
	_ = demo.MarkFlagRequired("email")
	seed.AddCommand(demo)

	return seed
}
