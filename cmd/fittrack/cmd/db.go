package cmd

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fittrack/fittrack/internal/config"
	"github.com/fittrack/fittrack/internal/db"
	"github.com/fittrack/fittrack/internal/logger"
)

// open loads the environment config and connects to its database.
func open() (*config.Config, *sqlx.DB, error) {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)

	conn, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return cfg, conn, nil
}
