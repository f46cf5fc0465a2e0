package db

import "embed"

// migrationsFS holds one goose migration set per dialect.
//
//go:embed migrations
var migrationsFS embed.FS
