package db

import "embed"

// migrationsFS holds one goose migration directory per dialect.
//
//go:embed migrations
var migrationsFS embed.FS
