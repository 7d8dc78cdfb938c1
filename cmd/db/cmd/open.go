package cmd

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/microblog/internal/config"
	"github.com/templui/microblog/internal/db"
)

func open(cfg *config.Config) (*sqlx.DB, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// openMigrated opens the database and brings the schema up to date.
func openMigrated(cfg *config.Config) (*sqlx.DB, error) {
	database, err := open(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(database.DB, cfg.DBDriver); err != nil {
		_ = database.Close()
		return nil, err
	}
	return database, nil
}
