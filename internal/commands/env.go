package commands

import (
	"fmt"
	"log/slog"

	"finbooks/internal/config"
	"finbooks/internal/database"
	"finbooks/internal/filestore"
	"finbooks/internal/logger"
)

// env bundles the shared runtime pieces commands need: config, the record
// store, and the upload store.
type env struct {
	cfg   *config.Config
	db    *database.DB
	files *filestore.Store
	log   *slog.Logger
}

func openEnv() (*env, error) {
	logger.Init()
	log := logger.Default()

	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}

	files, err := filestore.New(cfg.Database.UploadsDir)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &env{cfg: cfg, db: db, files: files, log: log}, nil
}

func (e *env) close() {
	e.db.Close()
}
