package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/syndic/internal/config"
	"github.com/terraincognita07/syndic/internal/db"
	"github.com/terraincognita07/syndic/internal/localstore"
	"github.com/terraincognita07/syndic/internal/services"
	"gorm.io/gorm"
)

// Runtime is the wired persistence stack shared by the server and the
// one-shot commands.
type Runtime struct {
	Config     config.Config
	Logger     logrus.FieldLogger
	Database   *gorm.DB
	Warnings   *services.WarningLog
	Store      *localstore.Store
	Reconciler *services.Reconciler
}

// RuntimeOpener builds a loaded Runtime on demand, so commands that fail
// flag validation never touch the database.
type RuntimeOpener func() (*Runtime, error)

func OpenRuntime(cfg config.Config, logger logrus.FieldLogger) (*Runtime, error) {
	database, err := db.Open(cfg.DBDriver, cfg.DatabaseTarget())
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	warnings := services.NewWarningLog(0, logger)
	adapter := localstore.NewAdapter(db.NewKVStore(database, cfg.QuotaBytes), cfg.Namespace, warnings, logger)
	store := localstore.NewStore(adapter, logger)
	reconciler := services.NewReconciler(store, services.WithLogger(logger))

	runtime := &Runtime{
		Config:     cfg,
		Logger:     logger,
		Database:   database,
		Warnings:   warnings,
		Store:      store,
		Reconciler: reconciler,
	}
	if err := reconciler.Load(); err != nil {
		runtime.Close()
		return nil, fmt.Errorf("load application state: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"driver":    cfg.DBDriver,
		"namespace": cfg.Namespace,
		"quota":     cfg.QuotaBytes,
	}).Debug("storage opened")
	return runtime, nil
}

func (runtime *Runtime) Close() {
	if runtime == nil || runtime.Database == nil {
		return
	}
	if sqlDB, err := runtime.Database.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
