package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/auth"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/config"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/event"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/ledger"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/logger"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/repository"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/router"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/scheduler"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/store"
)

func main() {
	cfg := config.Load()

	level := logger.ParseLogLevel(cfg.Log.Level)
	if cfg.Log.Output == "file" {
		l, err := logger.NewWithRotation(level, logger.RotationConfig{Filename: cfg.Log.File})
		if err != nil {
			logger.Fatal("failed to initialize file logger: %v", err)
		}
		logger.SetDefaultLogger(l)
	} else if l, err := logger.New(level); err == nil {
		logger.SetDefaultLogger(l)
	}
	defer logger.Sync()

	db, err := repository.Init(cfg.Database)
	if err != nil {
		logger.Fatal("failed to initialize database: %v", err)
	}

	if cfg.Auth.JWTSecret == "" {
		logger.Fatal("auth.jwt_secret must be configured")
	}
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)

	notifier, err := event.NewNotifier(cfg.Ledger.EventWorkers)
	if err != nil {
		logger.Fatal("failed to initialize event notifier: %v", err)
	}
	defer notifier.Close()

	notifier.Subscribe(func(ev event.FundingChanged) {
		logger.Debug("funding changed: project=%d raised=%.2f backers=%d",
			ev.ProjectID, ev.Raised, ev.BackerCount)
	})

	projectStore := store.NewProjectStore(db)
	pledgeLedger := ledger.New(projectStore, notifier, ledger.Options{
		EnforceCampaignClose: cfg.Ledger.EnforceCampaignClose,
		EnforceRewardMinimum: cfg.Ledger.EnforceRewardMinimum,
	})

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := router.Setup(db, projectStore, pledgeLedger, jwtManager)

	manager, err := scheduler.Start(db, cfg)
	if err != nil {
		logger.Fatal("failed to start scheduler: %v", err)
	}
	defer manager.Stop()

	logger.Info("server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("failed to start server: %v", err)
	}
}
