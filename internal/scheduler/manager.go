package scheduler

import (
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/config"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/logger"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// Manager owns the background job scheduler.
type Manager struct {
	scheduler gocron.Scheduler
	db        *gorm.DB
	config    *config.Config
}

func NewManager(db *gorm.DB, cfg *config.Config) (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &Manager{
		scheduler: s,
		db:        db,
		config:    cfg,
	}, nil
}

// Start creates a manager, registers all jobs and starts the scheduler.
func Start(db *gorm.DB, cfg *config.Config) (*Manager, error) {
	manager, err := NewManager(db, cfg)
	if err != nil {
		return nil, err
	}

	manager.RegisterJobs()
	manager.scheduler.Start()

	logger.Info("scheduler started")
	return manager, nil
}

// RegisterJobs registers every background job.
func (m *Manager) RegisterJobs() {
	m.registerJob(NewCampaignStatusJob(m.db, m.config))
}

type job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

func (m *Manager) registerJob(j job) {
	_, err := m.scheduler.NewJob(
		j.GetSchedule(),
		gocron.NewTask(j.Execute),
		gocron.WithName(j.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logger.Error("failed to register job %s: %v", j.GetName(), err)
	}
}

// Stop shuts the scheduler down.
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("failed to shutdown scheduler: %v", err)
	}
	logger.Info("scheduler stopped")
}
