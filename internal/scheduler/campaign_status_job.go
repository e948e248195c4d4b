package scheduler

import (
	"time"

	"github.com/gmallikarjunreddy/fundaroo-collective/internal/config"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/logger"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/model"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// CampaignStatusJob closes campaigns whose end date has passed, marking
// them successful or failed depending on whether the goal was reached.
type CampaignStatusJob struct {
	db     *gorm.DB
	config *config.Config
}

func NewCampaignStatusJob(db *gorm.DB, cfg *config.Config) *CampaignStatusJob {
	return &CampaignStatusJob{
		db:     db,
		config: cfg,
	}
}

func (j *CampaignStatusJob) GetName() string {
	return "campaign_status_updater"
}

func (j *CampaignStatusJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

func (j *CampaignStatusJob) Execute() {
	now := time.Now()

	var projects []model.Project
	err := j.db.
		Where("status = ? AND end_date < ?", model.ProjectStatusActive, now).
		Find(&projects).Error
	if err != nil {
		logger.Error("failed to fetch ended campaigns: %v", err)
		return
	}

	updated := 0
	for _, project := range projects {
		newStatus := model.ProjectStatusFailed
		if project.Raised >= project.Goal {
			newStatus = model.ProjectStatusSuccessful
		}

		if err := j.db.Model(&project).Update("status", newStatus).Error; err != nil {
			logger.Error("failed to update project %d status: %v", project.ID, err)
			continue
		}

		logger.Info("campaign %d closed as %s (raised %.2f of %.2f)",
			project.ID, newStatus, project.Raised, project.Goal)
		updated++
	}

	if updated > 0 {
		logger.Info("campaign status update completed, closed %d campaigns", updated)
	}
}
