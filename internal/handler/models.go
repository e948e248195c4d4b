package handler

import (
	"time"

	"github.com/gmallikarjunreddy/fundaroo-collective/internal/funding"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/model"
)

// ProjectView is a project plus its derived funding metrics. The
// metrics are computed per response and never persisted.
type ProjectView struct {
	model.Project
	PercentFunded int `json:"percent_funded"`
	DaysLeft      int `json:"days_left"`
}

func toProjectView(p *model.Project) ProjectView {
	now := time.Now()
	return ProjectView{
		Project:       *p,
		PercentFunded: funding.PercentFunded(p.Raised, p.Goal),
		DaysLeft:      funding.DaysLeft(p.EndDate, now),
	}
}

func toProjectViewList(projects []model.Project) []ProjectView {
	views := make([]ProjectView, len(projects))
	for i := range projects {
		views[i] = toProjectView(&projects[i])
	}
	return views
}

// Request payloads

type createProjectReq struct {
	Title           string         `json:"title" binding:"required"`
	Description     string         `json:"description" binding:"required"`
	FullDescription string         `json:"full_description"`
	Category        string         `json:"category" binding:"required"`
	ImageSrc        string         `json:"image_src"`
	Goal            float64        `json:"goal" binding:"required,gt=0"`
	EndDate         time.Time      `json:"end_date" binding:"required"`
	Rewards         []model.Reward `json:"rewards"`
}

type updateProjectReq struct {
	Title           *string        `json:"title"`
	Description     *string        `json:"description"`
	FullDescription *string        `json:"full_description"`
	Category        *string        `json:"category"`
	ImageSrc        *string        `json:"image_src"`
	Rewards         []model.Reward `json:"rewards"`
}

type backProjectReq struct {
	Amount         float64 `json:"amount"`
	IdempotencyKey string  `json:"idempotency_key"`
}

type registerReq struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateProfileReq struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
	Website  *string `json:"website"`
	Avatar   *string `json:"avatar"`
}
