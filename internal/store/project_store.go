// Package store is the durable home of projects and their funding
// state. The only mutation path for a project's raised total and backer
// list is ApplyBacking; nothing else writes those columns.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gmallikarjunreddy/fundaroo-collective/internal/model"
	"gorm.io/gorm"
)

var (
	// ErrProjectNotFound reports an unknown or deleted project id.
	ErrProjectNotFound = errors.New("project not found")
	// ErrForbidden reports an ownership violation on update or delete.
	ErrForbidden = errors.New("caller is not the project creator")
	// ErrStorageUnavailable wraps transient persistence failures, the
	// only error class callers may retry.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

const featuredLimit = 5

// ProjectStore provides CRUD over projects plus the atomic
// apply-backing operation.
type ProjectStore struct {
	db    *gorm.DB
	locks keyedMutex
}

func NewProjectStore(db *gorm.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

// ProjectPatch enumerates the fields a creator may change after
// creation. Funding state (raised, backers), identity (id, creator) and
// the campaign deadline are not representable here.
type ProjectPatch struct {
	Title           *string
	Description     *string
	FullDescription *string
	Category        *string
	ImageSrc        *string
	Rewards         []model.Reward
}

// ListFilter narrows List results. Category is an exact match and
// SearchText a case-insensitive substring match on the title.
type ListFilter struct {
	Category   string
	SearchText string
}

// Get loads a project with its backers and rewards.
func (s *ProjectStore) Get(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	err := s.db.WithContext(ctx).
		Preload("Backers", func(db *gorm.DB) *gorm.DB {
			return db.Order("backing.id ASC")
		}).
		Preload("Rewards").
		First(&project, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return &project, nil
}

// Create persists a new project owned by its creator. Funding state
// always starts empty regardless of what the caller filled in.
func (s *ProjectStore) Create(ctx context.Context, project *model.Project) error {
	project.ID = 0
	project.Raised = 0
	project.Backers = nil
	project.Status = model.ProjectStatusActive

	if err := s.db.WithContext(ctx).Create(project).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// UpdateFields applies a patch to a project after checking the caller
// owns it.
func (s *ProjectStore) UpdateFields(ctx context.Context, id, callerID uint, patch ProjectPatch) (*model.Project, error) {
	var project model.Project
	if err := s.db.WithContext(ctx).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if project.CreatorID != callerID {
		return nil, ErrForbidden
	}

	updates := make(map[string]interface{})
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.FullDescription != nil {
		updates["full_description"] = *patch.FullDescription
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.ImageSrc != nil {
		updates["image_src"] = *patch.ImageSrc
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&project).Updates(updates).Error; err != nil {
				return err
			}
		}
		if patch.Rewards != nil {
			if err := tx.Where("project_id = ?", id).Delete(&model.Reward{}).Error; err != nil {
				return err
			}
			for i := range patch.Rewards {
				patch.Rewards[i].ID = 0
				patch.Rewards[i].ProjectID = id
			}
			if len(patch.Rewards) > 0 {
				if err := tx.Create(&patch.Rewards).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return s.Get(ctx, id)
}

// Delete removes a project after checking ownership. The backers' own
// backed-project records are left in place.
func (s *ProjectStore) Delete(ctx context.Context, id, callerID uint) error {
	var project model.Project
	if err := s.db.WithContext(ctx).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if project.CreatorID != callerID {
		return ErrForbidden
	}

	if err := s.db.WithContext(ctx).Delete(&project).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// ApplyBacking atomically appends a backing and adds its amount to the
// project's raised total. Concurrent calls against the same project are
// serialized by a per-project lock; different projects proceed in
// parallel. When idemKey is non-empty and a receipt for it already
// exists the backing is not applied again and the current snapshot is
// returned.
func (s *ProjectStore) ApplyBacking(ctx context.Context, id uint, backing model.Backing, idemKey string) (*model.Project, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	if idemKey != "" {
		var receipt model.PledgeReceipt
		err := s.db.WithContext(ctx).Where("idempotency_key = ?", idemKey).First(&receipt).Error
		if err == nil {
			return s.Get(ctx, id)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.First(&project, id).Error; err != nil {
			return err
		}

		backing.ID = 0
		backing.ProjectID = id
		if err := tx.Create(&backing).Error; err != nil {
			return err
		}

		if err := tx.Model(&project).
			Update("raised", gorm.Expr("raised + ?", backing.Amount)).Error; err != nil {
			return err
		}

		backed := model.BackedProject{
			UserID:    backing.UserID,
			ProjectID: id,
			Amount:    backing.Amount,
		}
		if err := tx.Create(&backed).Error; err != nil {
			return err
		}

		if idemKey != "" {
			receipt := model.PledgeReceipt{
				IdempotencyKey: idemKey,
				ProjectID:      id,
				UserID:         backing.UserID,
				Amount:         backing.Amount,
			}
			if err := tx.Create(&receipt).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return s.Get(ctx, id)
}

// List returns projects matching the filter, newest first.
func (s *ProjectStore) List(ctx context.Context, filter ListFilter) ([]model.Project, error) {
	q := s.db.WithContext(ctx).Model(&model.Project{}).Order("created_at DESC")

	if filter.Category != "" && filter.Category != "all" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.SearchText != "" {
		pattern := "%" + strings.ToLower(filter.SearchText) + "%"
		q = q.Where("LOWER(title) LIKE ?", pattern)
	}

	var projects []model.Project
	if err := q.Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return projects, nil
}

// Featured returns up to five projects flagged for the landing page.
func (s *ProjectStore) Featured(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := s.db.WithContext(ctx).
		Where("featured = ?", true).
		Limit(featuredLimit).
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return projects, nil
}

// CreatedBy returns the projects owned by a user, newest first.
func (s *ProjectStore) CreatedBy(ctx context.Context, userID uint) ([]model.Project, error) {
	var projects []model.Project
	err := s.db.WithContext(ctx).
		Where("creator_id = ?", userID).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return projects, nil
}

// keyedMutex hands out one mutex per project id so writers to the same
// project serialize without blocking writers to other projects.
type keyedMutex struct {
	mus sync.Map
}

func (k *keyedMutex) lock(id uint) func() {
	v, _ := k.mus.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
