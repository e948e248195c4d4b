// Package ledger is the validated entry point for backing a project. It
// is the only caller of the store's ApplyBacking and therefore the only
// place a project's raised total and backer list can change.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/gmallikarjunreddy/fundaroo-collective/internal/event"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/logger"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/model"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/store"
)

var (
	// ErrInvalidAmount reports a non-positive pledge amount.
	ErrInvalidAmount = errors.New("pledge amount must be greater than zero")
	// ErrSelfBackingNotAllowed reports a creator pledging to their own
	// project.
	ErrSelfBackingNotAllowed = errors.New("creators cannot back their own project")
	// ErrCampaignClosed reports a pledge arriving after the campaign
	// end date while close enforcement is on.
	ErrCampaignClosed = errors.New("campaign has ended")
	// ErrBelowRewardMinimum reports a pledge under the cheapest reward
	// tier while reward-minimum enforcement is on.
	ErrBelowRewardMinimum = errors.New("pledge amount is below the minimum reward tier")
)

// Options holds the ledger's policy switches.
type Options struct {
	// EnforceCampaignClose rejects pledges past the project end date.
	EnforceCampaignClose bool
	// EnforceRewardMinimum rejects pledges under the cheapest reward
	// tier on projects that define tiers.
	EnforceRewardMinimum bool
}

// Ledger validates and applies pledges.
type Ledger struct {
	store    *store.ProjectStore
	notifier *event.Notifier
	opts     Options
	now      func() time.Time
}

func New(s *store.ProjectStore, notifier *event.Notifier, opts Options) *Ledger {
	return &Ledger{
		store:    s,
		notifier: notifier,
		opts:     opts,
		now:      time.Now,
	}
}

// Pledge validates a backing request and, if it passes, atomically
// applies it and returns the updated project snapshot. Validation
// failures never mutate anything. idemKey may be empty; when set, a
// retry carrying the same key returns the already-applied result
// instead of double-charging.
func (l *Ledger) Pledge(ctx context.Context, projectID, backerID uint, amount float64, idemKey string) (*model.Project, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	project, err := l.store.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if backerID == project.CreatorID {
		return nil, ErrSelfBackingNotAllowed
	}

	if l.opts.EnforceCampaignClose && l.now().After(project.EndDate) {
		return nil, ErrCampaignClosed
	}

	if l.opts.EnforceRewardMinimum {
		if min, ok := minRewardAmount(project.Rewards); ok && amount < min {
			return nil, ErrBelowRewardMinimum
		}
	}

	backing := model.Backing{
		UserID: backerID,
		Amount: amount,
	}

	updated, err := l.store.ApplyBacking(ctx, projectID, backing, idemKey)
	if err != nil {
		return nil, err
	}

	logger.Info("pledge applied: project=%d backer=%d amount=%.2f raised=%.2f",
		projectID, backerID, amount, updated.Raised)

	if l.notifier != nil {
		l.notifier.Publish(event.FundingChanged{
			ProjectID:   updated.ID,
			Raised:      updated.Raised,
			BackerCount: len(updated.Backers),
			OccurredAt:  l.now(),
		})
	}

	return updated, nil
}

func minRewardAmount(rewards []model.Reward) (float64, bool) {
	found := false
	min := 0.0
	for _, r := range rewards {
		if r.Amount <= 0 {
			continue
		}
		if !found || r.Amount < min {
			min = r.Amount
			found = true
		}
	}
	return min, found
}
