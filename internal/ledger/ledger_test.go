package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gmallikarjunreddy/fundaroo-collective/internal/event"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/funding"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/model"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/repository"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const (
	creatorID = uint(1)
	backerID  = uint(2)
)

func newTestLedger(t *testing.T, opts Options) (*Ledger, *store.ProjectStore) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	db, err := repository.InitSQLite(dsn)
	require.NoError(t, err)

	projectStore := store.NewProjectStore(db)
	return New(projectStore, nil, opts), projectStore
}

func createProject(t *testing.T, s *store.ProjectStore, goal float64) *model.Project {
	t.Helper()
	p := &model.Project{
		Title:       "Handmade Board Game",
		Description: "A strategy game about trade routes",
		Category:    "games",
		Goal:        goal,
		EndDate:     time.Now().AddDate(0, 1, 0),
		CreatorID:   creatorID,
	}
	require.NoError(t, s.Create(context.Background(), p))
	return p
}

func TestPledgeSuccess(t *testing.T) {
	l, s := newTestLedger(t, Options{})
	p := createProject(t, s, 50000)

	got, err := l.Pledge(context.Background(), p.ID, backerID, 42000, "")
	require.NoError(t, err)
	require.Equal(t, float64(42000), got.Raised)
	require.Len(t, got.Backers, 1)
	require.Equal(t, backerID, got.Backers[0].UserID)
	require.Equal(t, float64(42000), got.Backers[0].Amount)
	require.Equal(t, 84, funding.PercentFunded(got.Raised, got.Goal))
}

func TestPledgeInvalidAmount(t *testing.T) {
	l, s := newTestLedger(t, Options{})
	p := createProject(t, s, 50000)

	for _, amount := range []float64{0, -5, -42000} {
		_, err := l.Pledge(context.Background(), p.ID, backerID, amount, "")
		require.ErrorIs(t, err, ErrInvalidAmount)
	}

	assertUnchanged(t, s, p.ID)
}

func TestPledgeProjectNotFound(t *testing.T) {
	l, _ := newTestLedger(t, Options{})

	_, err := l.Pledge(context.Background(), 999, backerID, 100, "")
	require.ErrorIs(t, err, store.ErrProjectNotFound)
}

func TestPledgeSelfBackingNotAllowed(t *testing.T) {
	l, s := newTestLedger(t, Options{})
	p := createProject(t, s, 50000)

	_, err := l.Pledge(context.Background(), p.ID, creatorID, 100, "")
	require.ErrorIs(t, err, ErrSelfBackingNotAllowed)

	assertUnchanged(t, s, p.ID)
}

func TestPledgeValidationOrder(t *testing.T) {
	l, s := newTestLedger(t, Options{})
	p := createProject(t, s, 50000)

	// An invalid amount wins over every later check, even self-backing
	// on a real project.
	_, err := l.Pledge(context.Background(), p.ID, creatorID, -1, "")
	require.ErrorIs(t, err, ErrInvalidAmount)

	// An unknown project wins over self-backing.
	_, err = l.Pledge(context.Background(), 999, creatorID, 100, "")
	require.ErrorIs(t, err, store.ErrProjectNotFound)
}

func TestPledgeCampaignClosed(t *testing.T) {
	l, s := newTestLedger(t, Options{EnforceCampaignClose: true})
	p := createProject(t, s, 50000)

	l.now = func() time.Time { return p.EndDate.Add(time.Hour) }

	_, err := l.Pledge(context.Background(), p.ID, backerID, 100, "")
	require.ErrorIs(t, err, ErrCampaignClosed)

	assertUnchanged(t, s, p.ID)
}

func TestPledgeCampaignCloseDisabled(t *testing.T) {
	l, s := newTestLedger(t, Options{EnforceCampaignClose: false})
	p := createProject(t, s, 50000)

	l.now = func() time.Time { return p.EndDate.Add(time.Hour) }

	got, err := l.Pledge(context.Background(), p.ID, backerID, 100, "")
	require.NoError(t, err)
	require.Equal(t, float64(100), got.Raised)
}

func TestPledgeRewardMinimum(t *testing.T) {
	l, s := newTestLedger(t, Options{EnforceRewardMinimum: true})
	p := &model.Project{
		Title:       "Photo Book",
		Description: "Street photography collection",
		Category:    "photography",
		Goal:        10000,
		EndDate:     time.Now().AddDate(0, 1, 0),
		CreatorID:   creatorID,
		Rewards: []model.Reward{
			{Title: "Print", Amount: 25},
			{Title: "Signed Copy", Amount: 60},
		},
	}
	require.NoError(t, s.Create(context.Background(), p))

	_, err := l.Pledge(context.Background(), p.ID, backerID, 10, "")
	require.ErrorIs(t, err, ErrBelowRewardMinimum)

	got, err := l.Pledge(context.Background(), p.ID, backerID, 25, "")
	require.NoError(t, err)
	require.Equal(t, float64(25), got.Raised)
}

func TestPledgeIdempotentRetry(t *testing.T) {
	l, s := newTestLedger(t, Options{})
	p := createProject(t, s, 50000)

	key := uuid.New().String()

	first, err := l.Pledge(context.Background(), p.ID, backerID, 1000, key)
	require.NoError(t, err)
	require.Equal(t, float64(1000), first.Raised)

	retry, err := l.Pledge(context.Background(), p.ID, backerID, 1000, key)
	require.NoError(t, err)
	require.Equal(t, float64(1000), retry.Raised)
	require.Len(t, retry.Backers, 1)
}

func TestPledgeRaisedMatchesSum(t *testing.T) {
	l, s := newTestLedger(t, Options{})
	p := createProject(t, s, 100000)

	amounts := []float64{250, 1000, 42.5, 9000, 17.25}
	sum := 0.0
	for i, amount := range amounts {
		_, err := l.Pledge(context.Background(), p.ID, backerID+uint(i), amount, "")
		require.NoError(t, err)
		sum += amount
	}

	got, err := s.Get(context.Background(), p.ID)
	require.NoError(t, err)
	require.InDelta(t, sum, got.Raised, 1e-9)
	require.Len(t, got.Backers, len(amounts))
}

func TestConcurrentPledgesNoLostUpdates(t *testing.T) {
	l, s := newTestLedger(t, Options{})

	const n = 25
	const amount = 100.0
	p := createProject(t, s, n*amount)

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(backer uint) {
			defer wg.Done()
			_, err := l.Pledge(context.Background(), p.ID, backer, amount, "")
			errs <- err
		}(backerID + uint(i))
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	got, err := s.Get(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, float64(n*amount), got.Raised)
	require.Len(t, got.Backers, n)
}

func TestPledgePublishesFundingChanged(t *testing.T) {
	notifier, err := event.NewNotifier(2)
	require.NoError(t, err)
	defer notifier.Close()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	db, err := repository.InitSQLite(dsn)
	require.NoError(t, err)

	s := store.NewProjectStore(db)
	l := New(s, notifier, Options{})
	p := createProject(t, s, 50000)

	received := make(chan event.FundingChanged, 1)
	notifier.Subscribe(func(ev event.FundingChanged) {
		received <- ev
	})

	_, err = l.Pledge(context.Background(), p.ID, backerID, 500, "")
	require.NoError(t, err)

	select {
	case ev := <-received:
		require.Equal(t, p.ID, ev.ProjectID)
		require.Equal(t, float64(500), ev.Raised)
		require.Equal(t, 1, ev.BackerCount)
	case <-time.After(2 * time.Second):
		t.Fatal("funding changed event was not delivered")
	}
}

// assertUnchanged verifies a rejected pledge left no trace.
func assertUnchanged(t *testing.T, s *store.ProjectStore, id uint) {
	t.Helper()
	got, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	require.Zero(t, got.Raised)
	require.Empty(t, got.Backers)
}
