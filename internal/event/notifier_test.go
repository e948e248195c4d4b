package event

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNotifierFanOut(t *testing.T) {
	n, err := NewNotifier(2)
	require.NoError(t, err)
	defer n.Close()

	var wg sync.WaitGroup
	wg.Add(3)

	var mu sync.Mutex
	var got []FundingChanged
	for i := 0; i < 3; i++ {
		n.Subscribe(func(ev FundingChanged) {
			mu.Lock()
			got = append(got, ev)
			mu.Unlock()
			wg.Done()
		})
	}

	n.Publish(FundingChanged{ProjectID: 7, Raised: 1200, BackerCount: 3, OccurredAt: time.Now()})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("subscribers did not all receive the event")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 3)
	for _, ev := range got {
		require.Equal(t, uint(7), ev.ProjectID)
		require.Equal(t, float64(1200), ev.Raised)
	}
}
