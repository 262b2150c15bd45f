package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLifecycle struct {
	mu         sync.Mutex
	expired    int
	expireErr  error
	orphans    int
	orphanErr  error
	graces     []time.Duration
	expireRuns int
}

func (f *fakeLifecycle) ExpireStaleRequests(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expireRuns++
	return f.expired, f.expireErr
}

func (f *fakeLifecycle) RemoveOrphanMatches(_ context.Context, grace time.Duration) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.graces = append(f.graces, grace)
	return f.orphans, f.orphanErr
}

func (f *fakeLifecycle) runs() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.expireRuns
}

func TestRun(t *testing.T) {
	lc := &fakeLifecycle{expired: 3, orphans: 1}
	r := New(lc, 5*time.Minute)

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.RequestsExpired)
	assert.Equal(t, 1, report.OrphansRemoved)
	assert.Equal(t, []time.Duration{5 * time.Minute}, lc.graces)
}

func TestRun_DefaultGrace(t *testing.T) {
	lc := &fakeLifecycle{}
	_, err := New(lc, 0).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{DefaultOrphanGrace}, lc.graces)
}

func TestRun_ExpireFailureStillRepairsOrphans(t *testing.T) {
	boom := errors.New("db locked")
	lc := &fakeLifecycle{expireErr: boom, orphans: 2}

	report, err := New(lc, time.Minute).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, report.OrphansRemoved)
	assert.Len(t, lc.graces, 1)
}

func TestScheduler_RunsReconciler(t *testing.T) {
	lc := &fakeLifecycle{}
	s, err := NewScheduler(New(lc, time.Minute), 20*time.Millisecond)
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool { return lc.runs() >= 2 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Stop())
}
