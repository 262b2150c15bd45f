package inngest

import (
	"context"
	"testing"
	"time"

	"github.com/mauv0809/padel-connect/internal/config"
	"github.com/mauv0809/padel-connect/internal/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLifecycle struct{}

func (stubLifecycle) ExpireStaleRequests(context.Context) (int, error) { return 2, nil }

func (stubLifecycle) RemoveOrphanMatches(context.Context, time.Duration) (int, error) { return 0, nil }

func TestNew_RegistersAndServes(t *testing.T) {
	provider, err := NewProvider(config.InngestConfig{
		AppID:      "padel-connect-test",
		SigningKey: "signkey-test-0123456789abcdef",
		Dev:        true,
	})
	require.NoError(t, err)

	c, err := New(provider, reconcile.New(stubLifecycle{}, time.Minute))
	require.NoError(t, err)
	assert.NotNil(t, c.Serve())
}
