package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStartLogsAppOpen(t *testing.T) {
	h, client := newTestHelper(false)
	session := h.NewSession()

	require.NoError(t, session.Start(context.Background()))

	captures := client.captures()
	require.Len(t, captures, 1)
	assert.Equal(t, EventAppOpen, captures[0].Event)
	assert.Regexp(t, `^[0-9a-hjkmnp-tv-z]{26}$`, captures[0].Properties[ParamSessionID])
	assert.Equal(t, session.ID(), captures[0].Properties[ParamSessionID])
}

func TestSessionEndLogsAppCloseWithEngagementTime(t *testing.T) {
	h, client := newTestHelper(false)
	session := h.NewSession()
	ctx := context.Background()

	require.NoError(t, session.Start(ctx))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, session.End(ctx))

	captures := client.captures()
	require.Len(t, captures, 2)
	assert.Equal(t, EventAppClose, captures[1].Event)
	assert.Equal(t, session.ID(), captures[1].Properties[ParamSessionID])

	engagement, ok := captures[1].Properties[ParamEngagementTime].(float64)
	require.True(t, ok)
	assert.Greater(t, engagement, 0.0)
	assert.Less(t, engagement, 5.0)
}

func TestSessionStartIsIdempotent(t *testing.T) {
	h, client := newTestHelper(false)
	session := h.NewSession()
	ctx := context.Background()

	require.NoError(t, session.Start(ctx))
	require.NoError(t, session.Start(ctx))
	assert.Equal(t, 1, client.len())
}

func TestSessionEndWithoutStartIsNoop(t *testing.T) {
	h, client := newTestHelper(false)
	session := h.NewSession()

	require.NoError(t, session.End(context.Background()))
	assert.Zero(t, client.len())
}

func TestSessionRestartMintsNewID(t *testing.T) {
	h, _ := newTestHelper(false)
	session := h.NewSession()
	ctx := context.Background()

	require.NoError(t, session.Start(ctx))
	first := session.ID()
	require.NoError(t, session.End(ctx))
	require.NoError(t, session.Start(ctx))

	assert.NotEqual(t, first, session.ID())
}
