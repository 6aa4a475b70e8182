package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pilotpro/internal/entity"
)

// withClock pins the session service's notion of now so expiry can be
// exercised without sleeping.
func withClock(svc ISessionService, now *time.Time) {
	svc.(*sessionService).now = func() time.Time { return *now }
}

func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	token, err := env.sessions.Create(ctx, "alice", entity.UserRoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	valid, role, err := env.sessions.Validate(ctx, token)
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, entity.UserRoleUser, role)

	require.NoError(t, env.sessions.Terminate(ctx, token))

	valid, _, err = env.sessions.Validate(ctx, token)
	require.NoError(t, err)
	assert.False(t, valid)

	// Terminating again is a no-op.
	assert.NoError(t, env.sessions.Terminate(ctx, token))
}

func TestSessionExpiryIsLazyAndFinal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	now := time.Now()
	withClock(env.sessions, &now)

	token, err := env.sessions.Create(ctx, "alice", entity.UserRoleUser)
	require.NoError(t, err)

	// One tick short of the TTL the session still validates.
	now = now.Add(testSessionTTL - time.Second)
	valid, _, err := env.sessions.Validate(ctx, token)
	require.NoError(t, err)
	assert.True(t, valid)

	now = now.Add(2 * time.Second)
	valid, _, err = env.sessions.Validate(ctx, token)
	require.NoError(t, err)
	assert.False(t, valid)

	// Expiry purged the row; winding the clock back must not revive it.
	now = now.Add(-testSessionTTL)
	valid, _, err = env.sessions.Validate(ctx, token)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestValidateRejectsGarbageTokens(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		valid, _, err := env.sessions.Validate(ctx, token)
		require.NoError(t, err)
		assert.False(t, valid)
	}
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	other := newTestEnv(t)
	other.sessions.(*sessionService).secret = []byte("different-secret")

	token, err := other.sessions.Create(ctx, "alice", entity.UserRoleUser)
	require.NoError(t, err)

	valid, _, err := env.sessions.Validate(ctx, token)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestLastSessionTime(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	withClock(env.sessions, &now)

	first, err := env.sessions.Create(ctx, "alice", entity.UserRoleUser)
	require.NoError(t, err)

	// The very first session has no predecessor.
	last, err := env.sessions.LastSessionTime(ctx, first)
	require.NoError(t, err)
	assert.Nil(t, last)

	firstCreated := now
	now = now.Add(5 * time.Minute)

	second, err := env.sessions.Create(ctx, "alice", entity.UserRoleUser)
	require.NoError(t, err)

	last, err = env.sessions.LastSessionTime(ctx, second)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.WithinDuration(t, firstCreated, *last, time.Second)

	// Another user's sessions never show up as history.
	bob, err := env.sessions.Create(ctx, "bob", entity.UserRoleUser)
	require.NoError(t, err)
	last, err = env.sessions.LastSessionTime(ctx, bob)
	require.NoError(t, err)
	assert.Nil(t, last)
}
