package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pilotpro/internal/apperr"
	"pilotpro/internal/entity"
)

func TestChatLogAppendAndReadBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registerUser(t, env, "alice", "correct-horse", "Alice Liddell", "")

	for i := 1; i <= 5; i++ {
		direction := entity.DirectionSent
		if i%2 == 0 {
			direction = entity.DirectionReceived
		}
		require.NoError(t, env.chatLog.Append(ctx, "alice", direction, fmt.Sprintf("m%d", i)))
	}

	messages, err := env.chatLog.Messages(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, messages, 5)
	for i, m := range messages {
		assert.Equal(t, fmt.Sprintf("m%d", i+1), m.Content)
	}

	window, err := env.chatLog.LastN(ctx, "alice", 2)
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, "m4", window[0].Content)
	assert.Equal(t, "m5", window[1].Content)
}

func TestChatLogRejectsUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	err := env.chatLog.Append(context.Background(), "ghost", entity.DirectionSent, "boo")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestChatLogStoresCiphertextOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registerUser(t, env, "alice", "correct-horse", "Alice Liddell", "")

	const secret = "the launch code is 0000"
	require.NoError(t, env.chatLog.Append(ctx, "alice", entity.DirectionSent, secret))

	rows, err := env.chatRepo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.NotContains(t, string(rows[0].Ciphertext), secret)

	messages, err := env.chatLog.Messages(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, secret, messages[0].Content)
}

func TestChatLogIsolatesUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registerUser(t, env, "alice", "correct-horse", "Alice Liddell", "")
	registerUser(t, env, "bob", "builder-pass", "Bob Builder", "")

	require.NoError(t, env.chatLog.Append(ctx, "alice", entity.DirectionSent, "hers"))
	require.NoError(t, env.chatLog.Append(ctx, "bob", entity.DirectionSent, "his"))

	messages, err := env.chatLog.Messages(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "his", messages[0].Content)
}
