package redis

import (
	redis_models "WalkyTalky/models/redis"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient runs each test against its own in-process miniredis, so the
// list semantics the chat log relies on are exercised without an external
// server.
func testClient(t *testing.T) *RedisClient {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewRedisClient("redis://"+mr.Addr(), 0)
}

func newMessage(partyID, chatID, userID, content string) *redis_models.ChatMessage {
	return &redis_models.ChatMessage{
		ID:        uuid.NewString(),
		PartyID:   partyID,
		ChatID:    chatID,
		UserID:    userID,
		Content:   content,
		Timestamp: time.Now(),
	}
}

func TestAppendChatMessage_PositionsAreSequential(t *testing.T) {
	rc := testClient(t)
	partyID := uuid.NewString()

	for i := 1; i <= 3; i++ {
		msg, err := rc.AppendChatMessage(newMessage(partyID, "everyone", "alice", fmt.Sprintf("msg %d", i)))
		require.NoError(t, err)
		assert.EqualValues(t, i, msg.Position)
	}

	history, err := rc.GetChatHistory(partyID, "everyone")
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i, msg := range history {
		// Stored copies carry the final position, in append order.
		assert.EqualValues(t, i+1, msg.Position)
		assert.Equal(t, fmt.Sprintf("msg %d", i+1), msg.Content)
	}
}

func TestGetChatHistory_EmptyChannel(t *testing.T) {
	rc := testClient(t)

	history, err := rc.GetChatHistory(uuid.NewString(), "everyone")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestChannelsAreIsolated(t *testing.T) {
	rc := testClient(t)
	partyID := uuid.NewString()
	teamID := uuid.NewString()

	_, err := rc.AppendChatMessage(newMessage(partyID, "everyone", "alice", "hello all"))
	require.NoError(t, err)
	_, err = rc.AppendChatMessage(newMessage(partyID, teamID, "alice", "hello team"))
	require.NoError(t, err)

	everyone, err := rc.GetChatHistory(partyID, "everyone")
	require.NoError(t, err)
	team, err := rc.GetChatHistory(partyID, teamID)
	require.NoError(t, err)

	require.Len(t, everyone, 1)
	require.Len(t, team, 1)
	assert.Equal(t, "hello all", everyone[0].Content)
	assert.Equal(t, "hello team", team[0].Content)

	// Each channel numbers its own log from 1.
	assert.EqualValues(t, 1, everyone[0].Position)
	assert.EqualValues(t, 1, team[0].Position)
}

func TestDeletePartyChannels(t *testing.T) {
	rc := testClient(t)
	partyID := uuid.NewString()
	other := uuid.NewString()

	_, err := rc.AppendChatMessage(newMessage(partyID, "everyone", "alice", "bye"))
	require.NoError(t, err)
	_, err = rc.AppendChatMessage(newMessage(partyID, uuid.NewString(), "alice", "bye team"))
	require.NoError(t, err)
	_, err = rc.AppendChatMessage(newMessage(other, "everyone", "bob", "still here"))
	require.NoError(t, err)

	require.NoError(t, rc.DeletePartyChannels(partyID))

	history, err := rc.GetChatHistory(partyID, "everyone")
	require.NoError(t, err)
	assert.Empty(t, history)

	// Other parties' channels are untouched.
	kept, err := rc.GetChatHistory(other, "everyone")
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, "still here", kept[0].Content)
}

func TestCleanupKeys(t *testing.T) {
	rc := testClient(t)
	partyID := uuid.NewString()

	_, err := rc.AppendChatMessage(newMessage(partyID, "everyone", "alice", "ephemeral"))
	require.NoError(t, err)

	require.NoError(t, rc.CleanupKeys([]string{
		fmt.Sprintf("chat_history:%s:everyone", partyID),
	}))

	history, err := rc.GetChatHistory(partyID, "everyone")
	require.NoError(t, err)
	assert.Empty(t, history)
}
