package party

import (
	apperrors "WalkyTalky/pkg/errors"
	"WalkyTalky/services/redis"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServiceWithRedis backs the chat log with an in-process miniredis,
// so the append/read path runs in every test environment.
func newTestServiceWithRedis(t *testing.T) *PartyService {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewPartyService(newTestDB(t), redis.NewRedisClient("redis://"+mr.Addr(), 0))
}

func TestSendMessage_OrderAndPositions(t *testing.T) {
	ps := newTestServiceWithRedis(t)
	party := createParty(t, ps, "owner", CreatePartyInput{})
	_, err := ps.JoinParty("alice", party.EveryoneCode, "")
	require.NoError(t, err)
	_, err = ps.JoinParty("bob", party.EveryoneCode, "")
	require.NoError(t, err)

	senders := []string{"owner", "alice", "bob"}
	for i, sender := range senders {
		msg, err := ps.SendMessage(party.ID, EveryoneChannel, sender, fmt.Sprintf("message %d", i+1), "")
		require.NoError(t, err)
		assert.EqualValues(t, i+1, msg.Position)
		assert.NotEmpty(t, msg.ID)
	}

	messages, err := ps.GetMessages(party.ID, EveryoneChannel)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	for i, msg := range messages {
		// Append order, with strictly increasing positions.
		assert.EqualValues(t, i+1, msg.Position)
		assert.Equal(t, senders[i], msg.UserID)
		assert.Equal(t, fmt.Sprintf("message %d", i+1), msg.Content)
	}
}

func TestSendMessage_TeamChannel(t *testing.T) {
	ps := newTestServiceWithRedis(t)
	party := createParty(t, ps, "owner", CreatePartyInput{})
	team, err := ps.CreateTeam(party.ID, "owner", CreateTeamInput{Name: "Red", AutoJoin: true})
	require.NoError(t, err)

	msg, err := ps.SendMessage(party.ID, team.ID, "owner", "team only", "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, msg.Position)

	// The team channel and the everyone channel are separate logs.
	everyone, err := ps.GetMessages(party.ID, EveryoneChannel)
	require.NoError(t, err)
	assert.Empty(t, everyone)

	teamLog, err := ps.GetMessages(party.ID, team.ID)
	require.NoError(t, err)
	require.Len(t, teamLog, 1)
	assert.Equal(t, "team only", teamLog[0].Content)
}

func TestDeleteParty_DropsChannels(t *testing.T) {
	ps := newTestServiceWithRedis(t)
	party := createParty(t, ps, "owner", CreatePartyInput{})
	_, err := ps.SendMessage(party.ID, EveryoneChannel, "owner", "soon gone", "")
	require.NoError(t, err)

	require.NoError(t, ps.DeleteParty(party.ID, "owner"))

	messages, err := ps.GetMessages(party.ID, EveryoneChannel)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestSendMessage_RequiresPartyMembership(t *testing.T) {
	ps := newTestService(t)
	party := createParty(t, ps, "owner", CreatePartyInput{})

	_, err := ps.SendMessage(party.ID, EveryoneChannel, "stranger", "hi", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))
}

func TestSendMessage_TeamChannelRequiresTeamMembership(t *testing.T) {
	ps := newTestService(t)
	party := createParty(t, ps, "owner", CreatePartyInput{})
	team, err := ps.CreateTeam(party.ID, "owner", CreateTeamInput{Name: "Red"})
	require.NoError(t, err)

	_, err = ps.JoinParty("member", party.EveryoneCode, "")
	require.NoError(t, err)

	// A party member outside the team cannot post to its channel.
	_, err = ps.SendMessage(party.ID, team.ID, "member", "hi", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))

	// Unknown channel ids behave the same as foreign teams.
	_, err = ps.SendMessage(party.ID, "no-such-channel", "member", "hi", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))
}
