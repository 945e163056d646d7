package party

import (
	models "WalkyTalky/models/postgres"
	"testing"

	"github.com/stretchr/testify/assert"
)

func partyWithAdmins(ids ...string) *models.Party {
	p := &models.Party{ID: "p1", Settings: models.DefaultPartySettings()}
	for _, id := range ids {
		p.Admins = append(p.Admins, models.PartyAdmin{PartyID: "p1", UserID: id})
	}
	return p
}

func TestIsAdmin(t *testing.T) {
	p := partyWithAdmins("alice", "bob")
	assert.True(t, IsAdmin(p, "alice"))
	assert.False(t, IsAdmin(p, "carol"))
}

func TestIsMember(t *testing.T) {
	members := []models.PartyMember{
		{PartyID: "p1", UserID: "alice"},
	}
	assert.True(t, IsMember(members, "alice"))
	assert.False(t, IsMember(members, "bob"))
	assert.False(t, IsMember(nil, "alice"))
}

func TestIsTeamMember(t *testing.T) {
	team := &models.Team{
		ID:      "t1",
		Members: []models.TeamMember{{TeamID: "t1", UserID: "alice"}},
	}
	assert.True(t, IsTeamMember(team, "alice"))
	assert.False(t, IsTeamMember(team, "bob"))
}

func TestCanCreateTeam(t *testing.T) {
	p := partyWithAdmins("admin")

	assert.True(t, CanCreateTeam(p, "member", true))
	assert.False(t, CanCreateTeam(p, "stranger", false))

	p.Settings.MembersCanCreateTeams = false
	assert.False(t, CanCreateTeam(p, "member", true))
	// Admins bypass the setting; strangers never create teams.
	assert.True(t, CanCreateTeam(p, "admin", true))
	assert.False(t, CanCreateTeam(p, "admin", false))
}

func TestCanSeeJoinCodes(t *testing.T) {
	p := partyWithAdmins("admin")

	assert.True(t, CanSeeJoinCodes(p, "admin", true))
	assert.False(t, CanSeeJoinCodes(p, "member", true))
	assert.False(t, CanSeeJoinCodes(p, "stranger", false))

	p.Settings.MembersCanSeeJoinCodes = true
	assert.True(t, CanSeeJoinCodes(p, "member", true))
	assert.False(t, CanSeeJoinCodes(p, "stranger", false))
}
