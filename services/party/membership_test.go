package party

import (
	models "WalkyTalky/models/postgres"
	apperrors "WalkyTalky/pkg/errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinParty_EveryoneCode(t *testing.T) {
	ps := newTestService(t)
	party := createParty(t, ps, "owner", CreatePartyInput{})

	res, err := ps.JoinParty("member", party.EveryoneCode, "")
	require.NoError(t, err)
	assert.Equal(t, party.ID, res.PartyID)
	assert.False(t, res.AlreadyMember)
	assert.False(t, res.RequiresPassword)

	// Everyone codes are reusable.
	res2, err := ps.JoinParty("another", party.EveryoneCode, "")
	require.NoError(t, err)
	assert.False(t, res2.AlreadyMember)

	info, err := ps.GetParty(party.ID)
	require.NoError(t, err)
	assert.Len(t, info.Members, 3)
}

func TestJoinParty_CodeIsCaseInsensitive(t *testing.T) {
	ps := newTestService(t)
	party := createParty(t, ps, "owner", CreatePartyInput{})

	_, err := ps.JoinParty("member", strings.ToLower(party.EveryoneCode), "")
	require.NoError(t, err)
}

func TestJoinParty_InvalidCode(t *testing.T) {
	ps := newTestService(t)
	createParty(t, ps, "owner", CreatePartyInput{})

	for _, code := range []string{"NOSUCH", "SHORT", "WAYTOOLONG"} {
		_, err := ps.JoinParty("member", code, "")
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
	}
}

func TestJoinParty_SingleUseCodeConsumedOnce(t *testing.T) {
	ps := newTestService(t)
	party := createParty(t, ps, "owner", CreatePartyInput{})
	code := singleUseCodes(t, ps, party.ID)[0].Code

	_, err := ps.JoinParty("first", code, "")
	require.NoError(t, err)

	_, err = ps.JoinParty("second", code, "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeAlreadyExists, apperrors.CodeOf(err))
}

func TestJoinParty_RejoinIsIdempotentAndKeepsCode(t *testing.T) {
	ps := newTestService(t)
	party := createParty(t, ps, "owner", CreatePartyInput{})
	code := singleUseCodes(t, ps, party.ID)[0].Code

	// The owner is already a member: the join reports that and the
	// single-use code survives for someone else.
	res, err := ps.JoinParty("owner", code, "")
	require.NoError(t, err)
	assert.True(t, res.AlreadyMember)

	var row models.JoinCode
	require.NoError(t, ps.db.Where("code = ?", code).First(&row).Error)
	assert.False(t, row.Used)

	_, err = ps.JoinParty("newcomer", code, "")
	require.NoError(t, err)
}

func TestJoinParty_PasswordBeforeMemberShortCircuit(t *testing.T) {
	ps := newTestService(t)
	party := createParty(t, ps, "owner", CreatePartyInput{Password: "secret"})

	// Even an existing member gets rejected on a wrong password; the
	// already-member answer never leaks past the password gate.
	_, err := ps.JoinParty("owner", party.EveryoneCode, "wrong")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthenticated, apperrors.CodeOf(err))

	res, err := ps.JoinParty("owner", party.EveryoneCode, "secret")
	require.NoError(t, err)
	assert.True(t, res.AlreadyMember)
	assert.True(t, res.RequiresPassword)
}

func TestJoinParty_WrongPasswordNeverBurnsCode(t *testing.T) {
	ps := newTestService(t)
	party := createParty(t, ps, "owner", CreatePartyInput{Password: "secret"})
	code := singleUseCodes(t, ps, party.ID)[0].Code

	_, err := ps.JoinParty("member", code, "wrong")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthenticated, apperrors.CodeOf(err))

	var row models.JoinCode
	require.NoError(t, ps.db.Where("code = ?", code).First(&row).Error)
	assert.False(t, row.Used)

	_, err = ps.JoinParty("member", code, "secret")
	require.NoError(t, err)
}

func TestJoinParty_PartyFull(t *testing.T) {
	ps := newTestService(t)
	party := createParty(t, ps, "owner", CreatePartyInput{
		Settings: &PartySettingsPatch{MaxMembers: intPtr(2)},
	})

	_, err := ps.JoinParty("second", party.EveryoneCode, "")
	require.NoError(t, err)

	_, err = ps.JoinParty("third", party.EveryoneCode, "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeFailedPrecondition, apperrors.CodeOf(err))

	// Full parties still answer idempotently for existing members.
	res, err := ps.JoinParty("second", party.EveryoneCode, "")
	require.NoError(t, err)
	assert.True(t, res.AlreadyMember)
}

func TestJoinParty_ConcurrentSingleUseRedemption(t *testing.T) {
	ps := newTestService(t)
	party := createParty(t, ps, "owner", CreatePartyInput{})
	code := singleUseCodes(t, ps, party.ID)[0].Code

	const contenders = 8
	errs := make([]error, contenders)
	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ps.JoinParty(fmt.Sprintf("user-%d", i), code, "")
		}(i)
	}
	wg.Wait()

	admitted, rejected := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			admitted++
		case apperrors.CodeOf(err) == apperrors.CodeAlreadyExists:
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, admitted)
	assert.Equal(t, contenders-1, rejected)
}

func TestCreateTeam_AutoJoin(t *testing.T) {
	ps := newTestService(t)
	party := createParty(t, ps, "owner", CreatePartyInput{})

	team, err := ps.CreateTeam(party.ID, "owner", CreateTeamInput{
		Name:     "Red",
		Color:    "#FF0000",
		AutoJoin: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"owner"}, team.MemberIDs())

	solo, err := ps.CreateTeam(party.ID, "owner", CreateTeamInput{
		Name:     "Blue",
		AutoJoin: false,
	})
	require.NoError(t, err)
	assert.Empty(t, solo.MemberIDs())
}

func TestCreateTeam_RequiresMembership(t *testing.T) {
	ps := newTestService(t)
	party := createParty(t, ps, "owner", CreatePartyInput{})

	_, err := ps.CreateTeam(party.ID, "stranger", CreateTeamInput{Name: "Ghosts"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))
}

func TestCreateTeam_MembersCanCreateTeamsSetting(t *testing.T) {
	ps := newTestService(t)
	party := createParty(t, ps, "owner", CreatePartyInput{
		Settings: &PartySettingsPatch{MembersCanCreateTeams: boolPtr(false)},
	})
	_, err := ps.JoinParty("member", party.EveryoneCode, "")
	require.NoError(t, err)

	_, err = ps.CreateTeam(party.ID, "member", CreateTeamInput{Name: "Rebels"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))

	// Admins create teams regardless of the setting.
	_, err = ps.CreateTeam(party.ID, "owner", CreateTeamInput{Name: "Staff"})
	require.NoError(t, err)
}

func TestCreateTeam_AutoJoinHonorsTeamLimits(t *testing.T) {
	ps := newTestService(t)
	party := createParty(t, ps, "owner", CreatePartyInput{
		Settings: &PartySettingsPatch{AllowMultipleTeams: boolPtr(false)},
	})

	_, err := ps.CreateTeam(party.ID, "owner", CreateTeamInput{Name: "First", AutoJoin: true})
	require.NoError(t, err)

	// A second auto-joined team would put the creator in two teams.
	_, err = ps.CreateTeam(party.ID, "owner", CreateTeamInput{Name: "Second", AutoJoin: true})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeFailedPrecondition, apperrors.CodeOf(err))

	// Without auto-join the limit does not apply to the creator.
	_, err = ps.CreateTeam(party.ID, "owner", CreateTeamInput{Name: "Second", AutoJoin: false})
	require.NoError(t, err)
}

func TestJoinTeam(t *testing.T) {
	ps := newTestService(t)
	party := createParty(t, ps, "owner", CreatePartyInput{})
	team, err := ps.CreateTeam(party.ID, "owner", CreateTeamInput{Name: "Red"})
	require.NoError(t, err)

	_, err = ps.JoinParty("member", party.EveryoneCode, "")
	require.NoError(t, err)

	already, err := ps.JoinTeam(party.ID, team.ID, "member")
	require.NoError(t, err)
	assert.False(t, already)

	// Joining again reports existing membership instead of failing.
	already, err = ps.JoinTeam(party.ID, team.ID, "member")
	require.NoError(t, err)
	assert.True(t, already)
}

func TestJoinTeam_RequiresPartyMembership(t *testing.T) {
	ps := newTestService(t)
	party := createParty(t, ps, "owner", CreatePartyInput{})
	team, err := ps.CreateTeam(party.ID, "owner", CreateTeamInput{Name: "Red"})
	require.NoError(t, err)

	_, err = ps.JoinTeam(party.ID, team.ID, "stranger")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))
}

func TestJoinTeam_UnknownOrForeignTeam(t *testing.T) {
	ps := newTestService(t)
	party := createParty(t, ps, "owner", CreatePartyInput{})
	other := createParty(t, ps, "owner", CreatePartyInput{Name: "Other"})
	foreign, err := ps.CreateTeam(other.ID, "owner", CreateTeamInput{Name: "Elsewhere"})
	require.NoError(t, err)

	_, err = ps.JoinTeam(party.ID, "missing-team", "owner")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	// A team id from another party is not visible here.
	_, err = ps.JoinTeam(party.ID, foreign.ID, "owner")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestJoinTeam_PrivateTeam(t *testing.T) {
	ps := newTestService(t)
	party := createParty(t, ps, "owner", CreatePartyInput{})
	team, err := ps.CreateTeam(party.ID, "owner", CreateTeamInput{Name: "Secret", IsPrivate: true})
	require.NoError(t, err)

	_, err = ps.JoinParty("member", party.EveryoneCode, "")
	require.NoError(t, err)

	_, err = ps.JoinTeam(party.ID, team.ID, "member")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))
}

func TestJoinTeam_TeamFull(t *testing.T) {
	ps := newTestService(t)
	party := createParty(t, ps, "owner", CreatePartyInput{})
	team, err := ps.CreateTeam(party.ID, "owner", CreateTeamInput{
		Name:       "Duo",
		MaxMembers: 1,
		AutoJoin:   true,
	})
	require.NoError(t, err)

	_, err = ps.JoinParty("member", party.EveryoneCode, "")
	require.NoError(t, err)

	_, err = ps.JoinTeam(party.ID, team.ID, "member")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeFailedPrecondition, apperrors.CodeOf(err))

	// Existing members of a full team still get the idempotent answer.
	already, err := ps.JoinTeam(party.ID, team.ID, "owner")
	require.NoError(t, err)
	assert.True(t, already)
}

func TestJoinTeam_SingleTeamSetting(t *testing.T) {
	ps := newTestService(t)
	party := createParty(t, ps, "owner", CreatePartyInput{
		Settings: &PartySettingsPatch{AllowMultipleTeams: boolPtr(false)},
	})
	red, err := ps.CreateTeam(party.ID, "owner", CreateTeamInput{Name: "Red"})
	require.NoError(t, err)
	blue, err := ps.CreateTeam(party.ID, "owner", CreateTeamInput{Name: "Blue"})
	require.NoError(t, err)

	_, err = ps.JoinParty("member", party.EveryoneCode, "")
	require.NoError(t, err)

	_, err = ps.JoinTeam(party.ID, red.ID, "member")
	require.NoError(t, err)

	_, err = ps.JoinTeam(party.ID, blue.ID, "member")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeFailedPrecondition, apperrors.CodeOf(err))
}

func TestJoinTeam_MaxTeamsPerUser(t *testing.T) {
	ps := newTestService(t)
	party := createParty(t, ps, "owner", CreatePartyInput{
		Settings: &PartySettingsPatch{MaxTeamsPerUser: intPtr(2)},
	})

	var teams []*models.Team
	for _, name := range []string{"One", "Two", "Three"} {
		team, err := ps.CreateTeam(party.ID, "owner", CreateTeamInput{Name: name})
		require.NoError(t, err)
		teams = append(teams, team)
	}

	_, err := ps.JoinParty("member", party.EveryoneCode, "")
	require.NoError(t, err)

	for _, team := range teams[:2] {
		_, err := ps.JoinTeam(party.ID, team.ID, "member")
		require.NoError(t, err)
	}

	_, err = ps.JoinTeam(party.ID, teams[2].ID, "member")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeFailedPrecondition, apperrors.CodeOf(err))
}
