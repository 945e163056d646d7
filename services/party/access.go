package party

import (
	models "WalkyTalky/models/postgres"
)

// Pure authorization predicates. Keeping the settings-driven gating in one
// place makes the rules testable without touching storage.

// IsAdmin reports whether the user is in the party's admin set. The party
// must have its Admins loaded.
func IsAdmin(party *models.Party, userID string) bool {
	for _, a := range party.Admins {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

// IsMember reports whether the user appears in the member list.
func IsMember(members []models.PartyMember, userID string) bool {
	for _, m := range members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// IsTeamMember reports whether the user is on the team roster. The team
// must have its Members loaded.
func IsTeamMember(team *models.Team, userID string) bool {
	for _, m := range team.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// CanCreateTeam: members may create teams when the setting allows it;
// admins always may.
func CanCreateTeam(party *models.Party, userID string, isMember bool) bool {
	if !isMember {
		return false
	}
	return party.Settings.MembersCanCreateTeams || IsAdmin(party, userID)
}

// CanSeeJoinCodes: admins always; members only when the party setting
// exposes codes to them.
func CanSeeJoinCodes(party *models.Party, userID string, isMember bool) bool {
	if IsAdmin(party, userID) {
		return true
	}
	return isMember && party.Settings.MembersCanSeeJoinCodes
}
