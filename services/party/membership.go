package party

import (
	models "WalkyTalky/models/postgres"
	apperrors "WalkyTalky/pkg/errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// JoinResult is what a successful join (or an idempotent re-join) reports.
type JoinResult struct {
	Party            *models.Party
	PartyID          string
	AlreadyMember    bool
	RequiresPassword bool
}

// JoinParty redeems a join code and admits the user. Check order, which
// the tests pin down:
//  1. code exists (invalid or malformed -> InvalidArgument)
//  2. single-use code not yet used
//  3. party exists
//  4. password correct (before the already-member short-circuit, and
//     before the code is consumed, so a wrong password never burns a code)
//  5. already a member -> idempotent success, code not consumed
//  6. party capacity
//  7. admit + consume the single-use code in the same transaction
func (ps *PartyService) JoinParty(userID string, code string, password string) (*JoinResult, error) {
	if len(code) != codeLength {
		return nil, apperrors.InvalidCode()
	}
	code = strings.ToUpper(code)

	// Resolve the party id first so the right lock can be taken; everything
	// is re-read inside the locked transaction.
	var probe models.JoinCode
	if err := ps.db.Where("code = ?", code).First(&probe).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.InvalidCode()
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Error looking up code", err)
	}

	partyID := probe.PartyID
	unlock := ps.locks.Lock(partyID)
	defer unlock()

	result := &JoinResult{PartyID: partyID}
	err := ps.db.Transaction(func(tx *gorm.DB) error {
		var codeRow models.JoinCode
		if err := tx.Where("code = ?", code).First(&codeRow).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				// Regenerated away between the probe and the lock.
				return apperrors.InvalidCode()
			}
			return apperrors.Wrap(apperrors.CodeInternal, "Error looking up code", err)
		}
		if codeRow.Kind == models.CodeKindSingleUse && codeRow.Used {
			return apperrors.CodeAlreadyUsed()
		}

		party, err := loadParty(tx, partyID)
		if err != nil {
			return err
		}
		result.RequiresPassword = party.HasPassword()

		if party.HasPassword() {
			if err := bcrypt.CompareHashAndPassword([]byte(*party.PasswordHash), []byte(password)); err != nil {
				return apperrors.IncorrectPassword()
			}
		}

		var existing models.PartyMember
		err = tx.Where("party_id = ? AND user_id = ?", partyID, userID).First(&existing).Error
		if err == nil {
			result.AlreadyMember = true
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return apperrors.Wrap(apperrors.CodeInternal, "Error checking membership", err)
		}

		if party.Settings.MaxMembers > 0 {
			var count int64
			if err := tx.Model(&models.PartyMember{}).Where("party_id = ?", partyID).Count(&count).Error; err != nil {
				return apperrors.Wrap(apperrors.CodeInternal, "Error counting members", err)
			}
			if count >= int64(party.Settings.MaxMembers) {
				return apperrors.PartyFull()
			}
		}

		if err := tx.Create(&models.PartyMember{PartyID: partyID, UserID: userID}).Error; err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "Error adding member", err)
		}

		// Admission and consumption commit or roll back together.
		if codeRow.Kind == models.CodeKindSingleUse {
			if err := tx.Model(&models.JoinCode{}).Where("code = ?", code).
				Update("used", true).Error; err != nil {
				return apperrors.Wrap(apperrors.CodeInternal, "Error consuming code", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	party, err := ps.getPartyWithCodes(partyID)
	if err != nil {
		return nil, err
	}
	result.Party = party
	return result, nil
}

type CreateTeamInput struct {
	Name        string
	Description string
	Color       string
	IsPrivate   bool
	MaxMembers  int
	// AutoJoin defaults to true at the boundary; when set, the creator's
	// own team-count limits apply exactly as for a normal team join.
	AutoJoin bool
}

// CreateTeam creates a team inside a party. Requires membership, and
// either the membersCanCreateTeams setting or admin rights.
func (ps *PartyService) CreateTeam(partyID string, actingUserID string, input CreateTeamInput) (*models.Team, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.InvalidArg("Team name is required")
	}

	unlock := ps.locks.Lock(partyID)
	defer unlock()

	teamID := uuid.NewString()
	err := ps.db.Transaction(func(tx *gorm.DB) error {
		party, err := loadParty(tx, partyID)
		if err != nil {
			return err
		}

		isMember, err := memberExists(tx, partyID, actingUserID)
		if err != nil {
			return err
		}
		if !isMember {
			return apperrors.NotAPartyMember()
		}
		if !party.Settings.MembersCanCreateTeams && !IsAdmin(party, actingUserID) {
			return apperrors.NotAuthorized()
		}

		if input.AutoJoin {
			if err := checkTeamCountLimits(tx, party, actingUserID); err != nil {
				return err
			}
		}

		team := models.Team{
			ID:          teamID,
			PartyID:     partyID,
			Name:        input.Name,
			Description: input.Description,
			Color:       input.Color,
			IsPrivate:   input.IsPrivate,
			MaxMembers:  input.MaxMembers,
			CreatorID:   actingUserID,
		}
		if err := tx.Create(&team).Error; err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "Error creating team", err)
		}

		if input.AutoJoin {
			if err := tx.Create(&models.TeamMember{
				TeamID:  teamID,
				UserID:  actingUserID,
				PartyID: partyID,
			}).Error; err != nil {
				return apperrors.Wrap(apperrors.CodeInternal, "Error joining created team", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var team models.Team
	if err := ps.db.Preload("Members").Where("id = ?", teamID).First(&team).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Error loading team", err)
	}
	return &team, nil
}

// JoinTeam adds a party member to a team. Idempotent for existing team
// members; the team roster and the member's team set move together inside
// one transaction.
func (ps *PartyService) JoinTeam(partyID string, teamID string, userID string) (alreadyMember bool, err error) {
	unlock := ps.locks.Lock(partyID)
	defer unlock()

	err = ps.db.Transaction(func(tx *gorm.DB) error {
		party, err := loadParty(tx, partyID)
		if err != nil {
			return err
		}

		isMember, err := memberExists(tx, partyID, userID)
		if err != nil {
			return err
		}
		if !isMember {
			return apperrors.NotAPartyMember()
		}

		var team models.Team
		if err := tx.Where("id = ? AND party_id = ?", teamID, partyID).First(&team).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.TeamNotFound()
			}
			return apperrors.Wrap(apperrors.CodeInternal, "Error loading team", err)
		}

		// Private teams only grow through the creator/admin invite path.
		if team.IsPrivate {
			return apperrors.TeamIsPrivate()
		}

		var existing models.TeamMember
		err = tx.Where("team_id = ? AND user_id = ?", teamID, userID).First(&existing).Error
		if err == nil {
			alreadyMember = true
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return apperrors.Wrap(apperrors.CodeInternal, "Error checking team membership", err)
		}

		if team.MaxMembers > 0 {
			var count int64
			if err := tx.Model(&models.TeamMember{}).Where("team_id = ?", teamID).Count(&count).Error; err != nil {
				return apperrors.Wrap(apperrors.CodeInternal, "Error counting team members", err)
			}
			if count >= int64(team.MaxMembers) {
				return apperrors.TeamFull()
			}
		}

		if err := checkTeamCountLimits(tx, party, userID); err != nil {
			return err
		}

		if err := tx.Create(&models.TeamMember{
			TeamID:  teamID,
			UserID:  userID,
			PartyID: partyID,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "Error joining team", err)
		}
		return nil
	})
	return alreadyMember, err
}

func memberExists(tx *gorm.DB, partyID string, userID string) (bool, error) {
	var count int64
	err := tx.Model(&models.PartyMember{}).
		Where("party_id = ? AND user_id = ?", partyID, userID).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(apperrors.CodeInternal, "Error checking membership", err)
	}
	return count > 0, nil
}

// checkTeamCountLimits enforces the per-user team constraints: at most one
// team when multiple teams are disabled, and the maxTeamsPerUser cap when
// they are enabled.
func checkTeamCountLimits(tx *gorm.DB, party *models.Party, userID string) error {
	var teamCount int64
	err := tx.Model(&models.TeamMember{}).
		Where("party_id = ? AND user_id = ?", party.ID, userID).
		Count(&teamCount).Error
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "Error counting user teams", err)
	}

	if !party.Settings.AllowMultipleTeams && teamCount > 0 {
		return apperrors.AlreadyInATeam()
	}
	if party.Settings.AllowMultipleTeams && party.Settings.MaxTeamsPerUser > 0 &&
		teamCount >= int64(party.Settings.MaxTeamsPerUser) {
		return apperrors.MaxTeamsReached()
	}
	return nil
}
