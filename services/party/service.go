package party

import (
	models "WalkyTalky/models/postgres"
	apperrors "WalkyTalky/pkg/errors"
	"WalkyTalky/services/redis"
	partysync "WalkyTalky/services/sync"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*
 * PartyService owns the party/membership/access-control state machine.
 * All mutating operations on one party run under that party's lock and
 * inside a single transaction, so concurrent conflicting calls produce
 * exactly one winner and a normal error for the rest.
 */
type PartyService struct {
	db    *gorm.DB
	redis *redis.RedisClient
	locks *partysync.PartyLocker
}

func NewPartyService(db *gorm.DB, redisClient *redis.RedisClient) *PartyService {
	return &PartyService{
		db:    db,
		redis: redisClient,
		locks: partysync.NewPartyLocker(),
	}
}

// PartySettingsPatch is the typed field-by-field settings update: nil
// fields keep their prior value. Unknown JSON keys never reach the model.
type PartySettingsPatch struct {
	MembersCanSeeJoinCodes *bool `json:"membersCanSeeJoinCodes"`
	AllowMultipleTeams     *bool `json:"allowMultipleTeams"`
	MaxTeamsPerUser        *int  `json:"maxTeamsPerUser"`
	MembersCanCreateTeams  *bool `json:"membersCanCreateTeams"`
	MaxMembers             *int  `json:"maxMembers"`
	VoiceChatEnabled       *bool `json:"voiceChatEnabled"`
	ImageShareEnabled      *bool `json:"imageShareEnabled"`
}

// MergeSettings applies a patch onto existing settings.
func MergeSettings(base models.PartySettings, patch *PartySettingsPatch) models.PartySettings {
	if patch == nil {
		return base
	}
	if patch.MembersCanSeeJoinCodes != nil {
		base.MembersCanSeeJoinCodes = *patch.MembersCanSeeJoinCodes
	}
	if patch.AllowMultipleTeams != nil {
		base.AllowMultipleTeams = *patch.AllowMultipleTeams
	}
	if patch.MaxTeamsPerUser != nil {
		base.MaxTeamsPerUser = *patch.MaxTeamsPerUser
	}
	if patch.MembersCanCreateTeams != nil {
		base.MembersCanCreateTeams = *patch.MembersCanCreateTeams
	}
	if patch.MaxMembers != nil {
		base.MaxMembers = *patch.MaxMembers
	}
	if patch.VoiceChatEnabled != nil {
		base.VoiceChatEnabled = *patch.VoiceChatEnabled
	}
	if patch.ImageShareEnabled != nil {
		base.ImageShareEnabled = *patch.ImageShareEnabled
	}
	return base
}

type CreatePartyInput struct {
	OwnerUserID string
	Name        string
	Description string
	Banner      datatypes.JSON
	Settings    *PartySettingsPatch
	Password    string
}

// loadParty fetches a party with its admin set and codes inside the
// current transaction.
func loadParty(tx *gorm.DB, partyID string) (*models.Party, error) {
	var party models.Party
	err := tx.Preload("Admins").Preload("JoinCodes").Where("id = ?", partyID).First(&party).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperrors.PartyNotFound()
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Error loading party", err)
	}
	return &party, nil
}

func (ps *PartyService) getPartyWithCodes(partyID string) (*models.Party, error) {
	return loadParty(ps.db, partyID)
}

// CreateParty builds a party with merged settings, mints 1 everyone code
// and 5 single-use codes, and admits the owner as sole admin and first
// member. All-or-nothing: any failure rolls the whole creation back.
func (ps *PartyService) CreateParty(input CreatePartyInput) (*models.Party, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.InvalidArg("Party name is required")
	}
	if strings.TrimSpace(input.OwnerUserID) == "" {
		return nil, apperrors.InvalidArg("Owner user id is required")
	}

	partyID := uuid.NewString()

	var passwordHash *string
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, "Error hashing password", err)
		}
		s := string(hash)
		passwordHash = &s
	}

	err := ps.db.Transaction(func(tx *gorm.DB) error {
		everyoneCode, err := mintPartyCodes(tx, partyID)
		if err != nil {
			return err
		}

		party := models.Party{
			ID:           partyID,
			Name:         input.Name,
			Description:  input.Description,
			Banner:       input.Banner,
			PasswordHash: passwordHash,
			EveryoneCode: everyoneCode,
			Settings:     MergeSettings(models.DefaultPartySettings(), input.Settings),
		}
		if err := tx.Create(&party).Error; err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "Error creating party", err)
		}

		if err := tx.Create(&models.PartyAdmin{PartyID: partyID, UserID: input.OwnerUserID}).Error; err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "Error creating party admin", err)
		}
		if err := tx.Create(&models.PartyMember{PartyID: partyID, UserID: input.OwnerUserID}).Error; err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "Error creating party member", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ps.getPartyWithCodes(partyID)
}

// PartyInfo bundles a party with its member and team lists for reads.
type PartyInfo struct {
	Party   *models.Party
	Members []models.PartyMember
	Teams   []models.Team
}

// GetParty returns the party with members and teams (team rosters
// preloaded). Fails with NotFound if absent.
func (ps *PartyService) GetParty(partyID string) (*PartyInfo, error) {
	party, err := loadParty(ps.db, partyID)
	if err != nil {
		return nil, err
	}

	var members []models.PartyMember
	if err := ps.db.Where("party_id = ?", partyID).Order("joined_at").Find(&members).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Error loading members", err)
	}

	var teams []models.Team
	if err := ps.db.Preload("Members").Where("party_id = ?", partyID).Order("created_at").Find(&teams).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Error loading teams", err)
	}

	return &PartyInfo{Party: party, Members: members, Teams: teams}, nil
}

// UpdateSettings merges the patch into the party settings. Admin-only.
func (ps *PartyService) UpdateSettings(partyID string, actingUserID string, patch *PartySettingsPatch) (*models.Party, error) {
	unlock := ps.locks.Lock(partyID)
	defer unlock()

	err := ps.db.Transaction(func(tx *gorm.DB) error {
		party, err := loadParty(tx, partyID)
		if err != nil {
			return err
		}
		if !IsAdmin(party, actingUserID) {
			return apperrors.NotAuthorized()
		}

		party.Settings = MergeSettings(party.Settings, patch)
		if err := tx.Model(&models.Party{}).Where("id = ?", partyID).
			Updates(map[string]interface{}{
				"members_can_see_join_codes": party.Settings.MembersCanSeeJoinCodes,
				"allow_multiple_teams":       party.Settings.AllowMultipleTeams,
				"max_teams_per_user":         party.Settings.MaxTeamsPerUser,
				"members_can_create_teams":   party.Settings.MembersCanCreateTeams,
				"max_members":                party.Settings.MaxMembers,
				"voice_chat_enabled":         party.Settings.VoiceChatEnabled,
				"image_share_enabled":        party.Settings.ImageShareEnabled,
			}).Error; err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "Error updating settings", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ps.getPartyWithCodes(partyID)
}

// UpdatePassword sets or clears the party password. Admin-only; nil or
// empty clears the requirement.
func (ps *PartyService) UpdatePassword(partyID string, actingUserID string, password *string) (*models.Party, error) {
	unlock := ps.locks.Lock(partyID)
	defer unlock()

	err := ps.db.Transaction(func(tx *gorm.DB) error {
		party, err := loadParty(tx, partyID)
		if err != nil {
			return err
		}
		if !IsAdmin(party, actingUserID) {
			return apperrors.NotAuthorized()
		}

		var passwordHash *string
		if password != nil && *password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
			if err != nil {
				return apperrors.Wrap(apperrors.CodeInternal, "Error hashing password", err)
			}
			s := string(hash)
			passwordHash = &s
		}

		if err := tx.Model(&models.Party{}).Where("id = ?", partyID).
			Update("password_hash", passwordHash).Error; err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "Error updating password", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ps.getPartyWithCodes(partyID)
}

// AddAdmin promotes a current member. Admin-only; Conflict if the target
// is already an admin, InvalidTarget if not a member.
func (ps *PartyService) AddAdmin(partyID string, actingUserID string, targetUserID string) (*models.Party, error) {
	unlock := ps.locks.Lock(partyID)
	defer unlock()

	err := ps.db.Transaction(func(tx *gorm.DB) error {
		party, err := loadParty(tx, partyID)
		if err != nil {
			return err
		}
		if !IsAdmin(party, actingUserID) {
			return apperrors.NotAuthorized()
		}
		if IsAdmin(party, targetUserID) {
			return apperrors.AlreadyAnAdmin()
		}

		var count int64
		if err := tx.Model(&models.PartyMember{}).
			Where("party_id = ? AND user_id = ?", partyID, targetUserID).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "Error checking membership", err)
		}
		if count == 0 {
			return apperrors.NotAMemberTarget()
		}

		if err := tx.Create(&models.PartyAdmin{PartyID: partyID, UserID: targetUserID}).Error; err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "Error adding admin", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ps.getPartyWithCodes(partyID)
}

// DeleteParty tears a party down. Every party-scoped record goes with it
// in one transaction (rosters before their parents), then the party's chat
// channels are dropped from Redis and its lock is released for good.
// Admin-only.
func (ps *PartyService) DeleteParty(partyID string, actingUserID string) error {
	unlock := ps.locks.Lock(partyID)

	err := ps.db.Transaction(func(tx *gorm.DB) error {
		party, err := loadParty(tx, partyID)
		if err != nil {
			return err
		}
		if !IsAdmin(party, actingUserID) {
			return apperrors.NotAuthorized()
		}

		for _, record := range []interface{}{
			&models.TeamMember{},
			&models.Team{},
			&models.PartyMember{},
			&models.PartyAdmin{},
			&models.JoinCode{},
		} {
			if err := tx.Where("party_id = ?", partyID).Delete(record).Error; err != nil {
				return apperrors.Wrap(apperrors.CodeInternal, "Error deleting party records", err)
			}
		}
		if err := tx.Where("id = ?", partyID).Delete(&models.Party{}).Error; err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "Error deleting party", err)
		}
		return nil
	})
	unlock()
	if err != nil {
		return err
	}

	// The id is a uuid and never comes back; late racers holding the old
	// mutex fail NotFound inside their transaction.
	ps.locks.Forget(partyID)

	if ps.redis != nil {
		if err := ps.redis.DeletePartyChannels(partyID); err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "Error deleting party channels", err)
		}
	}
	return nil
}

// RemoveAdmin demotes an admin. The minimum-one-admin invariant is
// enforced here: removing the sole remaining admin fails with LastAdmin
// and leaves the set unchanged.
func (ps *PartyService) RemoveAdmin(partyID string, actingUserID string, targetUserID string) (*models.Party, error) {
	unlock := ps.locks.Lock(partyID)
	defer unlock()

	err := ps.db.Transaction(func(tx *gorm.DB) error {
		party, err := loadParty(tx, partyID)
		if err != nil {
			return err
		}
		if !IsAdmin(party, actingUserID) {
			return apperrors.NotAuthorized()
		}
		if !IsAdmin(party, targetUserID) {
			return apperrors.NotAnAdmin()
		}
		if len(party.Admins) == 1 {
			return apperrors.LastAdmin()
		}

		if err := tx.Where("party_id = ? AND user_id = ?", partyID, targetUserID).
			Delete(&models.PartyAdmin{}).Error; err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "Error removing admin", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ps.getPartyWithCodes(partyID)
}
