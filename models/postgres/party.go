package postgres

import (
	"time"

	"gorm.io/datatypes"
)

/*
 * 'PartySettings' holds the per-party behavior switches. It is embedded in
 * Party so every setting is a typed column; patches are merged
 * field-by-field (see services/party), never spread from raw JSON.
 */
type PartySettings struct {
	MembersCanSeeJoinCodes bool `gorm:"default:false" json:"membersCanSeeJoinCodes"`
	AllowMultipleTeams     bool `gorm:"default:true" json:"allowMultipleTeams"`
	MaxTeamsPerUser        int  `gorm:"default:3" json:"maxTeamsPerUser"`
	MembersCanCreateTeams  bool `gorm:"default:true" json:"membersCanCreateTeams"`
	MaxMembers             int  `gorm:"default:0" json:"maxMembers"` // 0 = unlimited
	VoiceChatEnabled       bool `gorm:"default:true" json:"voiceChatEnabled"`
	ImageShareEnabled      bool `gorm:"default:true" json:"imageShareEnabled"`
}

// DefaultPartySettings mirrors the defaults applied at party creation
// before the creator's overrides are merged in.
func DefaultPartySettings() PartySettings {
	return PartySettings{
		MembersCanSeeJoinCodes: false,
		AllowMultipleTeams:     true,
		MaxTeamsPerUser:        3,
		MembersCanCreateTeams:  true,
		MaxMembers:             0,
		VoiceChatEnabled:       true,
		ImageShareEnabled:      true,
	}
}

/*
 * 'Party' is the top-level group. It owns its settings, admin set and join
 * codes; members and teams reference it by id and are cascade-deleted with
 * it.
 */
type Party struct {
	ID          string         `gorm:"primaryKey;size:36;not null" json:"id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Description string         `gorm:"size:500" json:"description"`
	Banner      datatypes.JSON `gorm:"type:jsonb" json:"banner"`

	// Null means the party has no password. Only the bcrypt hash is stored.
	PasswordHash *string `gorm:"size:255" json:"-"`

	// The reusable code is denormalized here for display; the authoritative
	// record lives in the global join_codes table.
	EveryoneCode string `gorm:"size:6;uniqueIndex" json:"everyoneCode"`

	Settings  PartySettings `gorm:"embedded" json:"settings"`
	CreatedAt time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`

	// Relationships
	Admins    []PartyAdmin  `gorm:"foreignKey:PartyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Members   []PartyMember `gorm:"foreignKey:PartyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Teams     []Team        `gorm:"foreignKey:PartyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	JoinCodes []JoinCode    `gorm:"foreignKey:PartyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// HasPassword reports whether joining requires a password.
func (p *Party) HasPassword() bool {
	return p.PasswordHash != nil && *p.PasswordHash != ""
}

// AdminIDs flattens the loaded admin rows into a plain id list.
func (p *Party) AdminIDs() []string {
	ids := make([]string, 0, len(p.Admins))
	for _, a := range p.Admins {
		ids = append(ids, a.UserID)
	}
	return ids
}
