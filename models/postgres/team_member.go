package postgres

import (
	"time"
)

/*
 * 'TeamMember' links one party member to one team. PartyID is carried
 * redundantly so a user's team count inside a party is a single indexed
 * query.
 */
type TeamMember struct {
	// NOTE: composite primary key definition
	TeamID   string    `gorm:"primaryKey;size:36;not null" json:"-"`
	UserID   string    `gorm:"primaryKey;size:64;not null" json:"userId"`
	PartyID  string    `gorm:"size:36;not null;index:idx_team_members_party_user" json:"-"`
	JoinedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"joinedAt"`

	Team Team `gorm:"foreignKey:TeamID" json:"-"`
}
