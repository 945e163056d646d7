package postgres

import (
	"time"
)

/*
 * 'PartyMember' represents one user's membership in one party. Team
 * memberships hang off it through TeamMember rows scoped by the same
 * party id.
 */
type PartyMember struct {
	// NOTE: composite primary key definition
	PartyID  string    `gorm:"primaryKey;size:36;not null" json:"-"`
	UserID   string    `gorm:"primaryKey;size:64;not null;index" json:"userId"`
	JoinedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"joinedAt"`

	Party Party `gorm:"foreignKey:PartyID" json:"-"`
}
