package postgres

import (
	"time"
)

/*
 * 'Team' is a sub-group inside a party. Unique by id within the system
 * (uuid), scoped to its party, with its own membership, optional capacity
 * and privacy flag. A team's chat channel id is the team id.
 */
type Team struct {
	ID          string `gorm:"primaryKey;size:36;not null" json:"id"`
	PartyID     string `gorm:"size:36;not null;index:idx_teams_party" json:"-"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	Color       string `gorm:"size:20" json:"color"`
	IsPrivate   bool   `gorm:"default:false" json:"isPrivate"`
	// 0 = unlimited
	MaxMembers int       `gorm:"default:0" json:"maxMembers"`
	CreatorID  string    `gorm:"size:64;not null" json:"creatorId"`
	CreatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`

	// Relationships
	Party   Party        `gorm:"foreignKey:PartyID" json:"-"`
	Members []TeamMember `gorm:"foreignKey:TeamID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// MemberIDs flattens the loaded membership rows into a plain id list.
func (t *Team) MemberIDs() []string {
	ids := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}
