package postgres

import (
	"time"
)

const (
	CodeKindEveryone  = "everyone"
	CodeKindSingleUse = "single"
)

/*
 * 'JoinCode' is one row of the global code index. The code itself is the
 * primary key, which is what makes uniqueness global across all parties
 * rather than per-party.
 */
type JoinCode struct {
	Code    string `gorm:"primaryKey;size:6;not null" json:"code"`
	PartyID string `gorm:"size:36;not null;index:idx_join_codes_party" json:"-"`
	Kind    string `gorm:"size:10;not null" json:"-"`
	// Only meaningful for single-use codes; flips false -> true exactly once.
	Used      bool      `gorm:"default:false" json:"used"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"-"`

	Party Party `gorm:"foreignKey:PartyID" json:"-"`
}
