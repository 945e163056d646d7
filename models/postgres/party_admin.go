package postgres

/*
 * 'PartyAdmin' marks one user as an admin of one party. The service layer
 * guarantees the set is never empty while the party exists and that every
 * admin is a current member.
 */
type PartyAdmin struct {
	PartyID string `gorm:"primaryKey;size:36;not null" json:"-"`
	UserID  string `gorm:"primaryKey;size:64;not null" json:"userId"`

	Party Party `gorm:"foreignKey:PartyID" json:"-"`
}
