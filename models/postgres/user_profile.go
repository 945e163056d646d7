package postgres

import (
	"time"
)

/*
 * 'UserProfile' is the display profile attached to an opaque user id.
 * Identity itself is managed outside this service; the id is trusted
 * as-is.
 */
type UserProfile struct {
	UserID         string    `gorm:"primaryKey;size:64;not null" json:"userId"`
	Username       string    `gorm:"size:50;not null" json:"username"`
	Color          string    `gorm:"size:20" json:"color"`
	ProfilePicture string    `gorm:"size:500" json:"profilePicture"`
	UpdatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}
