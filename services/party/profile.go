package party

import (
	models "WalkyTalky/models/postgres"
	apperrors "WalkyTalky/pkg/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveProfile upserts the display profile for an opaque user id.
func (ps *PartyService) SaveProfile(profile *models.UserProfile) error {
	if profile.UserID == "" {
		return apperrors.InvalidArg("User id is required")
	}
	err := ps.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(profile).Error
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "Error saving profile", err)
	}
	return nil
}

// GetProfile returns the stored profile, or nil when the user has none
// yet. Clients treat a missing profile as empty, not as an error.
func (ps *PartyService) GetProfile(userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := ps.db.Where("user_id = ?", userID).First(&profile).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Error loading profile", err)
	}
	return &profile, nil
}
