package utils

import (
	models "WalkyTalky/models/postgres"
	"fmt"

	"gorm.io/gorm"
)

// Function to check if a party exists
func CheckPartyExists(db *gorm.DB, partyID string) (*models.Party, error) {
	var party models.Party
	result := db.Where("id = ?", partyID).First(&party)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("party not found")
		}
		return nil, result.Error
	}

	return &party, nil
}

func IsPartyMember(db *gorm.DB, partyID string, userID string) (bool, error) {
	var count int64
	err := db.Model(&models.PartyMember{}).
		Where("party_id = ? AND user_id = ?", partyID, userID).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func IsTeamMember(db *gorm.DB, teamID string, userID string) (bool, error) {
	var count int64
	err := db.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}
