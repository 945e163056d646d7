package party

import (
	models "WalkyTalky/models/postgres"
	apperrors "WalkyTalky/pkg/errors"
	"errors"
	"math/rand"

	"gorm.io/gorm"
)

// Join codes are 6 uppercase alphanumerics, unique across the whole
// system: the code is the primary key of the global join_codes table.
const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codeLength = 6

const singleUseCodeCount = 5

// Variable so tests can force collisions.
var generateCode = func(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return string(b)
}

// issueUniqueCode draws candidates until one inserts cleanly into the
// global index. The insert itself is the uniqueness check: it runs under a
// savepoint so a collision, including one raced in by another party's
// creation, rolls back just the attempt and redraws instead of aborting
// the surrounding transaction.
func issueUniqueCode(tx *gorm.DB, partyID string, kind string) (string, error) {
	for {
		code := generateCode(codeLength)

		if err := tx.SavePoint("issue_code").Error; err != nil {
			return "", apperrors.Wrap(apperrors.CodeInternal, "Error issuing code", err)
		}
		err := tx.Create(&models.JoinCode{
			Code:    code,
			PartyID: partyID,
			Kind:    kind,
		}).Error
		if err == nil {
			return code, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := tx.RollbackTo("issue_code").Error; err != nil {
				return "", apperrors.Wrap(apperrors.CodeInternal, "Error issuing code", err)
			}
			// Taken, draw again.
			continue
		}
		return "", apperrors.Wrap(apperrors.CodeInternal, "Error storing join code", err)
	}
}

// mintPartyCodes creates the everyone code plus the initial batch of
// single-use codes for a new party.
func mintPartyCodes(tx *gorm.DB, partyID string) (everyone string, err error) {
	everyone, err = issueUniqueCode(tx, partyID, models.CodeKindEveryone)
	if err != nil {
		return "", err
	}
	for i := 0; i < singleUseCodeCount; i++ {
		if _, err := issueUniqueCode(tx, partyID, models.CodeKindSingleUse); err != nil {
			return "", err
		}
	}
	return everyone, nil
}

// RegenerateCodes invalidates the party's current single-use codes and
// issues five fresh ones. The everyone code is untouched. Admin-only.
func (ps *PartyService) RegenerateCodes(partyID string, actingUserID string) (*models.Party, error) {
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

		// Old single-use codes become permanently invalid.
		if err := tx.Where("party_id = ? AND kind = ?", partyID, models.CodeKindSingleUse).
			Delete(&models.JoinCode{}).Error; err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, "Error invalidating old codes", err)
		}

		for i := 0; i < singleUseCodeCount; i++ {
			if _, err := issueUniqueCode(tx, partyID, models.CodeKindSingleUse); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ps.getPartyWithCodes(partyID)
}
