package party

import (
	models "WalkyTalky/models/postgres"
	redis_models "WalkyTalky/models/redis"
	apperrors "WalkyTalky/pkg/errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EveryoneChannel is the party-wide channel id; every other channel id is
// a team id.
const EveryoneChannel = "everyone"

// SendMessage appends a message to a channel. Senders must be party
// members, and team members for team channels. Position assignment happens
// inside Redis (RPUSH), so appends need no party lock: per-channel
// atomicity comes from Redis serializing the list operations.
func (ps *PartyService) SendMessage(partyID string, chatID string, userID string, content string, imageURL string) (*redis_models.ChatMessage, error) {
	isMember, err := memberExists(ps.db, partyID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, apperrors.NotAPartyMember()
	}

	if chatID != EveryoneChannel {
		var team models.Team
		err := ps.db.Where("id = ? AND party_id = ?", chatID, partyID).First(&team).Error
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotATeamMember()
		}
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, "Error loading team", err)
		}

		var count int64
		if err := ps.db.Model(&models.TeamMember{}).
			Where("team_id = ? AND user_id = ?", chatID, userID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, "Error checking team membership", err)
		}
		if count == 0 {
			return nil, apperrors.NotATeamMember()
		}
	}

	msg := &redis_models.ChatMessage{
		ID:        uuid.NewString(),
		PartyID:   partyID,
		ChatID:    chatID,
		UserID:    userID,
		Content:   content,
		ImageURL:  imageURL,
		Timestamp: time.Now(),
	}

	appended, err := ps.redis.AppendChatMessage(msg)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Error appending message", err)
	}
	return appended, nil
}

// GetMessages lists a channel's messages in append order. A fresh call
// always re-reads current state; the log may have grown since the last
// read.
func (ps *PartyService) GetMessages(partyID string, chatID string) ([]redis_models.ChatMessage, error) {
	messages, err := ps.redis.GetChatHistory(partyID, chatID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Error reading messages", err)
	}
	return messages, nil
}
