package redis

import "time"

// ChatMessage represents one entry of a channel's append-only log. The
// position is assigned by the Redis list append and is strictly increasing
// within a channel; messages are immutable once appended.
type ChatMessage struct {
	ID       string `json:"id"`
	PartyID  string `json:"partyId"`
	ChatID   string `json:"chatId"` // "everyone" or a team id
	UserID   string `json:"userId"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
	// 1-based sequence number inside the channel.
	Position  int64     `json:"position"`
	Timestamp time.Time `json:"timestamp"`
}
