package utils

/**
 * This file contains utility functions to format the keys for Redis
 * (key, value) pairs. It avoids having to call "fmt.Sprintf(...)"
 * with the same format spec every time, potentially confusing the key format.
 */

import "fmt"

func FormatChatHistoryKey(partyId string, chatId string) string {
	return fmt.Sprintf("chat_history:%s:%s", partyId, chatId)
}

func FormatPartyChannelPattern(partyId string) string {
	return fmt.Sprintf("chat_history:%s:*", partyId)
}
