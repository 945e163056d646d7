package redis

import (
	redis_models "WalkyTalky/models/redis"
	redis_utils "WalkyTalky/services/redis/utils"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(Addr string, DB int) *RedisClient {
	var client *redis.Client
	if Addr != "localhost:6379" {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			panic("Error parsing Redis URL")
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
	}
}

// AppendChatMessage pushes a message onto a channel's list and returns the
// message with its position filled in. RPUSH is atomic on the Redis side,
// so concurrent appends to the same channel serialize there and every
// message gets a distinct, strictly increasing position.
// Key format: "chat_history:{partyId}:{chatId}"
func (rc *RedisClient) AppendChatMessage(msg *redis_models.ChatMessage) (*redis_models.ChatMessage, error) {
	key := redis_utils.FormatChatHistoryKey(msg.PartyID, msg.ChatID)
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("error marshaling chat message: %v", err)
	}

	length, err := rc.client.RPush(rc.ctx, key, data).Result()
	if err != nil {
		return nil, fmt.Errorf("error appending chat message: %v", err)
	}

	// The list length after RPUSH is this message's 1-based position. The
	// stored copy carries position 0; rewrite it so readers see the real one.
	msg.Position = length
	data, err = json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("error marshaling chat message: %v", err)
	}
	if err := rc.client.LSet(rc.ctx, key, length-1, data).Err(); err != nil {
		return nil, fmt.Errorf("error finalizing chat message: %v", err)
	}
	return msg, nil
}

// GetChatHistory returns every message of a channel in append order.
// Key format: "chat_history:{partyId}:{chatId}"
func (rc *RedisClient) GetChatHistory(partyId string, chatId string) ([]redis_models.ChatMessage, error) {
	key := redis_utils.FormatChatHistoryKey(partyId, chatId)
	entries, err := rc.client.LRange(rc.ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("error getting chat history: %v", err)
	}

	messages := make([]redis_models.ChatMessage, 0, len(entries))
	for _, entry := range entries {
		var msg redis_models.ChatMessage
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			return nil, fmt.Errorf("error unmarshaling chat message: %v", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// DeletePartyChannels removes every chat list belonging to a party. Used
// when a party is torn down so its channels become unreachable together.
func (rc *RedisClient) DeletePartyChannels(partyId string) error {
	pattern := redis_utils.FormatPartyChannelPattern(partyId)
	iter := rc.client.Scan(rc.ctx, 0, pattern, 0).Iterator()
	for iter.Next(rc.ctx) {
		if err := rc.client.Del(rc.ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("error deleting chat history key %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("error scanning party channels: %v", err)
	}
	return nil
}

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(keys []string) error {
	for _, key := range keys {
		if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %v", key, err)
		}
	}
	return nil
}

// Ping verifies the connection is alive.
func (rc *RedisClient) Ping() error {
	return rc.client.Ping(rc.ctx).Err()
}
