package notify

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"
)

const userChannelPrefix = "okr:notifications:"

// UserChannel is the pub/sub channel a user's open sessions subscribe to.
func UserChannel(userID string) string {
	return userChannelPrefix + userID
}

// Publisher is the part of the redis client used for realtime delivery.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisNotifier pushes notifications to connected clients over redis pub/sub.
type RedisNotifier struct {
	client Publisher
}

func NewRedisNotifier(client Publisher) *RedisNotifier {
	return &RedisNotifier{client: client}
}

// NewRedisClient connects to the redis server at addr.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		Protocol: 2,
	})
}

func (r *RedisNotifier) Notify(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}

	return r.client.Publish(ctx, UserChannel(n.UserID), payload).Err()
}
