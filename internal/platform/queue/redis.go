package queue

import (
	"context"
	"encoding/json"
	"log"

	"messagely/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

func ConnectRedis() {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx := context.Background()
	if _, err := RDB.Ping(ctx).Result(); err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
}

func CloseRedis() {
	if RDB != nil {
		RDB.Close()
	}
}

// MessageEvent is pushed onto the notify queue when a message is created.
type MessageEvent struct {
	MessageID    string `json:"message_id"`
	FromUsername string `json:"from_username"`
	ToUsername   string `json:"to_username"`
}

// MessageQueue publishes message events to a Redis list consumed by the
// notification worker.
type MessageQueue struct {
	rdb  *redis.Client
	name string
}

func NewMessageQueue(rdb *redis.Client, name string) *MessageQueue {
	return &MessageQueue{rdb: rdb, name: name}
}

func (q *MessageQueue) MessageCreated(ctx context.Context, e MessageEvent) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, q.name, payload).Err()
}
