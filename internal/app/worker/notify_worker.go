package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"messagely/internal/domain/repository"
	"messagely/internal/platform/config"
	"messagely/internal/platform/queue"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// NotifyWorker consumes message-created events from the Redis queue and
// records the notification that would be sent to the recipient's phone.
// Actual SMS delivery is out of scope; the worker resolves the recipient and
// logs the delivery.
type NotifyWorker struct {
	rdb      *redis.Client
	userRepo repository.UserRepository
	log      *logrus.Logger
}

func NewNotifyWorker(rdb *redis.Client, userRepo repository.UserRepository, log *logrus.Logger) *NotifyWorker {
	return &NotifyWorker{rdb: rdb, userRepo: userRepo, log: log}
}

func (w *NotifyWorker) Start(ctx context.Context) {
	queueName := config.AppConfig.NotifyQueueName
	w.log.WithField("queue", queueName).Info("notify worker started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info("notify worker stopping")
			return
		default:
			// Blocking pop from the Redis queue
			result, err := w.rdb.BRPop(ctx, 0*time.Second, queueName).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					// context errors mean the worker is shutting down
					continue
				}
				w.log.WithError(err).Error("failed to pop from notify queue")
				time.Sleep(5 * time.Second) // Wait before retrying on other errors
				continue
			}

			// result is an array: [queueName, value]
			if len(result) < 2 || result[1] == "" {
				w.log.Warn("notify queue returned empty payload")
				continue
			}

			var event queue.MessageEvent
			if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
				w.log.WithError(err).Error("failed to decode notify event")
				continue
			}
			w.notify(ctx, event)
		}
	}
}

func (w *NotifyWorker) notify(ctx context.Context, event queue.MessageEvent) {
	recipient, err := w.userRepo.Get(ctx, event.ToUsername)
	if err != nil {
		w.log.WithFields(logrus.Fields{
			"message_id": event.MessageID,
			"recipient":  event.ToUsername,
		}).WithError(err).Warn("skipping notification, recipient lookup failed")
		return
	}

	w.log.WithFields(logrus.Fields{
		"message_id": event.MessageID,
		"from":       event.FromUsername,
		"recipient":  recipient.Username,
		"phone":      recipient.Phone,
	}).Info("new message notification")
}
