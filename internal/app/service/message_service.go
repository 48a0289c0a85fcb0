package service

import (
	"context"
	"fmt"
	"time"

	"messagely/internal/common"
	"messagely/internal/domain/model"
	"messagely/internal/domain/repository"
	"messagely/internal/platform/queue"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Notifier publishes a message-created event for the notification worker.
type Notifier interface {
	MessageCreated(ctx context.Context, e queue.MessageEvent) error
}

type MessageService struct {
	messageRepo repository.MessageRepository
	notifier    Notifier
	log         *logrus.Logger
}

func NewMessageService(messageRepo repository.MessageRepository, notifier Notifier, log *logrus.Logger) *MessageService {
	return &MessageService{messageRepo: messageRepo, notifier: notifier, log: log}
}

type SendMessageRequest struct {
	ToUsername string `json:"to_username"`
	Body       string `json:"body"`
}

// Send creates a message from the authenticated identity. The sender is
// always the identity, never a client-supplied value.
func (s *MessageService) Send(ctx context.Context, identity string, req SendMessageRequest) (*model.Message, error) {
	if identity == "" {
		return nil, common.ErrUnauthenticated
	}
	if req.ToUsername == "" || req.Body == "" {
		return nil, common.ErrBadRequest
	}

	msg := &model.Message{
		ID:           uuid.NewString(),
		FromUsername: identity,
		ToUsername:   req.ToUsername,
		Body:         req.Body,
		SentAt:       time.Now().UTC(),
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	// Notification delivery is best effort: a queue outage never fails the send.
	if s.notifier != nil {
		event := queue.MessageEvent{
			MessageID:    msg.ID,
			FromUsername: msg.FromUsername,
			ToUsername:   msg.ToUsername,
		}
		if err := s.notifier.MessageCreated(ctx, event); err != nil {
			s.log.WithFields(logrus.Fields{
				"message_id": msg.ID,
				"error":      err.Error(),
			}).Warn("failed to enqueue message notification")
		}
	}

	return msg, nil
}

// Get returns the expanded message if the identity is its sender or recipient.
func (s *MessageService) Get(ctx context.Context, identity, id string) (*model.MessageDetail, error) {
	detail, err := s.messageRepo.GetWithUsers(ctx, id)
	if err != nil {
		return nil, err
	}
	if identity != detail.FromUser.Username && identity != detail.ToUser.Username {
		return nil, common.ErrUnauthorized
	}
	return detail, nil
}

// MarkRead sets the read timestamp. Only the recipient may mark a message
// read; the sender is rejected like any other non-recipient.
func (s *MessageService) MarkRead(ctx context.Context, identity, id string) (*model.MessageReceipt, error) {
	detail, err := s.messageRepo.GetWithUsers(ctx, id)
	if err != nil {
		return nil, err
	}
	if identity != detail.ToUser.Username {
		return nil, common.ErrUnauthorized
	}
	receipt, err := s.messageRepo.MarkRead(ctx, id, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to mark message read: %w", err)
	}
	return receipt, nil
}

// MessagesFrom lists messages sent by the user, each with the recipient's summary.
func (s *MessageService) MessagesFrom(ctx context.Context, username string) ([]model.MessageDetail, error) {
	messages, err := s.messageRepo.ListFrom(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent messages: %w", err)
	}
	return messages, nil
}

// MessagesTo lists messages received by the user, each with the sender's summary.
func (s *MessageService) MessagesTo(ctx context.Context, username string) ([]model.MessageDetail, error) {
	messages, err := s.messageRepo.ListTo(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list received messages: %w", err)
	}
	return messages, nil
}
