package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"messagely/internal/common"
	"messagely/internal/domain/model"
	"messagely/internal/platform/queue"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMessageRepo is an in-memory MessageRepository.
type fakeMessageRepo struct {
	messages  map[string]*model.Message
	createErr error
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: map[string]*model.Message{}}
}

func summaryFor(username string) *model.UserSummary {
	return &model.UserSummary{Username: username, FirstName: "F", LastName: "L", Phone: "+15550000000"}
}

func (f *fakeMessageRepo) Create(ctx context.Context, msg *model.Message) error {
	if f.createErr != nil {
		return f.createErr
	}
	clone := *msg
	f.messages[msg.ID] = &clone
	return nil
}

func (f *fakeMessageRepo) GetWithUsers(ctx context.Context, id string) (*model.MessageDetail, error) {
	msg, ok := f.messages[id]
	if !ok {
		return nil, common.ErrMessageNotFound
	}
	return &model.MessageDetail{
		ID:       msg.ID,
		Body:     msg.Body,
		SentAt:   msg.SentAt,
		ReadAt:   msg.ReadAt,
		FromUser: summaryFor(msg.FromUsername),
		ToUser:   summaryFor(msg.ToUsername),
	}, nil
}

func (f *fakeMessageRepo) MarkRead(ctx context.Context, id string, at time.Time) (*model.MessageReceipt, error) {
	msg, ok := f.messages[id]
	if !ok {
		return nil, common.ErrMessageNotFound
	}
	if msg.ReadAt == nil {
		msg.ReadAt = &at
	}
	return &model.MessageReceipt{ID: msg.ID, ReadAt: *msg.ReadAt}, nil
}

func (f *fakeMessageRepo) ListFrom(ctx context.Context, username string) ([]model.MessageDetail, error) {
	details := []model.MessageDetail{}
	for _, msg := range f.messages {
		if msg.FromUsername == username {
			details = append(details, model.MessageDetail{
				ID: msg.ID, Body: msg.Body, SentAt: msg.SentAt, ReadAt: msg.ReadAt,
				ToUser: summaryFor(msg.ToUsername),
			})
		}
	}
	return details, nil
}

func (f *fakeMessageRepo) ListTo(ctx context.Context, username string) ([]model.MessageDetail, error) {
	details := []model.MessageDetail{}
	for _, msg := range f.messages {
		if msg.ToUsername == username {
			details = append(details, model.MessageDetail{
				ID: msg.ID, Body: msg.Body, SentAt: msg.SentAt, ReadAt: msg.ReadAt,
				FromUser: summaryFor(msg.FromUsername),
			})
		}
	}
	return details, nil
}

type fakeNotifier struct {
	events []queue.MessageEvent
	err    error
}

func (f *fakeNotifier) MessageCreated(ctx context.Context, e queue.MessageEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, e)
	return nil
}

func newMessageService(repo *fakeMessageRepo, notifier Notifier) *MessageService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewMessageService(repo, notifier, log)
}

func TestSendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("sender is always the authenticated identity", func(t *testing.T) {
		repo := newFakeMessageRepo()
		notifier := &fakeNotifier{}
		s := newMessageService(repo, notifier)

		msg, err := s.Send(ctx, "alice", SendMessageRequest{ToUsername: "bob", Body: "hi"})
		require.NoError(t, err)

		assert.Equal(t, "alice", msg.FromUsername)
		assert.Equal(t, "bob", msg.ToUsername)
		assert.NotEmpty(t, msg.ID)
		assert.False(t, msg.SentAt.IsZero())
		assert.Nil(t, msg.ReadAt)

		stored := repo.messages[msg.ID]
		require.NotNil(t, stored)
		assert.Equal(t, "alice", stored.FromUsername)

		require.Len(t, notifier.events, 1)
		assert.Equal(t, msg.ID, notifier.events[0].MessageID)
		assert.Equal(t, "bob", notifier.events[0].ToUsername)
	})

	t.Run("missing identity", func(t *testing.T) {
		s := newMessageService(newFakeMessageRepo(), nil)
		_, err := s.Send(ctx, "", SendMessageRequest{ToUsername: "bob", Body: "hi"})
		assert.ErrorIs(t, err, common.ErrUnauthenticated)
	})

	t.Run("missing body or recipient", func(t *testing.T) {
		s := newMessageService(newFakeMessageRepo(), nil)
		_, err := s.Send(ctx, "alice", SendMessageRequest{ToUsername: "bob"})
		assert.ErrorIs(t, err, common.ErrBadRequest)
	})

	t.Run("notifier failure does not fail the send", func(t *testing.T) {
		repo := newFakeMessageRepo()
		s := newMessageService(repo, &fakeNotifier{err: errors.New("redis down")})

		msg, err := s.Send(ctx, "alice", SendMessageRequest{ToUsername: "bob", Body: "hi"})
		require.NoError(t, err)
		assert.NotNil(t, repo.messages[msg.ID])
	})

	t.Run("unknown recipient surfaces user not found", func(t *testing.T) {
		repo := newFakeMessageRepo()
		repo.createErr = common.ErrUserNotFound
		s := newMessageService(repo, nil)

		_, err := s.Send(ctx, "alice", SendMessageRequest{ToUsername: "ghost", Body: "hi"})
		assert.ErrorIs(t, err, common.ErrUserNotFound)
	})
}

func TestGetMessage(t *testing.T) {
	ctx := context.Background()
	repo := newFakeMessageRepo()
	s := newMessageService(repo, nil)

	msg, err := s.Send(ctx, "alice", SendMessageRequest{ToUsername: "bob", Body: "hi"})
	require.NoError(t, err)

	t.Run("sender can read", func(t *testing.T) {
		detail, err := s.Get(ctx, "alice", msg.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", detail.FromUser.Username)
		assert.Equal(t, "bob", detail.ToUser.Username)
	})

	t.Run("recipient can read", func(t *testing.T) {
		_, err := s.Get(ctx, "bob", msg.ID)
		require.NoError(t, err)
	})

	t.Run("third party is rejected", func(t *testing.T) {
		_, err := s.Get(ctx, "carol", msg.ID)
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})

	t.Run("unknown message", func(t *testing.T) {
		_, err := s.Get(ctx, "alice", "missing-id")
		assert.ErrorIs(t, err, common.ErrMessageNotFound)
	})
}

func TestMarkRead(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fakeMessageRepo, *MessageService, *model.Message) {
		t.Helper()
		repo := newFakeMessageRepo()
		s := newMessageService(repo, nil)
		msg, err := s.Send(ctx, "alice", SendMessageRequest{ToUsername: "bob", Body: "hi"})
		require.NoError(t, err)
		return repo, s, msg
	}

	t.Run("recipient marks read", func(t *testing.T) {
		_, s, msg := setup(t)

		receipt, err := s.MarkRead(ctx, "bob", msg.ID)
		require.NoError(t, err)
		assert.Equal(t, msg.ID, receipt.ID)
		assert.True(t, receipt.ReadAt.Compare(msg.SentAt) >= 0)
	})

	t.Run("sender may not mark their own message read", func(t *testing.T) {
		_, s, msg := setup(t)
		_, err := s.MarkRead(ctx, "alice", msg.ID)
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})

	t.Run("third party is rejected", func(t *testing.T) {
		_, s, msg := setup(t)
		_, err := s.MarkRead(ctx, "carol", msg.ID)
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})

	t.Run("re-marking keeps the original timestamp", func(t *testing.T) {
		_, s, msg := setup(t)

		first, err := s.MarkRead(ctx, "bob", msg.ID)
		require.NoError(t, err)

		second, err := s.MarkRead(ctx, "bob", msg.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ReadAt, second.ReadAt)
	})

	t.Run("unknown message", func(t *testing.T) {
		_, s, _ := setup(t)
		_, err := s.MarkRead(ctx, "bob", "missing-id")
		assert.ErrorIs(t, err, common.ErrMessageNotFound)
	})
}

func TestMessageListings(t *testing.T) {
	ctx := context.Background()
	repo := newFakeMessageRepo()
	s := newMessageService(repo, nil)

	_, err := s.Send(ctx, "alice", SendMessageRequest{ToUsername: "bob", Body: "one"})
	require.NoError(t, err)
	_, err = s.Send(ctx, "bob", SendMessageRequest{ToUsername: "alice", Body: "two"})
	require.NoError(t, err)

	from, err := s.MessagesFrom(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "bob", from[0].ToUser.Username)
	assert.Nil(t, from[0].FromUser)

	to, err := s.MessagesTo(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, to, 1)
	assert.Equal(t, "bob", to[0].FromUser.Username)
	assert.Nil(t, to[0].ToUser)
}
