package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"messagely/internal/common"
	"messagely/internal/domain/model"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	GetWithUsers(ctx context.Context, id string) (*model.MessageDetail, error)
	MarkRead(ctx context.Context, id string, at time.Time) (*model.MessageReceipt, error)
	ListFrom(ctx context.Context, username string) ([]model.MessageDetail, error)
	ListTo(ctx context.Context, username string) ([]model.MessageDetail, error)
}

type pgMessageRepository struct {
	db *sql.DB
}

func NewPgMessageRepository(db *sql.DB) MessageRepository {
	return &pgMessageRepository{db: db}
}

func (r *pgMessageRepository) Create(ctx context.Context, msg *model.Message) error {
	query := `INSERT INTO messages (id, from_username, to_username, body, sent_at)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, msg.ID, msg.FromUsername, msg.ToUsername, msg.Body, msg.SentAt)
	if err != nil {
		// Recipient (or sender) does not exist.
		if common.IsForeignKeyViolation(err) {
			return fmt.Errorf("message references unknown user: %w", common.ErrUserNotFound)
		}
		return fmt.Errorf("pgMessageRepository.Create: %w", err)
	}
	return nil
}

func (r *pgMessageRepository) GetWithUsers(ctx context.Context, id string) (*model.MessageDetail, error) {
	query := `SELECT m.id, m.body, m.sent_at, m.read_at,
	                 f.username, f.first_name, f.last_name, f.phone,
	                 t.username, t.first_name, t.last_name, t.phone
	          FROM messages AS m
	          JOIN users AS f ON m.from_username = f.username
	          JOIN users AS t ON m.to_username = t.username
	          WHERE m.id = $1`

	detail := &model.MessageDetail{FromUser: &model.UserSummary{}, ToUser: &model.UserSummary{}}
	var readAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&detail.ID, &detail.Body, &detail.SentAt, &readAt,
		&detail.FromUser.Username, &detail.FromUser.FirstName, &detail.FromUser.LastName, &detail.FromUser.Phone,
		&detail.ToUser.Username, &detail.ToUser.FirstName, &detail.ToUser.LastName, &detail.ToUser.Phone,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrMessageNotFound
		}
		return nil, fmt.Errorf("pgMessageRepository.GetWithUsers: %w", err)
	}
	if readAt.Valid {
		detail.ReadAt = &readAt.Time
	}
	return detail, nil
}

// MarkRead sets read_at once. The conditional UPDATE means concurrent calls
// race safely: exactly one applies, and the loser re-reads the winner's
// timestamp. Re-marking an already-read message is a no-op that returns the
// original read_at.
func (r *pgMessageRepository) MarkRead(ctx context.Context, id string, at time.Time) (*model.MessageReceipt, error) {
	query := `UPDATE messages SET read_at = $2
	          WHERE id = $1 AND read_at IS NULL
	          RETURNING id, read_at`
	receipt := &model.MessageReceipt{}
	err := r.db.QueryRowContext(ctx, query, id, at).Scan(&receipt.ID, &receipt.ReadAt)
	if err == nil {
		return receipt, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pgMessageRepository.MarkRead: %w", err)
	}

	// Either the message is gone or it was already read.
	var readAt sql.NullTime
	err = r.db.QueryRowContext(ctx, `SELECT id, read_at FROM messages WHERE id = $1`, id).
		Scan(&receipt.ID, &readAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrMessageNotFound
		}
		return nil, fmt.Errorf("pgMessageRepository.MarkRead: %w", err)
	}
	if !readAt.Valid {
		return nil, fmt.Errorf("pgMessageRepository.MarkRead: message %s unread but update matched no row", id)
	}
	receipt.ReadAt = readAt.Time
	return receipt, nil
}

func (r *pgMessageRepository) ListFrom(ctx context.Context, username string) ([]model.MessageDetail, error) {
	query := `SELECT m.id, m.body, m.sent_at, m.read_at,
	                 u.username, u.first_name, u.last_name, u.phone
	          FROM messages AS m
	          JOIN users AS u ON m.to_username = u.username
	          WHERE m.from_username = $1
	          ORDER BY m.sent_at`
	return r.list(ctx, query, username, false)
}

func (r *pgMessageRepository) ListTo(ctx context.Context, username string) ([]model.MessageDetail, error) {
	query := `SELECT m.id, m.body, m.sent_at, m.read_at,
	                 u.username, u.first_name, u.last_name, u.phone
	          FROM messages AS m
	          JOIN users AS u ON m.from_username = u.username
	          WHERE m.to_username = $1
	          ORDER BY m.sent_at`
	return r.list(ctx, query, username, true)
}

// list scans message rows joined with the counterpart user. When fromSide is
// true the joined summary is the sender, otherwise the recipient.
func (r *pgMessageRepository) list(ctx context.Context, query, username string, fromSide bool) ([]model.MessageDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("pgMessageRepository.list: %w", err)
	}
	defer rows.Close()

	messages := []model.MessageDetail{}
	for rows.Next() {
		var m model.MessageDetail
		var readAt sql.NullTime
		var u model.UserSummary
		if err := rows.Scan(
			&m.ID, &m.Body, &m.SentAt, &readAt,
			&u.Username, &u.FirstName, &u.LastName, &u.Phone,
		); err != nil {
			return nil, fmt.Errorf("pgMessageRepository.list: %w", err)
		}
		if readAt.Valid {
			m.ReadAt = &readAt.Time
		}
		if fromSide {
			m.FromUser = &u
		} else {
			m.ToUser = &u
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgMessageRepository.list: %w", err)
	}
	return messages, nil
}
