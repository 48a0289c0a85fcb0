package model

import (
	"time"
)

type Message struct {
	ID           string     `json:"id"`
	FromUsername string     `json:"from_username"`
	ToUsername   string     `json:"to_username"`
	Body         string     `json:"body"`
	SentAt       time.Time  `json:"sent_at"`
	ReadAt       *time.Time `json:"read_at"`
}

// MessageDetail is a message expanded with user summaries. FromUser/ToUser
// are omitted when the listing is already scoped to that side.
type MessageDetail struct {
	ID       string       `json:"id"`
	Body     string       `json:"body"`
	SentAt   time.Time    `json:"sent_at"`
	ReadAt   *time.Time   `json:"read_at"`
	FromUser *UserSummary `json:"from_user,omitempty"`
	ToUser   *UserSummary `json:"to_user,omitempty"`
}

// MessageReceipt is the minimal result of marking a message read.
type MessageReceipt struct {
	ID     string    `json:"id"`
	ReadAt time.Time `json:"read_at"`
}
