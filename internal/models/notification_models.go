package models

import "time"

// Notification is a durable per-user message. The realtime push channel is
// a projection of these rows; it is never a second source of truth.
type Notification struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"user_id" db:"user_id"`
	Title     string     `json:"title" db:"title"`
	Body      *string    `json:"body,omitempty" db:"body"`
	Kind      string     `json:"kind" db:"kind"` // info, warning, status_change...
	IsRead    bool       `json:"is_read" db:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty" db:"read_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
