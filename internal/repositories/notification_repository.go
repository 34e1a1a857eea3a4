package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"erp_backoffice/internal/models"
)

// NotificationRepository defines the interface for the durable notification
// store. Push delivery is a projection layered on top of these rows, so the
// insert here is the source of truth.
type NotificationRepository interface {
	CreateNotification(executor SQLExecutor, notification *models.Notification) (int64, error)
	GetNotificationByID(id int64) (*models.Notification, error)
	GetNotificationsByUser(userID int64, unreadOnly bool, page, pageSize int) ([]models.Notification, int, error)
	MarkRead(executor SQLExecutor, notificationID, userID int64) error
	MarkAllRead(executor SQLExecutor, userID int64) (int64, error)
	CountUnread(userID int64) (int, error)
}

type notificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new instance of NotificationRepository.
func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// CreateNotification inserts an unread notification for a user.
func (r *notificationRepository) CreateNotification(executor SQLExecutor, notification *models.Notification) (int64, error) {
	query := `INSERT INTO notifications (user_id, title, body, kind, is_read, created_at)
	          VALUES ($1, $2, $3, $4, FALSE, $5)
	          RETURNING id, created_at`

	err := executor.QueryRow(query,
		notification.UserID, notification.Title, notification.Body, notification.Kind, time.Now(),
	).Scan(&notification.ID, &notification.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: notification references missing user (constraint: %s)", ErrForeignKeyViolation, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating notification: %v", ErrDatabaseError, err)
	}
	notification.IsRead = false
	return notification.ID, nil
}

// GetNotificationByID retrieves a notification by ID.
func (r *notificationRepository) GetNotificationByID(id int64) (*models.Notification, error) {
	n := &models.Notification{}
	query := `SELECT id, user_id, title, body, kind, is_read, read_at, created_at FROM notifications WHERE id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&n.ID, &n.UserID, &n.Title, &n.Body, &n.Kind, &n.IsRead, &n.ReadAt, &n.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting notification by ID %d: %v", ErrDatabaseError, id, err)
	}
	return n, nil
}

// GetNotificationsByUser lists a user's notifications newest first.
func (r *notificationRepository) GetNotificationsByUser(userID int64, unreadOnly bool, page, pageSize int) ([]models.Notification, int, error) {
	notifications := []models.Notification{}
	totalCount := 0

	query := `SELECT id, user_id, title, body, kind, is_read, read_at, created_at, COUNT(*) OVER() as total_count
	          FROM notifications WHERE user_id = $1`
	args := []interface{}{userID}
	argCount := 2

	if unreadOnly {
		query += " AND is_read = FALSE"
	}
	query += " ORDER BY created_at DESC, id DESC"

	if pageSize > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, pageSize)
		argCount++
		if page > 0 {
			query += fmt.Sprintf(" OFFSET $%d", argCount)
			args = append(args, (page-1)*pageSize)
		}
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying notifications for user ID %d: %v", ErrDatabaseError, userID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.Title, &n.Body, &n.Kind, &n.IsRead, &n.ReadAt, &n.CreatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning notification: %v", ErrDatabaseError, err)
		}
		notifications = append(notifications, n)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating notification rows: %v", ErrDatabaseError, err)
	}
	return notifications, totalCount, nil
}

// MarkRead marks one notification read. The user_id guard keeps users from
// acknowledging each other's notifications.
func (r *notificationRepository) MarkRead(executor SQLExecutor, notificationID, userID int64) error {
	query := `UPDATE notifications SET is_read = TRUE, read_at = $1 WHERE id = $2 AND user_id = $3 AND is_read = FALSE`

	result, err := executor.Exec(query, time.Now(), notificationID, userID)
	if err != nil {
		return fmt.Errorf("%w: marking notification ID %d read: %v", ErrDatabaseError, notificationID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for notification ID %d: %v", ErrDatabaseError, notificationID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of a user read and returns the
// number of rows touched.
func (r *notificationRepository) MarkAllRead(executor SQLExecutor, userID int64) (int64, error) {
	query := `UPDATE notifications SET is_read = TRUE, read_at = $1 WHERE user_id = $2 AND is_read = FALSE`

	result, err := executor.Exec(query, time.Now(), userID)
	if err != nil {
		return 0, fmt.Errorf("%w: marking all notifications read for user ID %d: %v", ErrDatabaseError, userID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for user ID %d: %v", ErrDatabaseError, userID, err)
	}
	return rowsAffected, nil
}

// CountUnread counts a user's unread notifications.
func (r *notificationRepository) CountUnread(userID int64) (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting unread notifications for user ID %d: %v", ErrDatabaseError, userID, err)
	}
	return count, nil
}
