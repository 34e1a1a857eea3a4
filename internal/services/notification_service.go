package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"erp_backoffice/internal/models"
	"erp_backoffice/internal/repositories"
	"erp_backoffice/pkg/utils"
)

var ErrNotificationNotFound = errors.New("notification not found")

// notificationChannel returns the redis pub/sub channel of one user.
func notificationChannel(userID int64) string {
	return fmt.Sprintf("notifications:%d", userID)
}

// --- NotificationService Interface ---
//
// Notify writes the durable row first and only then publishes to redis.
// The publish is best effort: a redis outage is logged and swallowed, the
// user still sees the notification on the next list fetch.
type NotificationService interface {
	Notify(executor repositories.SQLExecutor, userID int64, title string, body *string, kind string) (*models.Notification, error)
	GetNotifications(userID int64, unreadOnly bool, page, pageSize int) ([]models.Notification, int, error)
	MarkRead(userID, notificationID int64) error
	MarkAllRead(userID int64) (int64, error)
	CountUnread(userID int64) (int, error)
	Subscribe(ctx context.Context, userID int64) (*redis.PubSub, error)
}

// --- notificationService Implementation ---
type notificationService struct {
	notificationRepo repositories.NotificationRepository
	redisClient      *redis.Client
	db               *sql.DB
}

// NewNotificationService creates a new instance of NotificationService.
// redisClient may be nil, in which case push delivery is disabled and only
// the durable store is used.
func NewNotificationService(notificationRepo repositories.NotificationRepository, redisClient *redis.Client, db *sql.DB) NotificationService {
	return &notificationService{notificationRepo: notificationRepo, redisClient: redisClient, db: db}
}

func (s *notificationService) Notify(executor repositories.SQLExecutor, userID int64, title string, body *string, kind string) (*models.Notification, error) {
	notification := &models.Notification{
		UserID: userID,
		Title:  title,
		Body:   body,
		Kind:   kind,
	}
	if _, err := s.notificationRepo.CreateNotification(executor, notification); err != nil {
		return nil, fmt.Errorf("failed to store notification: %w", err)
	}

	s.publish(notification)
	return notification, nil
}

// publish projects the stored row onto the user's redis channel.
func (s *notificationService) publish(notification *models.Notification) {
	if s.redisClient == nil {
		return
	}
	payload, err := json.Marshal(notification)
	if err != nil {
		utils.LogError(err, "failed to marshal notification for push")
		return
	}
	ctx := context.Background()
	if err := s.redisClient.Publish(ctx, notificationChannel(notification.UserID), payload).Err(); err != nil {
		utils.LogError(err, fmt.Sprintf("failed to push notification %d to user %d", notification.ID, notification.UserID))
	}
}

func (s *notificationService) GetNotifications(userID int64, unreadOnly bool, page, pageSize int) ([]models.Notification, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	notifications, totalCount, err := s.notificationRepo.GetNotificationsByUser(userID, unreadOnly, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get notifications: %w", err)
	}
	return notifications, totalCount, nil
}

func (s *notificationService) MarkRead(userID, notificationID int64) error {
	if err := s.notificationRepo.MarkRead(s.db, notificationID, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(userID int64) (int64, error) {
	count, err := s.notificationRepo.MarkAllRead(s.db, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	return count, nil
}

func (s *notificationService) CountUnread(userID int64) (int, error) {
	count, err := s.notificationRepo.CountUnread(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// Subscribe opens the user's push channel. Callers own the returned PubSub
// and must close it.
func (s *notificationService) Subscribe(ctx context.Context, userID int64) (*redis.PubSub, error) {
	if s.redisClient == nil {
		return nil, errors.New("push channel is not configured")
	}
	return s.redisClient.Subscribe(ctx, notificationChannel(userID)), nil
}
