package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"erp_backoffice/internal/middleware"
	"erp_backoffice/internal/services"
	"erp_backoffice/pkg/utils"
)

// NotificationHandler holds the notification service.
type NotificationHandler struct {
	notificationService services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(ns services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: ns}
}

// GetNotifications lists the authenticated user's notifications.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return
	}

	unreadOnly := false
	if raw := c.Query("unread_only"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Query parameter 'unread_only' must be a boolean.", ""))
			return
		}
		unreadOnly = parsed
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	notifications, total, err := h.notificationService.GetNotifications(userID, unreadOnly, page, pageSize)
	if err != nil {
		utils.LogError(err, "GetNotifications: Error from notificationService.GetNotifications")
		respondInternal(c, "Failed to fetch notifications.")
		return
	}
	respondList(c, notifications, total, page, pageSize)
}

// MarkRead marks one of the authenticated user's notifications as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return
	}

	notificationID, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(userID, notificationID); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Notification not found.", ""))
		} else {
			utils.LogError(err, "MarkRead: Error from notificationService.MarkRead")
			respondInternal(c, "Failed to mark notification read.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead marks every unread notification of the user as read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return
	}

	count, err := h.notificationService.MarkAllRead(userID)
	if err != nil {
		utils.LogError(err, "MarkAllRead: Error from notificationService.MarkAllRead")
		respondInternal(c, "Failed to mark notifications read.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked_read": count})
}

// CountUnread returns the unread notification count of the user.
func (h *NotificationHandler) CountUnread(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return
	}

	count, err := h.notificationService.CountUnread(userID)
	if err != nil {
		utils.LogError(err, "CountUnread: Error from notificationService.CountUnread")
		respondInternal(c, "Failed to count unread notifications.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// Stream pushes the user's notifications over server-sent events until the
// client disconnects.
func (h *NotificationHandler) Stream(c *gin.Context) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return
	}

	pubsub, err := h.notificationService.Subscribe(c.Request.Context(), userID)
	if err != nil {
		utils.LogError(err, "Stream: failed to open notification channel")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusServiceUnavailable, utils.ErrCodeInternalServerError, "Push notifications are not available.", ""))
		return
	}
	defer pubsub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	messages := pubsub.Channel()
	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-messages:
			if !ok {
				return false
			}
			c.SSEvent("notification", msg.Payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
