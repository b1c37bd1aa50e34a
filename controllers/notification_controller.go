package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"
)

// GetNotifications lists the caller's in-app notifications.
func GetNotifications(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	query := config.DB.Where("user_id = ?", actor.UserID)
	if c.Query("unread") == "1" {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Limit(100).Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch notifications"})
		return
	}

	var unread int64
	config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", actor.UserID, false).
		Count(&unread)

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkNotificationRead marks one notification as read.
func MarkNotificationRead(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	notificationID, ok := paramID(c, "id")
	if !ok {
		return
	}

	result := config.DB.Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", notificationID, actor.UserID).
		Updates(map[string]interface{}{"is_read": true, "updated_at": time.Now()})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update notification"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllNotificationsRead clears the caller's unread badge.
func MarkAllNotificationsRead(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	if err := config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", actor.UserID, false).
		Updates(map[string]interface{}{"is_read": true, "updated_at": time.Now()}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RedeliverOutbox retries pending/failed outbox events. Admin tooling for
// when the SMTP relay was down.
func RedeliverOutbox(c *gin.Context) {
	outbox := services.NewMailOutbox(config.DB)
	if err := outbox.DispatchPending(100); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to redeliver events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Redelivery attempted"})
}

// GetOutboxEvents lists recent outbox events for the admin desk.
func GetOutboxEvents(c *gin.Context) {
	status := c.Query("status")

	query := config.DB.Model(&models.OutboxEvent{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var events []models.OutboxEvent
	if err := query.Order("created_at DESC").Limit(200).Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "events": events, "total": len(events)})
}
