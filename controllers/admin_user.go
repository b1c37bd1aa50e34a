package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/utils"
)

// GetUsers lists accounts for the admin desk.
func GetUsers(c *gin.Context) {
	role := c.Query("role")
	status := c.Query("status")

	query := config.DB.Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch users"})
		return
	}

	page := utils.ParsePagination(c.Query("page"), c.Query("page_size"))
	var users []models.User
	if err := page.Apply(query).Order("created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"users":     users,
		"total":     total,
		"page":      page.Page,
		"page_size": page.PageSize,
	})
}

type updateUserRoleRequest struct {
	Role models.Role `json:"role" binding:"required"`
}

// UpdateUserRole grants a user a different capability tag.
func UpdateUserRole(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req updateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if !models.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unknown role"})
		return
	}

	result := config.DB.Model(&models.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"role": req.Role, "updated_at": time.Now()})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update role"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Role updated"})
}

type updateUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateUserStatus suspends or reactivates an account. Accounts are never
// hard-deleted.
func UpdateUserStatus(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req updateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	switch req.Status {
	case models.UserStatusActive, models.UserStatusInactive, models.UserStatusSuspended:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unknown status"})
		return
	}

	result := config.DB.Model(&models.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"status": req.Status, "updated_at": time.Now()})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update status"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status updated"})
}

// GetReviewers lists active reviewer accounts for the invite picker.
func GetReviewers(c *gin.Context) {
	var reviewers []models.User
	if err := config.DB.
		Where("role IN ? AND status = ?",
			[]models.Role{models.RoleReviewer, models.RoleEditor}, models.UserStatusActive).
		Order("last_name ASC").
		Find(&reviewers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch reviewers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reviewers": reviewers, "total": len(reviewers)})
}
