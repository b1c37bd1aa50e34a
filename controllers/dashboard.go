package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"journal-management-api/config"
	"journal-management-api/models"
)

// GetDashboardStats summarizes the editorial pipeline for editors/admins.
func GetDashboardStats(c *gin.Context) {
	type statusCount struct {
		Status models.SubmissionStatus `json:"status"`
		Count  int64                   `json:"count"`
	}

	var byStatus []statusCount
	if err := config.DB.Model(&models.Submission{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch stats"})
		return
	}

	var pendingReviews int64
	config.DB.Model(&models.Review{}).
		Where("status IN ?", []models.ReviewStatus{models.ReviewPending, models.ReviewInProgress}).
		Count(&pendingReviews)

	var unpaidAPCs int64
	config.DB.Model(&models.Payment{}).
		Where("status = ?", models.PaymentPending).
		Count(&unpaidAPCs)

	var openComplaints int64
	config.DB.Model(&models.Complaint{}).
		Where("status IN ?", []string{models.ComplaintOpen, models.ComplaintInReview}).
		Count(&openComplaints)

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"submissions":     byStatus,
		"open_reviews":    pendingReviews,
		"unpaid_apcs":     unpaidAPCs,
		"open_complaints": openComplaints,
	})
}
