package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"
	"journal-management-api/utils"
)

type createIssueRequest struct {
	Volume int    `json:"volume" binding:"required"`
	Number int    `json:"number" binding:"required"`
	Year   int    `json:"year" binding:"required"`
	Title  string `json:"title"`
}

// CreateIssue opens a new journal issue for article assignment.
func CreateIssue(c *gin.Context) {
	var req createIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var existing int64
	if err := config.DB.Model(&models.Issue{}).
		Where("volume = ? AND number = ?", req.Volume, req.Number).
		Count(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to check issues"})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Issue already exists"})
		return
	}

	issue := models.Issue{
		Volume:    req.Volume,
		Number:    req.Number,
		Year:      req.Year,
		Status:    models.IssueOpen,
		CreatedAt: time.Now(),
	}
	if req.Title != "" {
		title := utils.SanitizeInput(req.Title)
		issue.Title = &title
	}

	if err := config.DB.Create(&issue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create issue"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "issue": issue})
}

// GetAdminIssues lists all issues including open ones.
func GetAdminIssues(c *gin.Context) {
	var issues []models.Issue
	if err := config.DB.Preload("Articles").
		Order("year DESC, volume DESC, number DESC").
		Find(&issues).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch issues"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "issues": issues, "total": len(issues)})
}

type publishArticleRequest struct {
	SubmissionID int    `json:"submission_id" binding:"required"`
	Pages        string `json:"pages"`
}

// PublishArticle releases an accepted submission into the issue, minting
// its DOI. Blocked while an APC payment is outstanding.
func PublishArticle(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	issueID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req publishArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	submission, err := submissionService().Publish(actor, req.SubmissionID, services.PublishInput{
		IssueID: issueID,
		Pages:   utils.SanitizeInput(req.Pages),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "submission": submission})
}

// CloseIssue marks an issue as published once its articles are assigned.
func CloseIssue(c *gin.Context) {
	issueID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var issue models.Issue
	if err := config.DB.First(&issue, issueID).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if issue.Status == models.IssuePublished {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Issue is already published"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.Issue{}).
		Where("issue_id = ?", issue.IssueID).
		Updates(map[string]interface{}{
			"status":       models.IssuePublished,
			"published_at": now,
			"updated_at":   now,
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to publish issue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Issue published"})
}
