package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/utils"
)

type coAuthorRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Affiliation string `json:"affiliation"`
	ORCID       string `json:"orcid"`
}

func loadEditableSubmission(c *gin.Context) (*models.Submission, bool) {
	actor, ok := mustActor(c)
	if !ok {
		return nil, false
	}
	submissionID, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	var submission models.Submission
	if err := config.DB.First(&submission, submissionID).Error; err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	if submission.AuthorID != actor.UserID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Insufficient permissions"})
		return nil, false
	}
	if submission.Status != models.StatusDraft && submission.Status != models.StatusSubmitted {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Author list can no longer be changed"})
		return nil, false
	}
	return &submission, true
}

// AddCoAuthor appends a co-author to the submission byline.
func AddCoAuthor(c *gin.Context) {
	submission, ok := loadEditableSubmission(c)
	if !ok {
		return
	}

	var req coAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if req.ORCID != "" && !utils.ValidateORCID(req.ORCID) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid ORCID format"})
		return
	}

	var count int64
	if err := config.DB.Model(&models.CoAuthor{}).
		Where("submission_id = ?", submission.SubmissionID).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to count co-authors"})
		return
	}

	coAuthor := models.CoAuthor{
		SubmissionID: submission.SubmissionID,
		Name:         utils.SanitizeInput(req.Name),
		Email:        utils.SanitizeInput(req.Email),
		DisplayOrder: int(count) + 1,
	}
	if req.Affiliation != "" {
		affiliation := utils.SanitizeInput(req.Affiliation)
		coAuthor.Affiliation = &affiliation
	}
	if req.ORCID != "" {
		orcid := req.ORCID
		coAuthor.ORCID = &orcid
	}

	if err := config.DB.Create(&coAuthor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to add co-author"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "co_author": coAuthor})
}

// RemoveCoAuthor deletes a co-author from the byline.
func RemoveCoAuthor(c *gin.Context) {
	submission, ok := loadEditableSubmission(c)
	if !ok {
		return
	}
	coAuthorID, ok := paramID(c, "co_author_id")
	if !ok {
		return
	}

	result := config.DB.Where("co_author_id = ? AND submission_id = ?", coAuthorID, submission.SubmissionID).
		Delete(&models.CoAuthor{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to remove co-author"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Co-author not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Co-author removed"})
}
