package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"
	"journal-management-api/utils"
)

type createRevisionRequest struct {
	RevisionLetter      string `json:"revision_letter" binding:"required"`
	ResponseToReviewers string `json:"response_to_reviewers"`
}

// CreateRevision stores a revision round and returns the submission to
// peer review.
func CreateRevision(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req createRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	input := services.RevisionInput{
		RevisionLetter:      strings.TrimSpace(utils.SanitizeInput(req.RevisionLetter)),
		ResponseToReviewers: strings.TrimSpace(utils.SanitizeInput(req.ResponseToReviewers)),
	}

	revision, err := revisionService().CreateRevision(actor, submissionID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "revision": revision})
}

// GetRevisions lists a submission's revision rounds.
func GetRevisions(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var submission models.Submission
	if err := config.DB.First(&submission, submissionID).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if actor.Role == models.RoleAuthor && submission.AuthorID != actor.UserID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Insufficient permissions"})
		return
	}

	revisions, err := revisionService().ListRevisions(submissionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "revisions": revisions, "total": len(revisions)})
}
