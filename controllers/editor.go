package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"
	"journal-management-api/utils"
)

// GetEditorSubmissions lists the editorial queue, filterable by status.
func GetEditorSubmissions(c *gin.Context) {
	status := c.Query("status")

	query := config.DB.Preload("Author").
		Preload("Reviews.Reviewer").
		Preload("Revisions").
		Preload("Payments")
	if status != "" {
		query = query.Where("status = ?", status)
	} else {
		query = query.Where("status <> ?", models.StatusDraft)
	}

	var submissions []models.Submission
	if err := query.Order("submitted_at ASC").Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// BeginScreening claims a SUBMITTED manuscript for initial screening.
func BeginScreening(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	submission, err := submissionService().BeginScreening(actor, submissionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "submission": submission})
}

type screeningRequest struct {
	Decision    string `json:"decision" binding:"required"`
	ScopeCheck  bool   `json:"scope_check"`
	FormatCheck bool   `json:"format_check"`
	Comments    string `json:"comments"`
}

// ScreenSubmission records the editor's initial-screening verdict.
func ScreenSubmission(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req screeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	checklist := services.ScreeningChecklist{
		ScopeCheck:  req.ScopeCheck,
		FormatCheck: req.FormatCheck,
		Comments:    strings.TrimSpace(utils.SanitizeInput(req.Comments)),
	}
	decision := services.ScreeningDecision(strings.ToUpper(strings.TrimSpace(req.Decision)))

	submission, err := submissionService().Screen(actor, submissionID, decision, checklist)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "submission": submission})
}

type decisionRequest struct {
	Decision string `json:"decision" binding:"required"`
	Comments string `json:"comments"`
}

// DecideSubmission records the editorial decision after peer review.
func DecideSubmission(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	decision := services.EditorialDecision(strings.ToUpper(strings.TrimSpace(req.Decision)))
	comments := strings.TrimSpace(utils.SanitizeInput(req.Comments))

	submission, err := submissionService().Decide(actor, submissionID, decision, comments)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "submission": submission})
}

type inviteReviewerRequest struct {
	ReviewerID int    `json:"reviewer_id" binding:"required"`
	DueDate    string `json:"due_date" binding:"required"` // YYYY-MM-DD
}

// InviteReviewer creates a review invitation for a submission under review.
func InviteReviewer(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req inviteReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid due date, expected YYYY-MM-DD"})
		return
	}
	if !dueDate.After(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Due date must be in the future"})
		return
	}

	review, err := reviewService().Invite(actor, submissionID, req.ReviewerID, dueDate)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "review": review})
}

// RemindReviewer dispatches a reminder for an in-progress review.
func RemindReviewer(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "id")
	if !ok {
		return
	}

	review, err := reviewService().Remind(actor, reviewID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}

// GetSubmissionReviews returns all reviews of a submission, including
// confidential comments; editor eyes only.
func GetSubmissionReviews(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var reviews []models.Review
	if err := config.DB.Preload("Reviewer").
		Where("submission_id = ?", submissionID).
		Order("invited_at ASC").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch reviews"})
		return
	}

	// Expose confidential comments explicitly: the JSON tag hides them in
	// every other response shape.
	type editorReview struct {
		models.Review
		ConfidentialComments *string `json:"confidential_comments,omitempty"`
	}
	out := make([]editorReview, 0, len(reviews))
	for i := range reviews {
		out = append(out, editorReview{Review: reviews[i], ConfidentialComments: reviews[i].ConfidentialComments})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": out, "total": len(out)})
}
