// controllers/submission.go
package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/utils"
)

// ===================== SUBMISSION MANAGEMENT =====================

var manuscriptTypes = map[string]bool{
	models.ManuscriptResearchArticle: true,
	models.ManuscriptReviewArticle:   true,
	models.ManuscriptCaseStudy:       true,
	models.ManuscriptShortComm:       true,
	models.ManuscriptLetter:          true,
}

func buildSubmissionNumber(now time.Time) string {
	tail := strings.ToUpper(strings.Split(uuid.NewString(), "-")[0])
	return fmt.Sprintf("MS-%d-%s", now.Year(), tail)
}

// GetSubmissions returns the caller's submissions; editors and admins see
// everything.
func GetSubmissions(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	status := c.Query("status")
	manuscriptType := c.Query("manuscript_type")

	query := config.DB.Preload("Author").
		Preload("CoAuthors").
		Preload("Files").
		Preload("Revisions").
		Preload("Payments")

	if actor.Role == models.RoleAuthor || actor.Role == models.RoleReviewer {
		query = query.Where("author_id = ?", actor.UserID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if manuscriptType != "" {
		query = query.Where("manuscript_type = ?", manuscriptType)
	}

	var submissions []models.Submission
	if err := query.Order("created_at DESC").Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// GetSubmission returns a specific submission
func GetSubmission(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	submission, err := submissionService().GetSubmission(submissionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if actor.Role == models.RoleAuthor && submission.AuthorID != actor.UserID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Insufficient permissions"})
		return
	}

	// Reviewers may only see submissions they were invited to, and never
	// the confidential-to-editor parts.
	if actor.Role == models.RoleReviewer && submission.AuthorID != actor.UserID {
		invited := false
		for i := range submission.Reviews {
			if submission.Reviews[i].ReviewerID == actor.UserID {
				invited = true
				break
			}
		}
		if !invited {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Insufficient permissions"})
			return
		}
		submission.Payments = nil
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "submission": submission})
}

type createSubmissionRequest struct {
	Title          string   `json:"title" binding:"required"`
	Abstract       string   `json:"abstract" binding:"required"`
	Keywords       []string `json:"keywords" binding:"required"`
	ManuscriptType string   `json:"manuscript_type" binding:"required"`
}

// CreateSubmission creates a DRAFT owned by the caller.
func CreateSubmission(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req createSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if !manuscriptTypes[req.ManuscriptType] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unknown manuscript type"})
		return
	}

	now := time.Now()
	submission := models.Submission{
		SubmissionNumber: buildSubmissionNumber(now),
		Title:            utils.SanitizeInput(req.Title),
		Abstract:         utils.SanitizeInput(req.Abstract),
		Keywords:         strings.Join(req.Keywords, ","),
		ManuscriptType:   req.ManuscriptType,
		Status:           models.StatusDraft,
		AuthorID:         actor.UserID,
		Version:          1,
		CreatedAt:        now,
	}

	if err := config.DB.Create(&submission).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create submission"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "submission": submission})
}

type updateSubmissionRequest struct {
	Title          *string  `json:"title"`
	Abstract       *string  `json:"abstract"`
	Keywords       []string `json:"keywords"`
	ManuscriptType *string  `json:"manuscript_type"`
}

// UpdateSubmission edits a submission's metadata. Only drafts and
// submissions returned for formatting are editable by the author.
func UpdateSubmission(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req updateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var submission models.Submission
	if err := config.DB.First(&submission, submissionID).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if submission.AuthorID != actor.UserID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Insufficient permissions"})
		return
	}
	if submission.Status != models.StatusDraft && submission.Status != models.StatusSubmitted {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Submission can no longer be edited"})
		return
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if req.Title != nil {
		updates["title"] = utils.SanitizeInput(*req.Title)
	}
	if req.Abstract != nil {
		updates["abstract"] = utils.SanitizeInput(*req.Abstract)
	}
	if req.Keywords != nil {
		updates["keywords"] = strings.Join(req.Keywords, ",")
	}
	if req.ManuscriptType != nil {
		if !manuscriptTypes[*req.ManuscriptType] {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unknown manuscript type"})
			return
		}
		updates["manuscript_type"] = *req.ManuscriptType
	}

	if err := config.DB.Model(&models.Submission{}).
		Where("submission_id = ?", submission.SubmissionID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update submission"})
		return
	}

	updated, err := submissionService().GetSubmission(submission.SubmissionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "submission": updated})
}

// SubmitSubmission moves a draft into the editorial pipeline.
func SubmitSubmission(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var manuscripts int64
	if err := config.DB.Model(&models.SubmissionFile{}).
		Where("submission_id = ? AND category = ? AND deleted_at IS NULL", submissionID, models.FileManuscript).
		Count(&manuscripts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to check files"})
		return
	}
	if manuscripts == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "A manuscript file must be uploaded before submitting"})
		return
	}

	submission, err := submissionService().Submit(actor, submissionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "submission": submission})
}

// WithdrawSubmission retires a pre-acceptance submission.
func WithdrawSubmission(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	submission, err := submissionService().Withdraw(actor, submissionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "submission": submission})
}

type proofApprovalRequest struct {
	Approved bool   `json:"approved"`
	Comments string `json:"comments"`
}

// ProofApproval records the author's verdict on the final proofs of an
// accepted article. Correction requests are routed to the editors; the
// submission status is unchanged either way.
func ProofApproval(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req proofApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if !req.Approved && strings.TrimSpace(req.Comments) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Correction requests require comments"})
		return
	}

	var submission models.Submission
	if err := config.DB.First(&submission, submissionID).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if submission.AuthorID != actor.UserID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Insufficient permissions"})
		return
	}
	if submission.Status != models.StatusAccepted {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Proofs are only reviewed after acceptance"})
		return
	}

	verdict := "proof_approved"
	if !req.Approved {
		verdict = "proof_corrections_requested"
	}

	now := time.Now()
	status := submission.Status
	history := models.SubmissionStatusHistory{
		SubmissionID: submission.SubmissionID,
		OldStatus:    &status,
		NewStatus:    status,
		ChangedBy:    actor.UserID,
		CreatedAt:    now,
	}
	note := verdict
	history.Notes = &note
	if req.Comments != "" {
		comments := req.Comments
		history.Reason = &comments
	}
	if err := config.DB.Create(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to record proof decision"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Proof decision recorded", "verdict": verdict})
}

// GetSubmissionHistory returns a submission's status trail.
func GetSubmissionHistory(c *gin.Context) {
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

	var history []models.SubmissionStatusHistory
	if err := config.DB.Where("submission_id = ?", submissionID).
		Order("created_at ASC").
		Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "history": history})
}
