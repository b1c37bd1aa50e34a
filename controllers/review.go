package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"
	"journal-management-api/utils"
)

// GetMyReviews lists the caller's review invitations and assignments.
func GetMyReviews(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	status := c.Query("status")
	query := config.DB.Preload("Submission", func(db *gorm.DB) *gorm.DB {
		return db.Select("submission_id", "submission_number", "title", "abstract", "keywords", "manuscript_type", "status")
	}).Where("reviewer_id = ?", actor.UserID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var reviews []models.Review
	if err := query.Order("due_date ASC").Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews, "total": len(reviews)})
}

// GetReview returns one of the caller's reviews.
func GetReview(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var review models.Review
	if err := config.DB.Preload("Submission").First(&review, reviewID).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if review.ReviewerID != actor.UserID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Insufficient permissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}

type respondRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// RespondToInvitation records accept/decline for a pending invitation.
func RespondToInvitation(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	review, err := reviewService().Respond(actor, reviewID, *req.Accept)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}

type reviewDraftRequest struct {
	Recommendation       *string `json:"recommendation"`
	Rating               *int    `json:"rating"`
	AuthorComments       *string `json:"author_comments"`
	ConfidentialComments *string `json:"confidential_comments"`
}

// SaveReviewDraft updates an in-progress review without submitting it.
func SaveReviewDraft(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req reviewDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	draft := services.ReviewDraft{
		Rating:               req.Rating,
		AuthorComments:       req.AuthorComments,
		ConfidentialComments: req.ConfidentialComments,
	}
	if req.Recommendation != nil {
		rec := models.Recommendation(strings.ToUpper(strings.TrimSpace(*req.Recommendation)))
		draft.Recommendation = &rec
	}

	review, err := reviewService().SaveDraft(actor, reviewID, draft)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}

type submitReviewRequest struct {
	Recommendation string `json:"recommendation" binding:"required"`
	AuthorComments string `json:"author_comments" binding:"required"`
	Rating         int    `json:"rating"`
}

// SubmitReview finalizes a review; once completed it is immutable.
func SubmitReview(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	input := services.ReviewSubmissionInput{
		Recommendation: models.Recommendation(strings.ToUpper(strings.TrimSpace(req.Recommendation))),
		AuthorComments: strings.TrimSpace(utils.SanitizeInput(req.AuthorComments)),
		Rating:         req.Rating,
	}

	review, err := reviewService().Submit(actor, reviewID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}
