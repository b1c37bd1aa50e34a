package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/utils"
)

var complaintTypes = map[string]bool{
	models.ComplaintTypeComplaint:  true,
	models.ComplaintTypeRetraction: true,
	models.ComplaintTypeCorrection: true,
}

var complaintStatuses = map[string]bool{
	models.ComplaintOpen:      true,
	models.ComplaintInReview:  true,
	models.ComplaintResolved:  true,
	models.ComplaintDismissed: true,
}

var complaintPriorities = map[string]bool{
	models.ComplaintPriorityLow:    true,
	models.ComplaintPriorityMedium: true,
	models.ComplaintPriorityHigh:   true,
}

type createComplaintRequest struct {
	SubmissionID *int   `json:"submission_id"`
	Type         string `json:"type" binding:"required"`
	Priority     string `json:"priority"`
	Subject      string `json:"subject" binding:"required"`
	Description  string `json:"description" binding:"required"`
}

// CreateComplaint files a complaint or retraction/correction request.
func CreateComplaint(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req createComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if !complaintTypes[req.Type] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unknown complaint type"})
		return
	}
	priority := req.Priority
	if priority == "" {
		priority = models.ComplaintPriorityMedium
	}
	if !complaintPriorities[priority] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unknown priority"})
		return
	}

	if req.SubmissionID != nil {
		var exists int64
		if err := config.DB.Model(&models.Submission{}).
			Where("submission_id = ?", *req.SubmissionID).
			Count(&exists).Error; err != nil || exists == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Submission not found"})
			return
		}
	}

	filedBy := actor.UserID
	complaint := models.Complaint{
		SubmissionID: req.SubmissionID,
		Type:         req.Type,
		Priority:     priority,
		Status:       models.ComplaintOpen,
		Subject:      utils.SanitizeInput(req.Subject),
		Description:  utils.SanitizeInput(req.Description),
		FiledBy:      &filedBy,
		CreatedAt:    time.Now(),
	}

	if err := config.DB.Create(&complaint).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to file complaint"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "complaint": complaint})
}

// GetComplaints lists complaints for the admin desk.
func GetComplaints(c *gin.Context) {
	status := c.Query("status")
	complaintType := c.Query("type")

	query := config.DB.Preload("Submission").Preload("Notes")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if complaintType != "" {
		query = query.Where("type = ?", complaintType)
	}

	var complaints []models.Complaint
	if err := query.Order("created_at DESC").Find(&complaints).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch complaints"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "complaints": complaints, "total": len(complaints)})
}

type updateComplaintRequest struct {
	Status   *string `json:"status"`
	Priority *string `json:"priority"`
}

// UpdateComplaint moves a complaint between admin-managed states.
func UpdateComplaint(c *gin.Context) {
	complaintID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req updateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var complaint models.Complaint
	if err := config.DB.First(&complaint, complaintID).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if req.Status != nil {
		if !complaintStatuses[*req.Status] {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unknown status"})
			return
		}
		updates["status"] = *req.Status
	}
	if req.Priority != nil {
		if !complaintPriorities[*req.Priority] {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unknown priority"})
			return
		}
		updates["priority"] = *req.Priority
	}

	if err := config.DB.Model(&models.Complaint{}).
		Where("complaint_id = ?", complaint.ComplaintID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update complaint"})
		return
	}

	var updated models.Complaint
	if err := config.DB.Preload("Notes").First(&updated, complaint.ComplaintID).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "complaint": updated})
}

type complaintNoteRequest struct {
	Note string `json:"note" binding:"required"`
}

// AddComplaintNote appends an admin note to a complaint's trail.
func AddComplaintNote(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	complaintID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req complaintNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var exists int64
	if err := config.DB.Model(&models.Complaint{}).
		Where("complaint_id = ?", complaintID).
		Count(&exists).Error; err != nil || exists == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Complaint not found"})
		return
	}

	note := models.ComplaintNote{
		ComplaintID: complaintID,
		AuthorID:    actor.UserID,
		Note:        utils.SanitizeInput(req.Note),
		CreatedAt:   time.Now(),
	}
	if err := config.DB.Create(&note).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to add note"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "note": note})
}
