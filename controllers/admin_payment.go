package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/utils"
)

// GetPayments lists APC payment records, filterable by status.
func GetPayments(c *gin.Context) {
	status := c.Query("status")

	query := config.DB.Preload("Submission.Author")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var payments []models.Payment
	if err := query.Order("created_at DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "payments": payments, "total": len(payments)})
}

type markPaidRequest struct {
	PaymentMethod string `json:"payment_method"`
	TransactionID string `json:"transaction_id"`
}

// MarkPaymentPaid confirms an APC payment, unblocking publication.
func MarkPaymentPaid(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	paymentID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req markPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	payment, err := paymentService().MarkPaid(actor, paymentID,
		utils.SanitizeInput(req.PaymentMethod), utils.SanitizeInput(req.TransactionID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "payment": payment})
}

// RefundPayment records an admin-issued refund.
func RefundPayment(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	paymentID, ok := paramID(c, "id")
	if !ok {
		return
	}

	payment, err := paymentService().MarkRefunded(actor, paymentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "payment": payment})
}

type paymentProofRequest struct {
	ProofURL string `json:"proof_url" binding:"required"`
}

// AttachPaymentProof records the author's payment-proof reference against
// an outstanding payment.
func AttachPaymentProof(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	paymentID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req paymentProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	payment, err := paymentService().AttachProof(actor, paymentID, strings.TrimSpace(req.ProofURL))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "payment": payment})
}

// GetMyPayments lists the caller's own APC payments.
func GetMyPayments(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var payments []models.Payment
	if err := config.DB.Joins("JOIN submissions ON submissions.submission_id = payments.submission_id").
		Where("submissions.author_id = ?", actor.UserID).
		Order("payments.created_at DESC").
		Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "payments": payments, "total": len(payments)})
}
