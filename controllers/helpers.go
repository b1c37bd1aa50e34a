package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"
)

func newOutbox() services.Outbox {
	return services.NewMailOutbox(config.DB)
}

func submissionService() *services.SubmissionService {
	return services.NewSubmissionService(config.DB, newOutbox())
}

func reviewService() *services.ReviewService {
	return services.NewReviewService(config.DB, newOutbox())
}

func revisionService() *services.RevisionService {
	return services.NewRevisionService(config.DB, submissionService())
}

func paymentService() *services.PaymentService {
	return services.NewPaymentService(config.DB, newOutbox())
}

// currentActor reads the authenticated user set by the auth middleware and
// hands it to the services as an explicit parameter.
func currentActor(c *gin.Context) (services.Actor, bool) {
	userValue, ok := c.Get("userID")
	if !ok {
		return services.Actor{}, false
	}
	roleValue, ok := c.Get("role")
	if !ok {
		return services.Actor{}, false
	}
	userID, ok := userValue.(int)
	if !ok {
		return services.Actor{}, false
	}
	role, ok := roleValue.(models.Role)
	if !ok {
		return services.Actor{}, false
	}
	return services.Actor{UserID: userID, Role: role}, true
}

func mustActor(c *gin.Context) (services.Actor, bool) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "User context missing"})
	}
	return actor, ok
}

func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// respondServiceError maps service errors onto the HTTP taxonomy:
// validation and state errors 400, role errors 403, missing rows 404,
// stale concurrent writes 409.
func respondServiceError(c *gin.Context, err error) {
	var transitionErr *services.TransitionError
	if errors.As(err, &transitionErr) {
		status := http.StatusBadRequest
		switch transitionErr.Reason {
		case services.ReasonInsufficientRole:
			status = http.StatusForbidden
		case services.ReasonVersionConflict:
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"success": false, "error": transitionErr.Error()})
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
}
