package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"journal-management-api/config"
	"journal-management-api/models"
)

// Outbox records notification side effects produced by lifecycle
// transitions. Events are written in the same transaction as the status
// change; delivery happens afterwards and is best-effort.
type Outbox interface {
	Enqueue(tx *gorm.DB, event *models.OutboxEvent) error
	Dispatch(events []models.OutboxEvent)
}

// MailOutbox delivers queued events over SMTP and mirrors each one as an
// in-app notification row.
type MailOutbox struct {
	db *gorm.DB
}

func NewMailOutbox(db *gorm.DB) *MailOutbox {
	return &MailOutbox{db: db}
}

func (o *MailOutbox) Enqueue(tx *gorm.DB, event *models.OutboxEvent) error {
	event.Status = models.OutboxPending
	event.CreatedAt = time.Now()
	return tx.Create(event).Error
}

// Dispatch attempts delivery of the given events. Failures are logged and
// recorded on the event row; they never propagate to the caller.
func (o *MailOutbox) Dispatch(events []models.OutboxEvent) {
	for i := range events {
		o.dispatchOne(&events[i])
	}
}

func (o *MailOutbox) dispatchOne(event *models.OutboxEvent) {
	now := time.Now()
	updates := map[string]interface{}{
		"attempts": gorm.Expr("attempts + 1"),
	}

	err := config.SendMail([]string{event.RecipientEmail}, event.Subject, event.Body)
	if err != nil {
		log.Printf("outbox: failed to deliver %s to %s: %v", event.EventKey, event.RecipientEmail, err)
		msg := err.Error()
		updates["status"] = models.OutboxFailed
		updates["last_error"] = msg
	} else {
		updates["status"] = models.OutboxSent
		updates["sent_at"] = now
		updates["last_error"] = nil
	}

	if dbErr := o.db.Model(&models.OutboxEvent{}).
		Where("event_id = ?", event.EventID).
		Updates(updates).Error; dbErr != nil {
		log.Printf("outbox: failed to record delivery state for event %d: %v", event.EventID, dbErr)
	}

	if event.RecipientUserID == nil {
		return
	}
	notification := models.Notification{
		UserID:              *event.RecipientUserID,
		Title:               event.Subject,
		Message:             event.Body,
		Type:                "info",
		RelatedSubmissionID: event.RelatedSubmissionID,
		CreatedAt:           now,
	}
	if dbErr := o.db.Create(&notification).Error; dbErr != nil {
		log.Printf("outbox: failed to create in-app notification for user %d: %v",
			*event.RecipientUserID, dbErr)
	}
}

// DispatchPending retries events still marked PENDING or FAILED, up to
// limit rows. Used by the admin redeliver endpoint.
func (o *MailOutbox) DispatchPending(limit int) error {
	var events []models.OutboxEvent
	if err := o.db.Where("status IN ?", []string{models.OutboxPending, models.OutboxFailed}).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return fmt.Errorf("failed to load pending outbox events: %w", err)
	}
	o.Dispatch(events)
	return nil
}

// defaultTemplates backs event rendering when no email_templates row is
// configured for the event key.
var defaultTemplates = map[string][2]string{
	EventSubmissionReceived: {
		"Submission received: {title}",
		"<p>Dear {recipient_name},</p><p>Your manuscript \"{title}\" ({submission_number}) has been received and will be screened by the editorial office.</p>",
	},
	EventFormattingRequest: {
		"Formatting changes requested: {title}",
		"<p>Dear {recipient_name},</p><p>Your manuscript \"{title}\" ({submission_number}) has been returned for formatting corrections. Please see the editor's comments and resubmit.</p><p>{comments}</p>",
	},
	EventRevisionRequest: {
		"Revision requested: {title}",
		"<p>Dear {recipient_name},</p><p>The editor has requested a revision of \"{title}\" ({submission_number}).</p><p>{comments}</p>",
	},
	EventRevisionSubmitted: {
		"Revision submitted: {title}",
		"<p>A revised version of \"{title}\" ({submission_number}) has been submitted and is ready for re-review.</p>",
	},
	EventAccepted: {
		"Manuscript accepted: {title}",
		"<p>Dear {recipient_name},</p><p>Congratulations! Your manuscript \"{title}\" ({submission_number}) has been accepted for publication.</p>",
	},
	EventRejected: {
		"Editorial decision: {title}",
		"<p>Dear {recipient_name},</p><p>We regret to inform you that \"{title}\" ({submission_number}) was not accepted for publication.</p><p>{comments}</p>",
	},
	EventPublished: {
		"Your article has been published: {title}",
		"<p>Dear {recipient_name},</p><p>\"{title}\" has been published. DOI: {doi}</p>",
	},
	EventReviewInvitation: {
		"Invitation to review: {title}",
		"<p>Dear {recipient_name},</p><p>You are invited to review the manuscript \"{title}\". Please respond by {due_date}.</p>",
	},
	EventReviewReminder: {
		"Review reminder: {title}",
		"<p>Dear {recipient_name},</p><p>This is a reminder that your review of \"{title}\" is due on {due_date}.</p>",
	},
	EventPaymentConfirmed: {
		"Payment received: {title}",
		"<p>Dear {recipient_name},</p><p>Your article processing charge for \"{title}\" (invoice {invoice_number}) has been received.</p>",
	},
	EventPaymentRefunded: {
		"Payment refunded: {title}",
		"<p>Dear {recipient_name},</p><p>Your article processing charge for \"{title}\" (invoice {invoice_number}) has been refunded.</p>",
	},
}

func applyTemplatePlaceholders(text string, data map[string]string) string {
	for key, value := range data {
		text = strings.ReplaceAll(text, "{"+key+"}", value)
	}
	return text
}

// RenderEvent resolves subject/body for an event key, preferring an active
// row in email_templates and falling back to the built-in defaults.
func RenderEvent(db *gorm.DB, eventKey string, data map[string]string) (subject, body string, err error) {
	var tmpl models.EmailTemplate
	dbErr := db.Where("event_key = ? AND is_active = 1", eventKey).First(&tmpl).Error
	if dbErr == nil {
		return applyTemplatePlaceholders(tmpl.Subject, data),
			applyTemplatePlaceholders(tmpl.Body, data), nil
	}

	fallback, ok := defaultTemplates[eventKey]
	if !ok {
		return "", "", fmt.Errorf("no template for event %q", eventKey)
	}
	return applyTemplatePlaceholders(fallback[0], data),
		applyTemplatePlaceholders(fallback[1], data), nil
}
