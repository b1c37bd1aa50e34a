package services

import (
	"time"

	"gorm.io/gorm"

	"journal-management-api/models"
)

// PaymentService mutates APC payment records. Payments are created by the
// lifecycle manager at acceptance and are never deleted; admins move them
// between PENDING, PAID, FAILED and REFUNDED.
type PaymentService struct {
	db     *gorm.DB
	outbox Outbox
}

func NewPaymentService(db *gorm.DB, outbox Outbox) *PaymentService {
	return &PaymentService{db: db, outbox: outbox}
}

// MarkPaid records a confirmed payment, unblocking the publish transition.
func (s *PaymentService) MarkPaid(actor Actor, paymentID int, method, transactionID string) (*models.Payment, error) {
	if actor.Role != models.RoleAdmin {
		return nil, rejectTransition(ReasonInsufficientRole, "only admins may confirm payments")
	}

	payment, err := s.load(paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status == models.PaymentRefunded {
		return nil, rejectTransition(ReasonInvalidTransition, "refunded payments cannot be re-confirmed")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     models.PaymentPaid,
		"paid_at":    now,
		"updated_at": now,
	}
	if method != "" {
		updates["payment_method"] = method
	}
	if transactionID != "" {
		updates["transaction_id"] = transactionID
	}

	return s.applyAndNotify(payment, updates, EventPaymentConfirmed)
}

// MarkRefunded records an admin-issued refund.
func (s *PaymentService) MarkRefunded(actor Actor, paymentID int) (*models.Payment, error) {
	if actor.Role != models.RoleAdmin {
		return nil, rejectTransition(ReasonInsufficientRole, "only admins may refund payments")
	}

	payment, err := s.load(paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != models.PaymentPaid {
		return nil, rejectTransition(ReasonInvalidTransition, "only paid payments can be refunded")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":      models.PaymentRefunded,
		"refunded_at": now,
		"updated_at":  now,
	}
	return s.applyAndNotify(payment, updates, EventPaymentRefunded)
}

// AttachProof records the author's uploaded payment-proof reference.
func (s *PaymentService) AttachProof(actor Actor, paymentID int, proofURL string) (*models.Payment, error) {
	if proofURL == "" {
		return nil, rejectTransition(ReasonMissingFields, "proof url is required")
	}

	payment, err := s.load(paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Submission == nil || (actor.Role == models.RoleAuthor && payment.Submission.AuthorID != actor.UserID) {
		return nil, rejectTransition(ReasonInsufficientRole, "not the submitting author")
	}
	if payment.Status != models.PaymentPending && payment.Status != models.PaymentFailed {
		return nil, rejectTransition(ReasonInvalidTransition,
			"proof can only be attached while the payment is outstanding")
	}

	now := time.Now()
	if err := s.db.Model(&models.Payment{}).
		Where("payment_id = ?", payment.PaymentID).
		Updates(map[string]interface{}{"proof_url": proofURL, "updated_at": now}).Error; err != nil {
		return nil, err
	}
	payment.ProofURL = &proofURL
	payment.UpdatedAt = &now
	return payment, nil
}

func (s *PaymentService) load(paymentID int) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.Preload("Submission.Author").First(&payment, paymentID).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *PaymentService) applyAndNotify(payment *models.Payment, updates map[string]interface{}, eventKey string) (*models.Payment, error) {
	var events []models.OutboxEvent
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Payment{}).
			Where("payment_id = ?", payment.PaymentID).
			Updates(updates).Error; err != nil {
			return err
		}

		if payment.Submission == nil || payment.Submission.Author == nil {
			return nil
		}
		author := payment.Submission.Author
		data := map[string]string{
			"recipient_name":    author.FullName(),
			"title":             payment.Submission.Title,
			"submission_number": payment.Submission.SubmissionNumber,
			"invoice_number":    payment.InvoiceNumber,
		}
		subject, body, err := RenderEvent(tx, eventKey, data)
		if err != nil {
			return err
		}
		authorID := author.UserID
		submissionID := payment.SubmissionID
		event := models.OutboxEvent{
			EventKey:            eventKey,
			RecipientUserID:     &authorID,
			RecipientEmail:      author.Email,
			Subject:             subject,
			Body:                body,
			RelatedSubmissionID: &submissionID,
		}
		if err := s.outbox.Enqueue(tx, &event); err != nil {
			return err
		}
		events = append(events, event)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.outbox.Dispatch(events)
	return s.load(payment.PaymentID)
}
