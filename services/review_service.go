package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"journal-management-api/models"
)

// ReviewService manages reviewer invitations and the review
// sub-lifecycle. Completing the last review never transitions the parent
// submission; the editor issues decisions explicitly.
type ReviewService struct {
	db     *gorm.DB
	outbox Outbox
}

func NewReviewService(db *gorm.DB, outbox Outbox) *ReviewService {
	return &ReviewService{db: db, outbox: outbox}
}

// Invite creates a PENDING review invitation for a submission under
// review and queues the invitation email.
func (s *ReviewService) Invite(actor Actor, submissionID, reviewerID int, dueDate time.Time) (*models.Review, error) {
	if actor.Role != models.RoleEditor && actor.Role != models.RoleAdmin {
		return nil, rejectTransition(ReasonInsufficientRole, "only editors may invite reviewers")
	}

	var submission models.Submission
	if err := s.db.First(&submission, submissionID).Error; err != nil {
		return nil, err
	}
	if submission.Status != models.StatusUnderReview {
		return nil, rejectTransition(ReasonPreconditionNotMet,
			"reviewers can only be invited while the submission is under review")
	}
	if submission.AuthorID == reviewerID {
		return nil, rejectTransition(ReasonPreconditionNotMet,
			"the submitting author cannot review their own manuscript")
	}

	var reviewer models.User
	if err := s.db.Where("user_id = ? AND status = ?", reviewerID, models.UserStatusActive).
		First(&reviewer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rejectTransition(ReasonPreconditionNotMet, "reviewer %d not found or inactive", reviewerID)
		}
		return nil, err
	}

	now := time.Now()
	review := models.Review{
		SubmissionID: submissionID,
		ReviewerID:   reviewerID,
		Status:       models.ReviewPending,
		DueDate:      dueDate,
		InvitedAt:    now,
		CreatedAt:    now,
	}

	var events []models.OutboxEvent
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Re-checked under the transaction: an editorial decision may have
		// moved the submission out of review since the load above.
		var stillUnderReview int64
		if err := tx.Model(&models.Submission{}).
			Where("submission_id = ? AND status = ?", submissionID, models.StatusUnderReview).
			Count(&stillUnderReview).Error; err != nil {
			return err
		}
		if stillUnderReview == 0 {
			return rejectTransition(ReasonPreconditionNotMet,
				"reviewers can only be invited while the submission is under review")
		}

		var existing int64
		if err := tx.Model(&models.Review{}).
			Where("submission_id = ? AND reviewer_id = ? AND status IN ?",
				submissionID, reviewerID,
				[]models.ReviewStatus{models.ReviewPending, models.ReviewInProgress}).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return rejectTransition(ReasonPreconditionNotMet,
				"reviewer already has an open invitation for this submission")
		}

		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		event, err := s.buildReviewEvent(tx, EventReviewInvitation, &review, &reviewer, &submission)
		if err != nil {
			return err
		}
		if err := s.outbox.Enqueue(tx, event); err != nil {
			return err
		}
		events = append(events, *event)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.outbox.Dispatch(events)
	return &review, nil
}

// Respond records the reviewer's accept/decline of a pending invitation.
func (s *ReviewService) Respond(actor Actor, reviewID int, accept bool) (*models.Review, error) {
	review, err := s.loadOwnReview(actor, reviewID)
	if err != nil {
		return nil, err
	}

	next, err := PlanInvitationResponse(review.Status, accept)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := s.db.Model(&models.Review{}).
		Where("review_id = ? AND status = ?", review.ReviewID, models.ReviewPending).
		Updates(map[string]interface{}{
			"status":       next,
			"responded_at": now,
			"updated_at":   now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, rejectTransition(ReasonAlreadyResponded, "invitation has already been responded to")
	}

	review.Status = next
	review.RespondedAt = &now
	return review, nil
}

// ReviewDraft carries a reviewer's work-in-progress fields.
type ReviewDraft struct {
	Recommendation       *models.Recommendation
	Rating               *int
	AuthorComments       *string
	ConfidentialComments *string
}

// SaveDraft updates an in-progress review without completing it. Completed
// reviews are immutable.
func (s *ReviewService) SaveDraft(actor Actor, reviewID int, draft ReviewDraft) (*models.Review, error) {
	review, err := s.loadOwnReview(actor, reviewID)
	if err != nil {
		return nil, err
	}
	if review.Status != models.ReviewInProgress {
		return nil, rejectTransition(ReasonReviewNotInProgress,
			"cannot edit a review in status %s", review.Status)
	}

	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}
	if draft.Recommendation != nil {
		if !models.ValidRecommendation(*draft.Recommendation) {
			return nil, rejectTransition(ReasonMissingFields,
				"recommendation %q is not recognized", *draft.Recommendation)
		}
		updates["recommendation"] = *draft.Recommendation
	}
	if draft.Rating != nil {
		updates["rating"] = *draft.Rating
	}
	if draft.AuthorComments != nil {
		updates["author_comments"] = *draft.AuthorComments
	}
	if draft.ConfidentialComments != nil {
		updates["confidential_comments"] = *draft.ConfidentialComments
	}

	if err := s.db.Model(&models.Review{}).
		Where("review_id = ?", review.ReviewID).
		Updates(updates).Error; err != nil {
		return nil, err
	}

	var updated models.Review
	if err := s.db.First(&updated, review.ReviewID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// Submit finalizes a review. Guarded the same way submission transitions
// are: the conditional update makes a double submit lose.
func (s *ReviewService) Submit(actor Actor, reviewID int, input ReviewSubmissionInput) (*models.Review, error) {
	review, err := s.loadOwnReview(actor, reviewID)
	if err != nil {
		return nil, err
	}

	next, err := PlanReviewSubmission(review.Status, input)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := s.db.Model(&models.Review{}).
		Where("review_id = ? AND status = ?", review.ReviewID, models.ReviewInProgress).
		Updates(map[string]interface{}{
			"status":          next,
			"recommendation":  input.Recommendation,
			"author_comments": input.AuthorComments,
			"rating":          input.Rating,
			"completed_at":    now,
			"updated_at":      now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, rejectTransition(ReasonReviewNotInProgress, "review is no longer in progress")
	}

	var updated models.Review
	if err := s.db.First(&updated, review.ReviewID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// Remind dispatches a reminder email for an in-progress review and bumps
// the reminder counter. Capped by REVIEW_REMINDER_CAP.
func (s *ReviewService) Remind(actor Actor, reviewID int) (*models.Review, error) {
	if actor.Role != models.RoleEditor && actor.Role != models.RoleAdmin {
		return nil, rejectTransition(ReasonInsufficientRole, "only editors may send reminders")
	}

	var review models.Review
	if err := s.db.Preload("Reviewer").Preload("Submission").
		First(&review, reviewID).Error; err != nil {
		return nil, err
	}

	if err := PlanReminder(review.Status, review.RemindersSent); err != nil {
		return nil, err
	}

	now := time.Now()
	var events []models.OutboxEvent
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Review{}).
			Where("review_id = ? AND status = ? AND reminders_sent = ?",
				review.ReviewID, models.ReviewInProgress, review.RemindersSent).
			Updates(map[string]interface{}{
				"reminders_sent": review.RemindersSent + 1,
				"updated_at":     now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return rejectTransition(ReasonVersionConflict, "review was modified by another request")
		}

		event, err := s.buildReviewEvent(tx, EventReviewReminder, &review, review.Reviewer, review.Submission)
		if err != nil {
			return err
		}
		if err := s.outbox.Enqueue(tx, event); err != nil {
			return err
		}
		events = append(events, *event)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.outbox.Dispatch(events)
	review.RemindersSent++
	return &review, nil
}

func (s *ReviewService) loadOwnReview(actor Actor, reviewID int) (*models.Review, error) {
	var review models.Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		return nil, err
	}
	if review.ReviewerID != actor.UserID {
		return nil, rejectTransition(ReasonInsufficientRole, "not the invited reviewer")
	}
	return &review, nil
}

func (s *ReviewService) buildReviewEvent(tx *gorm.DB, eventKey string, review *models.Review, reviewer *models.User, submission *models.Submission) (*models.OutboxEvent, error) {
	if reviewer == nil || submission == nil {
		return nil, errors.New("review event requires reviewer and submission")
	}
	data := map[string]string{
		"recipient_name":    reviewer.FullName(),
		"title":             submission.Title,
		"submission_number": submission.SubmissionNumber,
		"due_date":          review.DueDate.Format("2 January 2006"),
	}
	subject, body, err := RenderEvent(tx, eventKey, data)
	if err != nil {
		return nil, err
	}
	reviewerID := reviewer.UserID
	submissionID := submission.SubmissionID
	return &models.OutboxEvent{
		EventKey:            eventKey,
		RecipientUserID:     &reviewerID,
		RecipientEmail:      reviewer.Email,
		Subject:             subject,
		Body:                body,
		RelatedSubmissionID: &submissionID,
	}, nil
}
