package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"journal-management-api/models"
)

// Actor identifies who is requesting a lifecycle operation. It is threaded
// explicitly through every call; the services never read ambient request
// state.
type Actor struct {
	UserID int
	Role   models.Role
}

// APCEnabled reports whether the journal charges an article processing
// charge. Defaults to enabled.
func APCEnabled() bool {
	switch strings.ToLower(os.Getenv("APC_ENABLED")) {
	case "0", "false", "no":
		return false
	}
	return true
}

// APCAmount returns the configured charge amount (default 1500).
func APCAmount() float64 {
	if raw := os.Getenv("APC_AMOUNT"); raw != "" {
		if amount, err := strconv.ParseFloat(raw, 64); err == nil && amount >= 0 {
			return amount
		}
	}
	return 1500
}

// APCCurrency returns the configured charge currency (default USD).
func APCCurrency() string {
	if currency := os.Getenv("APC_CURRENCY"); currency != "" {
		return currency
	}
	return "USD"
}

// SubmissionService applies planned lifecycle transitions to stored
// submissions. Status writes are guarded by a conditional update on
// (status, version) so a stale concurrent decision loses deterministically.
type SubmissionService struct {
	db     *gorm.DB
	outbox Outbox
}

func NewSubmissionService(db *gorm.DB, outbox Outbox) *SubmissionService {
	return &SubmissionService{db: db, outbox: outbox}
}

// GetSubmission loads a submission with its owned records.
func (s *SubmissionService) GetSubmission(submissionID int) (*models.Submission, error) {
	var submission models.Submission
	if err := s.db.Preload("Author").
		Preload("CoAuthors").
		Preload("Files").
		Preload("Reviews").
		Preload("Revisions").
		Preload("Payments").
		First(&submission, submissionID).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// planFunc produces a validated transition for the submission's current
// status. Splitting planning from application lets submit/screen/decide/
// publish share one guarded write path.
type planFunc func(current models.SubmissionStatus) (Transition, error)

type transitionOptions struct {
	comments string
	issueID  *int
	pages    string
}

// Submit moves a draft into the editorial pipeline.
func (s *SubmissionService) Submit(actor Actor, submissionID int) (*models.Submission, error) {
	return s.applyTransition(actor, submissionID, func(current models.SubmissionStatus) (Transition, error) {
		return PlanTransition(current, TriggerSubmit, actor.Role)
	}, transitionOptions{})
}

// Withdraw retires a pre-acceptance submission at the author's request.
func (s *SubmissionService) Withdraw(actor Actor, submissionID int) (*models.Submission, error) {
	return s.applyTransition(actor, submissionID, func(current models.SubmissionStatus) (Transition, error) {
		return PlanTransition(current, TriggerWithdraw, actor.Role)
	}, transitionOptions{})
}

// BeginScreening claims a submitted manuscript for initial screening.
func (s *SubmissionService) BeginScreening(actor Actor, submissionID int) (*models.Submission, error) {
	return s.applyTransition(actor, submissionID, func(current models.SubmissionStatus) (Transition, error) {
		return PlanTransition(current, TriggerBeginScreening, actor.Role)
	}, transitionOptions{})
}

// Screen records the editor's initial-screening verdict.
func (s *SubmissionService) Screen(actor Actor, submissionID int, decision ScreeningDecision, checklist ScreeningChecklist) (*models.Submission, error) {
	return s.applyTransition(actor, submissionID, func(current models.SubmissionStatus) (Transition, error) {
		return PlanScreening(current, decision, checklist, actor.Role)
	}, transitionOptions{comments: checklist.Comments})
}

// Decide records the editorial decision after peer review.
func (s *SubmissionService) Decide(actor Actor, submissionID int, decision EditorialDecision, comments string) (*models.Submission, error) {
	return s.applyTransition(actor, submissionID, func(current models.SubmissionStatus) (Transition, error) {
		return PlanEditorialDecision(current, decision, actor.Role)
	}, transitionOptions{comments: comments})
}

// PublishInput carries the publication metadata assigned at publish time.
type PublishInput struct {
	IssueID int
	Pages   string
}

// Publish releases an accepted article into an issue, minting its DOI.
// Blocked while an APC payment is outstanding.
func (s *SubmissionService) Publish(actor Actor, submissionID int, input PublishInput) (*models.Submission, error) {
	issueID := input.IssueID
	return s.applyTransition(actor, submissionID, func(current models.SubmissionStatus) (Transition, error) {
		return PlanTransition(current, TriggerPublish, actor.Role)
	}, transitionOptions{issueID: &issueID, pages: input.Pages})
}

func (s *SubmissionService) applyTransition(actor Actor, submissionID int, plan planFunc, opts transitionOptions) (*models.Submission, error) {
	var events []models.OutboxEvent
	err := s.db.Transaction(func(tx *gorm.DB) error {
		queued, err := s.applyTransitionTx(tx, actor, submissionID, plan, opts)
		if err != nil {
			return err
		}
		events = queued
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Best-effort delivery after commit; failures are logged by the outbox.
	s.outbox.Dispatch(events)

	return s.GetSubmission(submissionID)
}

// applyTransitionTx validates and applies a transition inside the caller's
// transaction, so callers can make other writes stand or fall with the
// status change. Returns the events queued for dispatch after commit.
func (s *SubmissionService) applyTransitionTx(tx *gorm.DB, actor Actor, submissionID int, plan planFunc, opts transitionOptions) ([]models.OutboxEvent, error) {
	var submission models.Submission
	if err := tx.Preload("Author").Preload("CoAuthors").
		First(&submission, submissionID).Error; err != nil {
		return nil, err
	}

	transition, err := plan(submission.Status)
	if err != nil {
		return nil, err
	}

	// Authors may only act on their own submissions.
	if actor.Role == models.RoleAuthor && submission.AuthorID != actor.UserID {
		return nil, rejectTransition(ReasonInsufficientRole, "not the submitting author")
	}

	if transition.RequiresPaidAPC && APCEnabled() {
		paid, err := s.hasPaidAPC(tx, submission.SubmissionID)
		if err != nil {
			return nil, err
		}
		if !paid {
			return nil, rejectTransition(ReasonPreconditionNotMet,
				"article processing charge has not been paid")
		}
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     transition.To,
		"version":    submission.Version + 1,
		"updated_at": now,
	}
	switch transition.To {
	case models.StatusSubmitted:
		if submission.SubmittedAt == nil {
			updates["submitted_at"] = now
		}
	case models.StatusAccepted:
		updates["accepted_at"] = now
	}

	var doi string
	if transition.AssignDOI {
		if opts.issueID == nil || *opts.issueID == 0 {
			return nil, rejectTransition(ReasonPreconditionNotMet,
				"an issue must be selected before publishing")
		}
		var issue models.Issue
		if err := tx.First(&issue, *opts.issueID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, rejectTransition(ReasonPreconditionNotMet, "issue %d not found", *opts.issueID)
			}
			return nil, err
		}
		doi = BuildDOI(submission.SubmissionNumber)
		updates["doi"] = doi
		updates["issue_id"] = *opts.issueID
		updates["published_at"] = now
		if opts.pages != "" {
			updates["pages"] = opts.pages
		}
	}

	// Guarded write: if another editor got here first, zero rows match
	// and the stale transition is rejected.
	result := tx.Model(&models.Submission{}).
		Where("submission_id = ? AND status = ? AND version = ?",
			submission.SubmissionID, transition.From, submission.Version).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, rejectTransition(ReasonVersionConflict,
			"submission was modified by another request")
	}

	oldStatus := submission.Status
	history := models.SubmissionStatusHistory{
		SubmissionID: submission.SubmissionID,
		OldStatus:    &oldStatus,
		NewStatus:    transition.To,
		ChangedBy:    actor.UserID,
		CreatedAt:    now,
	}
	if opts.comments != "" {
		comments := opts.comments
		history.Reason = &comments
	}
	note := fmt.Sprintf("trigger=%s", transition.Trigger)
	history.Notes = &note
	if err := tx.Create(&history).Error; err != nil {
		return nil, err
	}

	if transition.CreatePayment && APCEnabled() {
		payment := models.Payment{
			SubmissionID:  submission.SubmissionID,
			Amount:        APCAmount(),
			Currency:      APCCurrency(),
			Status:        models.PaymentPending,
			InvoiceNumber: BuildInvoiceNumber(submission.SubmissionNumber),
			CreatedAt:     now,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return nil, err
		}
	}

	if transition.EventKey == "" {
		return nil, nil
	}
	return s.enqueueTransitionEvents(tx, &submission, transition, opts, doi)
}

func (s *SubmissionService) hasPaidAPC(tx *gorm.DB, submissionID int) (bool, error) {
	var count int64
	err := tx.Model(&models.Payment{}).
		Where("submission_id = ? AND status = ?", submissionID, models.PaymentPaid).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check payment status: %w", err)
	}
	return count > 0, nil
}

func (s *SubmissionService) enqueueTransitionEvents(tx *gorm.DB, submission *models.Submission, transition Transition, opts transitionOptions, doi string) ([]models.OutboxEvent, error) {
	data := map[string]string{
		"title":             submission.Title,
		"submission_number": submission.SubmissionNumber,
		"comments":          opts.comments,
		"doi":               doi,
	}

	type recipient struct {
		userID *int
		email  string
		name   string
	}
	var recipients []recipient

	if transition.NotifyEditors {
		var editors []models.User
		if err := tx.Where("role IN ? AND status = ?",
			[]models.Role{models.RoleEditor}, models.UserStatusActive).
			Find(&editors).Error; err != nil {
			return nil, err
		}
		for i := range editors {
			id := editors[i].UserID
			recipients = append(recipients, recipient{userID: &id, email: editors[i].Email, name: editors[i].FullName()})
		}
	} else {
		if submission.Author != nil {
			id := submission.Author.UserID
			recipients = append(recipients, recipient{userID: &id, email: submission.Author.Email, name: submission.Author.FullName()})
		}
		// Publication goes out to the whole byline, not just the
		// corresponding author.
		if transition.EventKey == EventPublished {
			for i := range submission.CoAuthors {
				recipients = append(recipients, recipient{email: submission.CoAuthors[i].Email, name: submission.CoAuthors[i].Name})
			}
		}
	}

	submissionID := submission.SubmissionID
	var events []models.OutboxEvent
	for _, r := range recipients {
		if r.email == "" {
			continue
		}
		data["recipient_name"] = r.name
		subject, body, err := RenderEvent(tx, transition.EventKey, data)
		if err != nil {
			return nil, err
		}
		event := models.OutboxEvent{
			EventKey:            transition.EventKey,
			RecipientUserID:     r.userID,
			RecipientEmail:      r.email,
			Subject:             subject,
			Body:                body,
			RelatedSubmissionID: &submissionID,
		}
		if err := s.outbox.Enqueue(tx, &event); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}
