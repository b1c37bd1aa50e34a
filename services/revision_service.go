package services

import (
	"time"

	"gorm.io/gorm"

	"journal-management-api/models"
)

// RevisionService stores revision rounds and feeds them back into the
// submission lifecycle.
type RevisionService struct {
	db          *gorm.DB
	submissions *SubmissionService
}

func NewRevisionService(db *gorm.DB, submissions *SubmissionService) *RevisionService {
	return &RevisionService{db: db, submissions: submissions}
}

// RevisionInput carries the author's revision round content.
type RevisionInput struct {
	RevisionLetter      string
	ResponseToReviewers string
}

// CreateRevision records a revision round and moves the submission back
// to UNDER_REVIEW. Revisions can only be created while the submission is
// in REVISION_REQUIRED; numbering is max(existing)+1 per submission.
func (s *RevisionService) CreateRevision(actor Actor, submissionID int, input RevisionInput) (*models.Revision, error) {
	if input.RevisionLetter == "" {
		return nil, rejectTransition(ReasonMissingFields, "revision letter is required")
	}

	var submission models.Submission
	if err := s.db.First(&submission, submissionID).Error; err != nil {
		return nil, err
	}
	if actor.Role == models.RoleAuthor && submission.AuthorID != actor.UserID {
		return nil, rejectTransition(ReasonInsufficientRole, "not the submitting author")
	}
	if submission.Status != models.StatusRevisionRequired {
		return nil, rejectTransition(ReasonInvalidTransition,
			"revisions can only be submitted while a revision is required")
	}

	var revision models.Revision
	var events []models.OutboxEvent
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var maxNumber int
		row := tx.Model(&models.Revision{}).
			Where("submission_id = ?", submissionID).
			Select("COALESCE(MAX(revision_number), 0)").
			Row()
		if err := row.Scan(&maxNumber); err != nil {
			return err
		}

		revision = models.Revision{
			SubmissionID:        submissionID,
			RevisionNumber:      maxNumber + 1,
			RevisionLetter:      input.RevisionLetter,
			ResponseToReviewers: input.ResponseToReviewers,
			SubmittedBy:         actor.UserID,
			CreatedAt:           time.Now(),
		}
		if err := tx.Create(&revision).Error; err != nil {
			return err
		}

		// The guarded resubmit shares this transaction: if the submission
		// left REVISION_REQUIRED concurrently, the revision row rolls back
		// with the failed transition.
		queued, err := s.submissions.applyTransitionTx(tx, actor, submissionID,
			func(current models.SubmissionStatus) (Transition, error) {
				return PlanTransition(current, TriggerResubmit, actor.Role)
			}, transitionOptions{})
		if err != nil {
			return err
		}
		events = queued
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.submissions.outbox.Dispatch(events)
	return &revision, nil
}

// ListRevisions returns a submission's revision rounds, oldest first.
func (s *RevisionService) ListRevisions(submissionID int) ([]models.Revision, error) {
	var revisions []models.Revision
	err := s.db.Preload("Files").
		Where("submission_id = ?", submissionID).
		Order("revision_number ASC").
		Find(&revisions).Error
	return revisions, err
}
