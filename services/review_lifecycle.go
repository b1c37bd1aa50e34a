package services

import (
	"os"
	"strconv"

	"journal-management-api/models"
)

// defaultReminderCap bounds how many reminders an editor can send for one
// review invitation. Overridable via REVIEW_REMINDER_CAP.
const defaultReminderCap = 3

// ReminderCap returns the configured maximum reminders per review.
func ReminderCap() int {
	if raw := os.Getenv("REVIEW_REMINDER_CAP"); raw != "" {
		if cap, err := strconv.Atoi(raw); err == nil && cap > 0 {
			return cap
		}
	}
	return defaultReminderCap
}

// PlanInvitationResponse validates a reviewer's accept/decline against the
// current review status and returns the resulting status.
func PlanInvitationResponse(current models.ReviewStatus, accept bool) (models.ReviewStatus, error) {
	if current != models.ReviewPending {
		return current, rejectTransition(ReasonAlreadyResponded,
			"invitation in status %s has already been responded to", current)
	}
	if accept {
		return models.ReviewInProgress, nil
	}
	return models.ReviewDeclined, nil
}

// ReviewSubmissionInput carries the fields a completed review must have.
type ReviewSubmissionInput struct {
	Recommendation models.Recommendation
	AuthorComments string
	Rating         int
}

// PlanReviewSubmission validates a final review submission. A review can
// only complete from IN_PROGRESS, with non-empty author comments and a
// recommendation from the closed set. Completed reviews are immutable.
func PlanReviewSubmission(current models.ReviewStatus, input ReviewSubmissionInput) (models.ReviewStatus, error) {
	if current != models.ReviewInProgress {
		return current, rejectTransition(ReasonReviewNotInProgress,
			"cannot submit a review in status %s", current)
	}
	if input.AuthorComments == "" {
		return current, rejectTransition(ReasonMissingFields, "author comments are required")
	}
	if !models.ValidRecommendation(input.Recommendation) {
		return current, rejectTransition(ReasonMissingFields,
			"recommendation %q is not recognized", input.Recommendation)
	}
	return models.ReviewCompleted, nil
}

// PlanReminder checks whether another reminder may be dispatched for the
// review. Reminders never change the review status.
func PlanReminder(current models.ReviewStatus, remindersSent int) error {
	if current != models.ReviewInProgress {
		return rejectTransition(ReasonReviewNotInProgress,
			"reminders are only sent while a review is in progress")
	}
	if remindersSent >= ReminderCap() {
		return rejectTransition(ReasonPreconditionNotMet,
			"reminder cap of %d reached", ReminderCap())
	}
	return nil
}
