package services

import (
	"testing"

	"journal-management-api/models"
)

func TestPlanInvitationResponse(t *testing.T) {
	status, err := PlanInvitationResponse(models.ReviewPending, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != models.ReviewInProgress {
		t.Errorf("accept: status = %s, want %s", status, models.ReviewInProgress)
	}

	status, err = PlanInvitationResponse(models.ReviewPending, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != models.ReviewDeclined {
		t.Errorf("decline: status = %s, want %s", status, models.ReviewDeclined)
	}

	answered := []models.ReviewStatus{
		models.ReviewInProgress, models.ReviewDeclined, models.ReviewCompleted,
	}
	for _, current := range answered {
		_, err := PlanInvitationResponse(current, true)
		if err == nil {
			t.Errorf("respond from %s: expected rejection", current)
			continue
		}
		if reason := reasonOf(t, err); reason != ReasonAlreadyResponded {
			t.Errorf("respond from %s: reason = %s", current, reason)
		}
	}
}

func TestPlanReviewSubmission(t *testing.T) {
	valid := ReviewSubmissionInput{
		Recommendation: models.RecommendMinorRevision,
		AuthorComments: "solid methodology, fix the notation in section 3",
		Rating:         4,
	}

	status, err := PlanReviewSubmission(models.ReviewInProgress, valid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != models.ReviewCompleted {
		t.Errorf("status = %s, want %s", status, models.ReviewCompleted)
	}

	tests := []struct {
		name    string
		current models.ReviewStatus
		input   ReviewSubmissionInput
		reason  TransitionReason
	}{
		{"pending invitation cannot be submitted", models.ReviewPending, valid, ReasonReviewNotInProgress},
		{"declined review cannot be submitted", models.ReviewDeclined, valid, ReasonReviewNotInProgress},
		{"completed review is immutable", models.ReviewCompleted, valid, ReasonReviewNotInProgress},
		{"missing comments", models.ReviewInProgress,
			ReviewSubmissionInput{Recommendation: models.RecommendAccept}, ReasonMissingFields},
		{"unknown recommendation", models.ReviewInProgress,
			ReviewSubmissionInput{Recommendation: "STRONG_ACCEPT", AuthorComments: "great"}, ReasonMissingFields},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlanReviewSubmission(tt.current, tt.input)
			if err == nil {
				t.Fatal("expected rejection")
			}
			if reason := reasonOf(t, err); reason != tt.reason {
				t.Errorf("reason = %s, want %s", reason, tt.reason)
			}
		})
	}
}

func TestPlanReminder(t *testing.T) {
	if err := PlanReminder(models.ReviewInProgress, 0); err != nil {
		t.Errorf("first reminder: unexpected error: %v", err)
	}
	if err := PlanReminder(models.ReviewInProgress, ReminderCap()-1); err != nil {
		t.Errorf("last reminder under cap: unexpected error: %v", err)
	}

	err := PlanReminder(models.ReviewInProgress, ReminderCap())
	if err == nil {
		t.Fatal("expected rejection at cap")
	}
	if reason := reasonOf(t, err); reason != ReasonPreconditionNotMet {
		t.Errorf("reason = %s, want %s", reason, ReasonPreconditionNotMet)
	}

	for _, current := range []models.ReviewStatus{models.ReviewPending, models.ReviewDeclined, models.ReviewCompleted} {
		err := PlanReminder(current, 0)
		if err == nil {
			t.Errorf("reminder for %s review: expected rejection", current)
			continue
		}
		if reason := reasonOf(t, err); reason != ReasonReviewNotInProgress {
			t.Errorf("reminder for %s review: reason = %s", current, reason)
		}
	}
}

func TestReminderCapOverride(t *testing.T) {
	t.Setenv("REVIEW_REMINDER_CAP", "5")
	if cap := ReminderCap(); cap != 5 {
		t.Errorf("cap = %d, want 5", cap)
	}

	t.Setenv("REVIEW_REMINDER_CAP", "not-a-number")
	if cap := ReminderCap(); cap != defaultReminderCap {
		t.Errorf("cap = %d, want default %d", cap, defaultReminderCap)
	}

	t.Setenv("REVIEW_REMINDER_CAP", "0")
	if cap := ReminderCap(); cap != defaultReminderCap {
		t.Errorf("cap = %d, want default %d", cap, defaultReminderCap)
	}
}
