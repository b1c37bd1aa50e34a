package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"journal-management-api/models"
)

func testDueDate() time.Time {
	return time.Now().Add(14 * 24 * time.Hour)
}

func reviewRow(status models.ReviewStatus, reviewerID, remindersSent int) *queryStep {
	return &queryStep{
		kind:    kindQuery,
		pattern: regexp.MustCompile("SELECT .* FROM .reviews."),
		columns: []string{"review_id", "submission_id", "reviewer_id", "status", "reminders_sent"},
		rows: [][]driver.Value{
			{int64(21), int64(7), int64(reviewerID), string(status), int64(remindersSent)},
		},
	}
}

func TestRespondLosesRaceToEarlierResponse(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, []*queryStep{
		reviewRow(models.ReviewPending, 5, 0),
		// The reviewer's other tab responded first, so the guarded write
		// matches nothing.
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE .reviews. SET"),
			result:  scriptedResult{rowsAffected: 0},
		},
	})
	defer cleanup()

	svc := NewReviewService(db, &recordingOutbox{})

	_, err := svc.Respond(Actor{UserID: 5, Role: models.RoleReviewer}, 21, true)
	if err == nil {
		t.Fatal("expected rejection")
	}
	var terr *TransitionError
	if !errors.As(err, &terr) || terr.Reason != ReasonAlreadyResponded {
		t.Fatalf("err = %v, want %s", err, ReasonAlreadyResponded)
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
}

func TestRespondRejectsOtherReviewer(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, []*queryStep{
		reviewRow(models.ReviewPending, 5, 0),
	})
	defer cleanup()

	svc := NewReviewService(db, &recordingOutbox{})

	_, err := svc.Respond(Actor{UserID: 6, Role: models.RoleReviewer}, 21, true)
	if err == nil {
		t.Fatal("expected rejection")
	}
	var terr *TransitionError
	if !errors.As(err, &terr) || terr.Reason != ReasonInsufficientRole {
		t.Fatalf("err = %v, want %s", err, ReasonInsufficientRole)
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
}

func TestSubmitDeclinedReview(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, []*queryStep{
		reviewRow(models.ReviewDeclined, 5, 0),
	})
	defer cleanup()

	svc := NewReviewService(db, &recordingOutbox{})

	_, err := svc.Submit(Actor{UserID: 5, Role: models.RoleReviewer}, 21, ReviewSubmissionInput{
		Recommendation: models.RecommendAccept,
		AuthorComments: "fine work",
	})
	if err == nil {
		t.Fatal("expected rejection")
	}
	var terr *TransitionError
	if !errors.As(err, &terr) || terr.Reason != ReasonReviewNotInProgress {
		t.Fatalf("err = %v, want %s", err, ReasonReviewNotInProgress)
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
}

func TestRemindStopsAtCap(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, []*queryStep{
		reviewRow(models.ReviewInProgress, 5, defaultReminderCap),
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .users."),
			columns: []string{"user_id", "email"},
			rows:    [][]driver.Value{{int64(5), "reviewer@example.org"}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .submissions."),
			columns: []string{"submission_id", "title"},
			rows:    [][]driver.Value{{int64(7), "On Widgets"}},
		},
	})
	defer cleanup()

	outbox := &recordingOutbox{}
	svc := NewReviewService(db, outbox)

	_, err := svc.Remind(Actor{UserID: 11, Role: models.RoleEditor}, 21)
	if err == nil {
		t.Fatal("expected rejection at the reminder cap")
	}
	var terr *TransitionError
	if !errors.As(err, &terr) || terr.Reason != ReasonPreconditionNotMet {
		t.Fatalf("err = %v, want %s", err, ReasonPreconditionNotMet)
	}
	if len(outbox.dispatched) != 0 {
		t.Errorf("no reminder should be dispatched, got %d", len(outbox.dispatched))
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
}

func TestInviteRequiresSubmissionUnderReview(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .submissions."),
			columns: []string{"submission_id", "status", "author_id"},
			rows: [][]driver.Value{
				{int64(7), string(models.StatusInitialReview), int64(2)},
			},
		},
	})
	defer cleanup()

	svc := NewReviewService(db, &recordingOutbox{})

	_, err := svc.Invite(Actor{UserID: 11, Role: models.RoleEditor}, 7, 5, testDueDate())
	if err == nil {
		t.Fatal("expected rejection")
	}
	var terr *TransitionError
	if !errors.As(err, &terr) || terr.Reason != ReasonPreconditionNotMet {
		t.Fatalf("err = %v, want %s", err, ReasonPreconditionNotMet)
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
}

// The status re-check inside the insert transaction: an invitation started
// against an under-review submission loses to a concurrent editorial
// decision, and no review row lands.
func TestInviteLosesRaceWithEditorialDecision(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .submissions."),
			columns: []string{"submission_id", "status", "author_id"},
			rows: [][]driver.Value{
				{int64(7), string(models.StatusUnderReview), int64(2)},
			},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .users."),
			columns: []string{"user_id", "email", "status"},
			rows: [][]driver.Value{
				{int64(5), "reviewer@example.org", "ACTIVE"},
			},
		},
		// In-transaction guard: the decision landed first, zero rows match.
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count.* FROM .submissions."),
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(0)}},
		},
	})
	defer cleanup()

	outbox := &recordingOutbox{}
	svc := NewReviewService(db, outbox)

	_, err := svc.Invite(Actor{UserID: 11, Role: models.RoleEditor}, 7, 5, testDueDate())
	if err == nil {
		t.Fatal("expected rejection")
	}
	var terr *TransitionError
	if !errors.As(err, &terr) || terr.Reason != ReasonPreconditionNotMet {
		t.Fatalf("err = %v, want %s", err, ReasonPreconditionNotMet)
	}
	if len(outbox.dispatched) != 0 {
		t.Errorf("no invitation should be dispatched, got %d", len(outbox.dispatched))
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
}

func TestInviteRejectsSelfReview(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .submissions."),
			columns: []string{"submission_id", "status", "author_id"},
			rows: [][]driver.Value{
				{int64(7), string(models.StatusUnderReview), int64(2)},
			},
		},
	})
	defer cleanup()

	svc := NewReviewService(db, &recordingOutbox{})

	// Reviewer 2 is the submitting author.
	_, err := svc.Invite(Actor{UserID: 11, Role: models.RoleEditor}, 7, 2, testDueDate())
	if err == nil {
		t.Fatal("expected rejection")
	}
	var terr *TransitionError
	if !errors.As(err, &terr) || terr.Reason != ReasonPreconditionNotMet {
		t.Fatalf("err = %v, want %s", err, ReasonPreconditionNotMet)
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
}
