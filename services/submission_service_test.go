package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"strings"
	"testing"

	"gorm.io/gorm"

	"journal-management-api/models"
)

// recordingOutbox captures enqueued and dispatched events without touching
// the database, so scripted tests only describe the service's own SQL.
type recordingOutbox struct {
	enqueued   []models.OutboxEvent
	dispatched []models.OutboxEvent
}

func (o *recordingOutbox) Enqueue(_ *gorm.DB, event *models.OutboxEvent) error {
	event.Status = models.OutboxPending
	o.enqueued = append(o.enqueued, *event)
	return nil
}

func (o *recordingOutbox) Dispatch(events []models.OutboxEvent) {
	o.dispatched = append(o.dispatched, events...)
}

// loadSteps scripts the submission load (with its Author and CoAuthors
// preloads) that opens every transition.
func loadSteps(status models.SubmissionStatus, version int) []*queryStep {
	return []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .submissions."),
			columns: []string{"submission_id", "submission_number", "title", "status", "author_id", "version"},
			rows: [][]driver.Value{
				{int64(7), "MS-2026-A1B2C3", "On Widgets", string(status), int64(2), int64(version)},
			},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .users."),
			columns: []string{"user_id", "email", "first_name", "last_name"},
			rows: [][]driver.Value{
				{int64(2), "author@example.org", "Ada", "Chen"},
			},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .submission_co_authors."),
			columns: []string{"co_author_id"},
		},
	}
}

func TestDecideRejectsStaleVersion(t *testing.T) {
	steps := append(loadSteps(models.StatusUnderReview, 3),
		// Another editor's decision already bumped the version, so the
		// guarded write matches zero rows.
		&queryStep{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE .submissions. SET"),
			result:  scriptedResult{rowsAffected: 0},
		},
	)
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	outbox := &recordingOutbox{}
	svc := NewSubmissionService(db, outbox)

	_, err := svc.Decide(Actor{UserID: 11, Role: models.RoleEditor}, 7, DecisionAccept, "")
	if err == nil {
		t.Fatal("expected version conflict")
	}
	var terr *TransitionError
	if !errors.As(err, &terr) || terr.Reason != ReasonVersionConflict {
		t.Fatalf("err = %v, want %s", err, ReasonVersionConflict)
	}
	if len(outbox.dispatched) != 0 {
		t.Errorf("no events should be dispatched on conflict, got %d", len(outbox.dispatched))
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
}

func TestDecideAcceptCreatesPaymentAndNotifiesAuthor(t *testing.T) {
	emptyTemplate := &queryStep{
		kind:    kindQuery,
		pattern: regexp.MustCompile("SELECT .* FROM .email_templates."),
		columns: []string{"template_id"},
	}

	steps := append(loadSteps(models.StatusUnderReview, 3),
		&queryStep{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE .submissions. SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
		&queryStep{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO .submission_status_history."),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
		&queryStep{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO .payments."),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
		emptyTemplate,
	)
	// Reload after commit for the caller's response.
	steps = append(steps,
		&queryStep{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .submissions."),
			columns: []string{"submission_id", "status", "author_id", "version"},
			rows: [][]driver.Value{
				{int64(7), string(models.StatusAccepted), int64(2), int64(4)},
			},
		},
		&queryStep{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .users."),
			columns: []string{"user_id"},
			rows:    [][]driver.Value{{int64(2)}},
		},
		&queryStep{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .submission_co_authors."),
			columns: []string{"co_author_id"},
		},
		&queryStep{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .submission_files."),
			columns: []string{"file_id"},
		},
		&queryStep{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .payments."),
			columns: []string{"payment_id"},
		},
		&queryStep{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .reviews."),
			columns: []string{"review_id"},
		},
		&queryStep{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .revisions."),
			columns: []string{"revision_id"},
		},
	)

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	outbox := &recordingOutbox{}
	svc := NewSubmissionService(db, outbox)

	submission, err := svc.Decide(Actor{UserID: 11, Role: models.RoleEditor}, 7, DecisionAccept, "camera-ready by March")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if submission.Status != models.StatusAccepted {
		t.Errorf("status = %s, want %s", submission.Status, models.StatusAccepted)
	}

	if len(outbox.enqueued) != 1 {
		t.Fatalf("enqueued = %d events, want 1", len(outbox.enqueued))
	}
	event := outbox.enqueued[0]
	if event.EventKey != EventAccepted {
		t.Errorf("event key = %s, want %s", event.EventKey, EventAccepted)
	}
	if event.RecipientEmail != "author@example.org" {
		t.Errorf("recipient = %s, want the submitting author", event.RecipientEmail)
	}
	if len(outbox.dispatched) != 1 {
		t.Errorf("dispatched = %d events, want 1", len(outbox.dispatched))
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
}

func TestPublishBlockedByUnpaidCharge(t *testing.T) {
	steps := append(loadSteps(models.StatusAccepted, 5),
		&queryStep{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count.* FROM .payments."),
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(0)}},
		},
	)
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewSubmissionService(db, &recordingOutbox{})

	_, err := svc.Publish(Actor{UserID: 11, Role: models.RoleAdmin}, 7, PublishInput{IssueID: 3, Pages: "12-29"})
	if err == nil {
		t.Fatal("expected rejection while the charge is unpaid")
	}
	var terr *TransitionError
	if !errors.As(err, &terr) || terr.Reason != ReasonPreconditionNotMet {
		t.Fatalf("err = %v, want %s", err, ReasonPreconditionNotMet)
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
}

// Scripts the publish write path after the paid-charge gate: issue lookup,
// guarded update, history row, event render, and the post-commit reload.
func publishWriteSteps() []*queryStep {
	return []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .issues."),
			columns: []string{"issue_id", "volume", "number", "year"},
			rows:    [][]driver.Value{{int64(3), int64(12), int64(2), int64(2026)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE .submissions. SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO .submission_status_history."),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .email_templates."),
			columns: []string{"template_id"},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .submissions."),
			columns: []string{"submission_id", "status", "author_id", "version", "doi", "pages"},
			rows: [][]driver.Value{
				{int64(7), string(models.StatusPublished), int64(2), int64(6), "10.55555/ms-2026-a1b2c3.deadbeef", "12-29"},
			},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .users."),
			columns: []string{"user_id"},
			rows:    [][]driver.Value{{int64(2)}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .submission_co_authors."),
			columns: []string{"co_author_id"},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .submission_files."),
			columns: []string{"file_id"},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .payments."),
			columns: []string{"payment_id"},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .reviews."),
			columns: []string{"review_id"},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .revisions."),
			columns: []string{"revision_id"},
		},
	}
}

func assertPublished(t *testing.T, submission *models.Submission, outbox *recordingOutbox) {
	t.Helper()
	if submission.Status != models.StatusPublished {
		t.Errorf("status = %s, want %s", submission.Status, models.StatusPublished)
	}
	if submission.DOI == nil || *submission.DOI == "" {
		t.Error("published submission should carry a doi")
	}
	if len(outbox.enqueued) != 1 {
		t.Fatalf("enqueued = %d events, want 1", len(outbox.enqueued))
	}
	event := outbox.enqueued[0]
	if event.EventKey != EventPublished {
		t.Errorf("event key = %s, want %s", event.EventKey, EventPublished)
	}
	// The minted identifier flows into the notification body.
	if !strings.Contains(event.Body, "10.55555/ms-2026-a1b2c3.") {
		t.Errorf("event body %q should carry the minted doi", event.Body)
	}
}

func TestPublishSucceedsWhenChargeNotRequired(t *testing.T) {
	t.Setenv("APC_ENABLED", "false")
	t.Setenv("DOI_PREFIX", "10.55555")

	// No payment lookup: with charges disabled the gate is skipped entirely.
	steps := append(loadSteps(models.StatusAccepted, 5), publishWriteSteps()...)
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	outbox := &recordingOutbox{}
	svc := NewSubmissionService(db, outbox)

	submission, err := svc.Publish(Actor{UserID: 11, Role: models.RoleAdmin}, 7, PublishInput{IssueID: 3, Pages: "12-29"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertPublished(t, submission, outbox)
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
}

func TestPublishSucceedsWithPaidCharge(t *testing.T) {
	t.Setenv("APC_ENABLED", "true")
	t.Setenv("DOI_PREFIX", "10.55555")

	steps := append(loadSteps(models.StatusAccepted, 5),
		&queryStep{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count.* FROM .payments."),
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(1)}},
		},
	)
	steps = append(steps, publishWriteSteps()...)
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	outbox := &recordingOutbox{}
	svc := NewSubmissionService(db, outbox)

	submission, err := svc.Publish(Actor{UserID: 11, Role: models.RoleAdmin}, 7, PublishInput{IssueID: 3, Pages: "12-29"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertPublished(t, submission, outbox)
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
}

func TestSubmitOnBehalfOfAnotherAuthor(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, loadSteps(models.StatusDraft, 1))
	defer cleanup()

	svc := NewSubmissionService(db, &recordingOutbox{})

	// Submission 7 belongs to user 2; user 99 is some other author.
	_, err := svc.Submit(Actor{UserID: 99, Role: models.RoleAuthor}, 7)
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
