package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"journal-management-api/models"
)

func TestCreateRevisionRequiresLetter(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	svc := NewRevisionService(db, NewSubmissionService(db, &recordingOutbox{}))

	_, err := svc.CreateRevision(Actor{UserID: 2, Role: models.RoleAuthor}, 7, RevisionInput{})
	if err == nil {
		t.Fatal("expected rejection")
	}
	var terr *TransitionError
	if !errors.As(err, &terr) || terr.Reason != ReasonMissingFields {
		t.Fatalf("err = %v, want %s", err, ReasonMissingFields)
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
}

func TestCreateRevisionOnlyWhileRevisionRequired(t *testing.T) {
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

	svc := NewRevisionService(db, NewSubmissionService(db, &recordingOutbox{}))

	_, err := svc.CreateRevision(Actor{UserID: 2, Role: models.RoleAuthor}, 7,
		RevisionInput{RevisionLetter: "addressed all comments"})
	if err == nil {
		t.Fatal("expected rejection")
	}
	var terr *TransitionError
	if !errors.As(err, &terr) || terr.Reason != ReasonInvalidTransition {
		t.Fatalf("err = %v, want %s", err, ReasonInvalidTransition)
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
}

// The revision insert and the guarded resubmit share one transaction: if
// the submission leaves REVISION_REQUIRED between the load and the write,
// the whole round fails and the revision row goes down with it.
func TestCreateRevisionRollsBackWhenSubmissionMoved(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .submissions."),
			columns: []string{"submission_id", "status", "author_id"},
			rows: [][]driver.Value{
				{int64(7), string(models.StatusRevisionRequired), int64(2)},
			},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT COALESCE.* FROM .revisions."),
			columns: []string{"COALESCE(MAX(revision_number), 0)"},
			rows:    [][]driver.Value{{int64(1)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO .revisions."),
			result:  scriptedResult{lastInsertID: 2, rowsAffected: 1},
		},
		// The in-transaction reload sees the author's concurrent withdrawal.
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .submissions."),
			columns: []string{"submission_id", "status", "author_id", "version"},
			rows: [][]driver.Value{
				{int64(7), string(models.StatusWithdrawn), int64(2), int64(4)},
			},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .users."),
			columns: []string{"user_id", "email"},
			rows:    [][]driver.Value{{int64(2), "author@example.org"}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .submission_co_authors."),
			columns: []string{"co_author_id"},
		},
	})
	defer cleanup()

	outbox := &recordingOutbox{}
	svc := NewRevisionService(db, NewSubmissionService(db, outbox))

	_, err := svc.CreateRevision(Actor{UserID: 2, Role: models.RoleAuthor}, 7,
		RevisionInput{RevisionLetter: "addressed all comments"})
	if err == nil {
		t.Fatal("expected rejection")
	}
	var terr *TransitionError
	if !errors.As(err, &terr) || terr.Reason != ReasonInvalidTransition {
		t.Fatalf("err = %v, want %s", err, ReasonInvalidTransition)
	}
	if len(outbox.dispatched) != 0 {
		t.Errorf("no events should be dispatched on rollback, got %d", len(outbox.dispatched))
	}
	if err := state.verifyComplete(); err != nil {
		t.Error(err)
	}
}

func TestCreateRevisionRejectsOtherAuthor(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM .submissions."),
			columns: []string{"submission_id", "status", "author_id"},
			rows: [][]driver.Value{
				{int64(7), string(models.StatusRevisionRequired), int64(2)},
			},
		},
	})
	defer cleanup()

	svc := NewRevisionService(db, NewSubmissionService(db, &recordingOutbox{}))

	_, err := svc.CreateRevision(Actor{UserID: 99, Role: models.RoleAuthor}, 7,
		RevisionInput{RevisionLetter: "addressed all comments"})
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
