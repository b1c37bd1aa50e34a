package services

import (
	"fmt"

	"journal-management-api/models"
)

// Trigger names a requested lifecycle transition.
type Trigger string

const (
	TriggerSubmit              Trigger = "SUBMIT"
	TriggerBeginScreening      Trigger = "BEGIN_SCREENING"
	TriggerProceedToReview     Trigger = "PROCEED_TO_REVIEW"
	TriggerDeskReject          Trigger = "DESK_REJECT"
	TriggerReturnForFormatting Trigger = "RETURN_FOR_FORMATTING"
	TriggerRequestRevision     Trigger = "REQUEST_REVISION"
	TriggerAccept              Trigger = "ACCEPT"
	TriggerReject              Trigger = "REJECT"
	TriggerResubmit            Trigger = "RESUBMIT"
	TriggerPublish             Trigger = "PUBLISH"
	TriggerWithdraw            Trigger = "WITHDRAW"
)

// Rejection reasons surfaced to callers as typed errors.
type TransitionReason string

const (
	ReasonInvalidTransition   TransitionReason = "invalid transition"
	ReasonInsufficientRole    TransitionReason = "insufficient role"
	ReasonPreconditionNotMet  TransitionReason = "precondition not met"
	ReasonUnknownDecision     TransitionReason = "unknown decision"
	ReasonVersionConflict     TransitionReason = "version conflict"
	ReasonReviewNotInProgress TransitionReason = "review not in progress"
	ReasonAlreadyResponded    TransitionReason = "already responded"
	ReasonMissingFields       TransitionReason = "missing required fields"
)

// TransitionError reports why a requested transition was refused. The
// submission is left untouched whenever one is returned.
type TransitionError struct {
	Reason TransitionReason
	Detail string
}

func (e *TransitionError) Error() string {
	if e.Detail == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

func rejectTransition(reason TransitionReason, format string, args ...interface{}) *TransitionError {
	return &TransitionError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// Outbox event keys produced by lifecycle transitions.
const (
	EventSubmissionReceived = "submission_received"
	EventFormattingRequest  = "formatting_request"
	EventRevisionRequest    = "revision_request"
	EventRevisionSubmitted  = "revision_submitted"
	EventAccepted           = "submission_accepted"
	EventRejected           = "submission_rejected"
	EventPublished          = "article_published"
	EventReviewInvitation   = "review_invitation"
	EventReviewReminder     = "review_reminder"
	EventPaymentConfirmed   = "payment_confirmed"
	EventPaymentRefunded    = "payment_refunded"
)

// Transition is a validated, not-yet-applied lifecycle step. Side effects
// are declared here and executed by the persistence adapter after the
// status write commits.
type Transition struct {
	From    models.SubmissionStatus
	To      models.SubmissionStatus
	Trigger Trigger

	// EventKey, when non-empty, names the notification enqueued to the
	// outbox for the submission's authors after the write.
	EventKey string
	// NotifyEditors routes the event to the editorial staff instead.
	NotifyEditors bool
	// CreatePayment creates a PENDING APC payment record (if APC enabled).
	CreatePayment bool
	// AssignDOI marks the publish step: DOI, issue and pages are assigned.
	AssignDOI bool
	// RequiresPaidAPC gates the transition on a PAID payment when APC is
	// enabled for the submission.
	RequiresPaidAPC bool
}

type transitionRule struct {
	to              models.SubmissionStatus
	roles           []models.Role
	eventKey        string
	notifyEditors   bool
	createPayment   bool
	assignDOI       bool
	requiresPaidAPC bool
}

var editorialRoles = []models.Role{models.RoleEditor, models.RoleAdmin}

// transitionTable is the legal transition graph. Anything absent here is
// an invalid transition; the table is never consulted for WITHDRAW, which
// is handled separately because it applies to a range of states.
var transitionTable = map[models.SubmissionStatus]map[Trigger]transitionRule{
	models.StatusDraft: {
		TriggerSubmit: {
			to:       models.StatusSubmitted,
			roles:    []models.Role{models.RoleAuthor},
			eventKey: EventSubmissionReceived,
		},
	},
	models.StatusSubmitted: {
		TriggerBeginScreening: {
			to:    models.StatusInitialReview,
			roles: editorialRoles,
		},
	},
	models.StatusInitialReview: {
		TriggerProceedToReview: {
			to:    models.StatusUnderReview,
			roles: editorialRoles,
		},
		TriggerDeskReject: {
			to:       models.StatusRejected,
			roles:    editorialRoles,
			eventKey: EventRejected,
		},
		TriggerReturnForFormatting: {
			to:       models.StatusSubmitted,
			roles:    editorialRoles,
			eventKey: EventFormattingRequest,
		},
	},
	models.StatusUnderReview: {
		TriggerRequestRevision: {
			to:       models.StatusRevisionRequired,
			roles:    editorialRoles,
			eventKey: EventRevisionRequest,
		},
		TriggerAccept: {
			to:            models.StatusAccepted,
			roles:         editorialRoles,
			eventKey:      EventAccepted,
			createPayment: true,
		},
		TriggerReject: {
			to:       models.StatusRejected,
			roles:    editorialRoles,
			eventKey: EventRejected,
		},
	},
	models.StatusRevisionRequired: {
		TriggerResubmit: {
			to:            models.StatusUnderReview,
			roles:         []models.Role{models.RoleAuthor},
			eventKey:      EventRevisionSubmitted,
			notifyEditors: true,
		},
	},
	models.StatusAccepted: {
		TriggerPublish: {
			to:              models.StatusPublished,
			roles:           editorialRoles,
			eventKey:        EventPublished,
			assignDOI:       true,
			requiresPaidAPC: true,
		},
	},
}

// IsTerminal reports whether no transition may leave the status.
func IsTerminal(status models.SubmissionStatus) bool {
	switch status {
	case models.StatusRejected, models.StatusPublished, models.StatusWithdrawn:
		return true
	}
	return false
}

// withdrawable statuses: everything before ACCEPTED.
func isWithdrawable(status models.SubmissionStatus) bool {
	switch status {
	case models.StatusDraft, models.StatusSubmitted, models.StatusInitialReview,
		models.StatusUnderReview, models.StatusRevisionRequired:
		return true
	}
	return false
}

func roleAllowed(role models.Role, allowed []models.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// PlanTransition validates a requested transition against the lifecycle
// graph and the actor's role. It returns the planned transition with its
// declared side effects, or a TransitionError. It performs no I/O; APC
// payment checks are the adapter's job (the returned transition carries
// the RequiresPaidAPC flag).
func PlanTransition(current models.SubmissionStatus, trigger Trigger, actor models.Role) (Transition, error) {
	if trigger == TriggerWithdraw {
		if !isWithdrawable(current) {
			return Transition{}, rejectTransition(ReasonInvalidTransition,
				"cannot withdraw a submission in status %s", current)
		}
		if actor != models.RoleAuthor {
			return Transition{}, rejectTransition(ReasonInsufficientRole,
				"only the author may withdraw")
		}
		return Transition{From: current, To: models.StatusWithdrawn, Trigger: trigger}, nil
	}

	rules, ok := transitionTable[current]
	if !ok {
		return Transition{}, rejectTransition(ReasonInvalidTransition,
			"no transitions from status %s", current)
	}
	rule, ok := rules[trigger]
	if !ok {
		return Transition{}, rejectTransition(ReasonInvalidTransition,
			"%s is not legal from status %s", trigger, current)
	}
	if !roleAllowed(actor, rule.roles) {
		return Transition{}, rejectTransition(ReasonInsufficientRole,
			"%s may not perform %s", actor, trigger)
	}

	return Transition{
		From:            current,
		To:              rule.to,
		Trigger:         trigger,
		EventKey:        rule.eventKey,
		NotifyEditors:   rule.notifyEditors,
		CreatePayment:   rule.createPayment,
		AssignDOI:       rule.assignDOI,
		RequiresPaidAPC: rule.requiresPaidAPC,
	}, nil
}

// ScreeningDecision is the editor's initial-screening verdict.
type ScreeningDecision string

const (
	ScreeningProceedToReview     ScreeningDecision = "PROCEED_TO_REVIEW"
	ScreeningDeskReject          ScreeningDecision = "DESK_REJECT"
	ScreeningReturnForFormatting ScreeningDecision = "RETURN_FOR_FORMATTING"
)

// ScreeningChecklist captures the editor's screening inputs. The check
// flags are supplied by the caller, never derived.
type ScreeningChecklist struct {
	ScopeCheck  bool
	FormatCheck bool
	Comments    string
}

// PlanScreening maps a screening decision onto a lifecycle transition,
// enforcing the checklist preconditions first.
func PlanScreening(current models.SubmissionStatus, decision ScreeningDecision, checklist ScreeningChecklist, actor models.Role) (Transition, error) {
	var trigger Trigger
	switch decision {
	case ScreeningProceedToReview:
		if !checklist.ScopeCheck || !checklist.FormatCheck {
			return Transition{}, rejectTransition(ReasonPreconditionNotMet,
				"scope and format checks must both pass to proceed to review")
		}
		trigger = TriggerProceedToReview
	case ScreeningDeskReject:
		if checklist.Comments == "" {
			return Transition{}, rejectTransition(ReasonPreconditionNotMet,
				"desk rejection requires comments")
		}
		trigger = TriggerDeskReject
	case ScreeningReturnForFormatting:
		if checklist.Comments == "" {
			return Transition{}, rejectTransition(ReasonPreconditionNotMet,
				"returning for formatting requires comments")
		}
		trigger = TriggerReturnForFormatting
	default:
		return Transition{}, rejectTransition(ReasonUnknownDecision,
			"screening decision %q is not recognized", decision)
	}

	return PlanTransition(current, trigger, actor)
}

// EditorialDecision is the editor's verdict after peer review.
type EditorialDecision string

const (
	DecisionAccept   EditorialDecision = "ACCEPT"
	DecisionRevision EditorialDecision = "REVISION"
	DecisionReject   EditorialDecision = "REJECT"
)

// PlanEditorialDecision maps an editorial decision onto a lifecycle
// transition.
func PlanEditorialDecision(current models.SubmissionStatus, decision EditorialDecision, actor models.Role) (Transition, error) {
	var trigger Trigger
	switch decision {
	case DecisionAccept:
		trigger = TriggerAccept
	case DecisionRevision:
		trigger = TriggerRequestRevision
	case DecisionReject:
		trigger = TriggerReject
	default:
		return Transition{}, rejectTransition(ReasonUnknownDecision,
			"editorial decision %q is not recognized", decision)
	}

	return PlanTransition(current, trigger, actor)
}
