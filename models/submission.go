package models

import (
	"time"

	"gorm.io/gorm"
)

// SubmissionStatus is the manuscript lifecycle state.
type SubmissionStatus string

const (
	StatusDraft            SubmissionStatus = "DRAFT"
	StatusSubmitted        SubmissionStatus = "SUBMITTED"
	StatusInitialReview    SubmissionStatus = "INITIAL_REVIEW"
	StatusUnderReview      SubmissionStatus = "UNDER_REVIEW"
	StatusRevisionRequired SubmissionStatus = "REVISION_REQUIRED"
	StatusAccepted         SubmissionStatus = "ACCEPTED"
	StatusRejected         SubmissionStatus = "REJECTED"
	StatusPublished        SubmissionStatus = "PUBLISHED"
	StatusWithdrawn        SubmissionStatus = "WITHDRAWN"
)

// Manuscript types accepted at submission time.
const (
	ManuscriptResearchArticle = "RESEARCH_ARTICLE"
	ManuscriptReviewArticle   = "REVIEW_ARTICLE"
	ManuscriptCaseStudy       = "CASE_STUDY"
	ManuscriptShortComm       = "SHORT_COMMUNICATION"
	ManuscriptLetter          = "LETTER_TO_EDITOR"
)

type Submission struct {
	SubmissionID     int              `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	SubmissionNumber string           `gorm:"column:submission_number" json:"submission_number"`
	Title            string           `gorm:"column:title" json:"title"`
	Abstract         string           `gorm:"column:abstract" json:"abstract"`
	Keywords         string           `gorm:"column:keywords" json:"keywords"`
	ManuscriptType   string           `gorm:"column:manuscript_type" json:"manuscript_type"`
	Status           SubmissionStatus `gorm:"column:status" json:"status"`
	AuthorID         int              `gorm:"column:author_id" json:"author_id"`

	// Version is bumped on every status transition; conditional updates
	// against it make concurrent conflicting decisions lose cleanly.
	Version int `gorm:"column:version" json:"version"`

	// Publication metadata, set only when status reaches PUBLISHED.
	DOI     *string `gorm:"column:doi" json:"doi,omitempty"`
	IssueID *int    `gorm:"column:issue_id" json:"issue_id,omitempty"`
	Pages   *string `gorm:"column:pages" json:"pages,omitempty"`

	CreatedAt   time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   *time.Time     `gorm:"column:updated_at" json:"updated_at,omitempty"`
	SubmittedAt *time.Time     `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	AcceptedAt  *time.Time     `gorm:"column:accepted_at" json:"accepted_at,omitempty"`
	PublishedAt *time.Time     `gorm:"column:published_at" json:"published_at,omitempty"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at" json:"-"`

	// Relations
	Author    *User            `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Issue     *Issue           `gorm:"foreignKey:IssueID" json:"issue,omitempty"`
	CoAuthors []CoAuthor       `gorm:"foreignKey:SubmissionID" json:"co_authors,omitempty"`
	Files     []SubmissionFile `gorm:"foreignKey:SubmissionID" json:"files,omitempty"`
	Reviews   []Review         `gorm:"foreignKey:SubmissionID" json:"reviews,omitempty"`
	Revisions []Revision       `gorm:"foreignKey:SubmissionID" json:"revisions,omitempty"`
	Payments  []Payment        `gorm:"foreignKey:SubmissionID" json:"payments,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

// CoAuthor is an author record embedded in a submission, ordered for the
// byline. Co-authors need not hold accounts.
type CoAuthor struct {
	CoAuthorID   int     `gorm:"primaryKey;column:co_author_id" json:"co_author_id"`
	SubmissionID int     `gorm:"column:submission_id" json:"submission_id"`
	Name         string  `gorm:"column:name" json:"name"`
	Email        string  `gorm:"column:email" json:"email"`
	Affiliation  *string `gorm:"column:affiliation" json:"affiliation,omitempty"`
	ORCID        *string `gorm:"column:orcid" json:"orcid,omitempty"`
	DisplayOrder int     `gorm:"column:display_order" json:"display_order"`
}

func (CoAuthor) TableName() string {
	return "submission_co_authors"
}

// SubmissionStatusHistory tracks every lifecycle transition for auditing.
type SubmissionStatusHistory struct {
	HistoryID    int               `gorm:"primaryKey;column:history_id" json:"history_id"`
	SubmissionID int               `gorm:"column:submission_id" json:"submission_id"`
	OldStatus    *SubmissionStatus `gorm:"column:old_status" json:"old_status"`
	NewStatus    SubmissionStatus  `gorm:"column:new_status" json:"new_status"`
	ChangedBy    int               `gorm:"column:changed_by" json:"changed_by"`
	Reason       *string           `gorm:"column:reason" json:"reason"`
	Notes        *string           `gorm:"column:notes" json:"notes"`
	CreatedAt    time.Time         `gorm:"column:created_at" json:"created_at"`
}

func (SubmissionStatusHistory) TableName() string {
	return "submission_status_history"
}
