package models

import "time"

// Revision is a revised manuscript round submitted while the submission is
// in REVISION_REQUIRED. Revision numbers are monotonic per submission.
type Revision struct {
	RevisionID          int       `gorm:"primaryKey;column:revision_id" json:"revision_id"`
	SubmissionID        int       `gorm:"column:submission_id" json:"submission_id"`
	RevisionNumber      int       `gorm:"column:revision_number" json:"revision_number"`
	RevisionLetter      string    `gorm:"column:revision_letter" json:"revision_letter"`
	ResponseToReviewers string    `gorm:"column:response_to_reviewers" json:"response_to_reviewers"`
	SubmittedBy         int       `gorm:"column:submitted_by" json:"submitted_by"`
	CreatedAt           time.Time `gorm:"column:created_at" json:"created_at"`

	Files []SubmissionFile `gorm:"foreignKey:RevisionID" json:"files,omitempty"`
}

func (Revision) TableName() string {
	return "revisions"
}
