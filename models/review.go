package models

import "time"

// ReviewStatus is the reviewer-invitation lifecycle state.
type ReviewStatus string

const (
	ReviewPending    ReviewStatus = "PENDING"
	ReviewInProgress ReviewStatus = "IN_PROGRESS"
	ReviewDeclined   ReviewStatus = "DECLINED"
	ReviewCompleted  ReviewStatus = "COMPLETED"
)

// Recommendation is a reviewer's verdict, set only at completion.
type Recommendation string

const (
	RecommendAccept        Recommendation = "ACCEPT"
	RecommendMinorRevision Recommendation = "MINOR_REVISION"
	RecommendMajorRevision Recommendation = "MAJOR_REVISION"
	RecommendReject        Recommendation = "REJECT"
)

// ValidRecommendation reports whether the value is in the closed verdict set.
func ValidRecommendation(r Recommendation) bool {
	switch r {
	case RecommendAccept, RecommendMinorRevision, RecommendMajorRevision, RecommendReject:
		return true
	}
	return false
}

type Review struct {
	ReviewID     int          `gorm:"primaryKey;column:review_id" json:"review_id"`
	SubmissionID int          `gorm:"column:submission_id" json:"submission_id"`
	ReviewerID   int          `gorm:"column:reviewer_id" json:"reviewer_id"`
	Status       ReviewStatus `gorm:"column:status" json:"status"`

	Recommendation       *Recommendation `gorm:"column:recommendation" json:"recommendation,omitempty"`
	Rating               *int            `gorm:"column:rating" json:"rating,omitempty"`
	AuthorComments       *string         `gorm:"column:author_comments" json:"author_comments,omitempty"`
	ConfidentialComments *string         `gorm:"column:confidential_comments" json:"-"`

	DueDate       time.Time  `gorm:"column:due_date" json:"due_date"`
	InvitedAt     time.Time  `gorm:"column:invited_at" json:"invited_at"`
	RespondedAt   *time.Time `gorm:"column:responded_at" json:"responded_at,omitempty"`
	CompletedAt   *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	RemindersSent int        `gorm:"column:reminders_sent" json:"reminders_sent"`

	CreatedAt time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`

	Reviewer   *User       `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Submission *Submission `gorm:"foreignKey:SubmissionID" json:"submission,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
