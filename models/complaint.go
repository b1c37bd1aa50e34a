package models

import "time"

// Complaint types and statuses. The complaint lifecycle is fully
// admin-driven; no transition here is automatic.
const (
	ComplaintTypeComplaint  = "COMPLAINT"
	ComplaintTypeRetraction = "RETRACTION_REQUEST"
	ComplaintTypeCorrection = "CORRECTION_REQUEST"

	ComplaintOpen      = "OPEN"
	ComplaintInReview  = "IN_REVIEW"
	ComplaintResolved  = "RESOLVED"
	ComplaintDismissed = "DISMISSED"

	ComplaintPriorityLow    = "LOW"
	ComplaintPriorityMedium = "MEDIUM"
	ComplaintPriorityHigh   = "HIGH"
)

type Complaint struct {
	ComplaintID  int        `gorm:"primaryKey;column:complaint_id" json:"complaint_id"`
	SubmissionID *int       `gorm:"column:submission_id" json:"submission_id,omitempty"`
	Type         string     `gorm:"column:type" json:"type"`
	Priority     string     `gorm:"column:priority" json:"priority"`
	Status       string     `gorm:"column:status" json:"status"`
	Subject      string     `gorm:"column:subject" json:"subject"`
	Description  string     `gorm:"column:description" json:"description"`
	FiledBy      *int       `gorm:"column:filed_by" json:"filed_by,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`

	Submission *Submission     `gorm:"foreignKey:SubmissionID" json:"submission,omitempty"`
	Notes      []ComplaintNote `gorm:"foreignKey:ComplaintID" json:"notes,omitempty"`
}

func (Complaint) TableName() string {
	return "complaints"
}

// ComplaintNote is an admin note appended to a complaint's trail.
type ComplaintNote struct {
	NoteID      int       `gorm:"primaryKey;column:note_id" json:"note_id"`
	ComplaintID int       `gorm:"column:complaint_id" json:"complaint_id"`
	AuthorID    int       `gorm:"column:author_id" json:"author_id"`
	Note        string    `gorm:"column:note" json:"note"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (ComplaintNote) TableName() string {
	return "complaint_notes"
}
