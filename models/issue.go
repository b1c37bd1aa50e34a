package models

import "time"

// Issue statuses.
const (
	IssueOpen      = "OPEN"
	IssuePublished = "PUBLISHED"
)

// Issue is a journal volume/issue that published articles are assigned to.
type Issue struct {
	IssueID     int        `gorm:"primaryKey;column:issue_id" json:"issue_id"`
	Volume      int        `gorm:"column:volume" json:"volume"`
	Number      int        `gorm:"column:number" json:"number"`
	Year        int        `gorm:"column:year" json:"year"`
	Title       *string    `gorm:"column:title" json:"title,omitempty"`
	Status      string     `gorm:"column:status" json:"status"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`

	Articles []Submission `gorm:"foreignKey:IssueID" json:"articles,omitempty"`
}

func (Issue) TableName() string {
	return "issues"
}
