package models

import "time"

// Notification is an in-app notification row.
type Notification struct {
	NotificationID      int        `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	UserID              int        `gorm:"column:user_id" json:"user_id"`
	Title               string     `gorm:"column:title" json:"title"`
	Message             string     `gorm:"column:message" json:"message"`
	Type                string     `gorm:"column:type" json:"type"` // info|success|warning|error
	RelatedSubmissionID *int       `gorm:"column:related_submission_id" json:"related_submission_id,omitempty"`
	IsRead              bool       `gorm:"column:is_read" json:"is_read"`
	CreatedAt           time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt           *time.Time `gorm:"column:updated_at" json:"-"`
}

func (Notification) TableName() string { return "notifications" }

// Outbox event statuses.
const (
	OutboxPending = "PENDING"
	OutboxSent    = "SENT"
	OutboxFailed  = "FAILED"
)

// OutboxEvent is a queued side effect recorded by the lifecycle manager.
// Delivery is best-effort and at-most-once per dispatch attempt; a failed
// event stays in the table with its error for operator inspection.
type OutboxEvent struct {
	EventID             int        `gorm:"primaryKey;column:event_id" json:"event_id"`
	EventKey            string     `gorm:"column:event_key" json:"event_key"`
	RecipientUserID     *int       `gorm:"column:recipient_user_id" json:"recipient_user_id,omitempty"`
	RecipientEmail      string     `gorm:"column:recipient_email" json:"recipient_email"`
	Subject             string     `gorm:"column:subject" json:"subject"`
	Body                string     `gorm:"column:body" json:"body"`
	RelatedSubmissionID *int       `gorm:"column:related_submission_id" json:"related_submission_id,omitempty"`
	Status              string     `gorm:"column:status" json:"status"`
	Attempts            int        `gorm:"column:attempts" json:"attempts"`
	LastError           *string    `gorm:"column:last_error" json:"last_error,omitempty"`
	CreatedAt           time.Time  `gorm:"column:created_at" json:"created_at"`
	SentAt              *time.Time `gorm:"column:sent_at" json:"sent_at,omitempty"`
}

func (OutboxEvent) TableName() string { return "outbox_events" }

// EmailTemplate holds editable subject/body templates keyed by event.
// Placeholders use {name} syntax.
type EmailTemplate struct {
	TemplateID int        `gorm:"primaryKey;column:template_id" json:"template_id"`
	EventKey   string     `gorm:"column:event_key" json:"event_key"`
	Subject    string     `gorm:"column:subject" json:"subject"`
	Body       string     `gorm:"column:body" json:"body"`
	IsActive   bool       `gorm:"column:is_active" json:"is_active"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

func (EmailTemplate) TableName() string { return "email_templates" }
