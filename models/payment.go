package models

import "time"

// PaymentStatus tracks an article processing charge record. Payments are
// created when a submission is accepted and are never deleted.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
	PaymentFailed   PaymentStatus = "FAILED"
)

type Payment struct {
	PaymentID     int           `gorm:"primaryKey;column:payment_id" json:"payment_id"`
	SubmissionID  int           `gorm:"column:submission_id" json:"submission_id"`
	Amount        float64       `gorm:"column:amount" json:"amount"`
	Currency      string        `gorm:"column:currency" json:"currency"`
	Status        PaymentStatus `gorm:"column:status" json:"status"`
	PaymentMethod *string       `gorm:"column:payment_method" json:"payment_method,omitempty"`
	ProofURL      *string       `gorm:"column:proof_url" json:"proof_url,omitempty"`
	TransactionID *string       `gorm:"column:transaction_id" json:"transaction_id,omitempty"`
	InvoiceNumber string        `gorm:"column:invoice_number" json:"invoice_number"`
	PaidAt        *time.Time    `gorm:"column:paid_at" json:"paid_at,omitempty"`
	RefundedAt    *time.Time    `gorm:"column:refunded_at" json:"refunded_at,omitempty"`
	CreatedAt     time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     *time.Time    `gorm:"column:updated_at" json:"updated_at,omitempty"`

	Submission *Submission `gorm:"foreignKey:SubmissionID" json:"submission,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}
