package models

import "time"

// SubmissionFile categories.
const (
	FileManuscript        = "MANUSCRIPT"
	FileCoverLetter       = "COVER_LETTER"
	FileFigure            = "FIGURE"
	FileSupplement        = "SUPPLEMENT"
	FileRevisedManuscript = "REVISED_MANUSCRIPT"
	FilePaymentProof      = "PAYMENT_PROOF"
)

// SubmissionFile represents an uploaded manuscript file on disk.
type SubmissionFile struct {
	FileID       int        `gorm:"primaryKey;column:file_id" json:"file_id"`
	SubmissionID int        `gorm:"column:submission_id" json:"submission_id"`
	RevisionID   *int       `gorm:"column:revision_id" json:"revision_id,omitempty"`
	Category     string     `gorm:"column:category" json:"category"`
	OriginalName string     `gorm:"column:original_name" json:"original_name"`
	StoredPath   string     `gorm:"column:stored_path" json:"stored_path"`
	FileSize     int64      `gorm:"column:file_size" json:"file_size"`
	MimeType     string     `gorm:"column:mime_type" json:"mime_type"`
	FileHash     string     `gorm:"column:file_hash" json:"file_hash"`
	UploadedBy   int        `gorm:"column:uploaded_by" json:"uploaded_by"`
	UploadedAt   time.Time  `gorm:"column:uploaded_at" json:"uploaded_at"`
	DeletedAt    *time.Time `gorm:"column:deleted_at" json:"-"`

	Uploader *User `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
}

func (SubmissionFile) TableName() string {
	return "submission_files"
}

// IsValidManuscriptType checks the mime type against the formats the
// editorial office accepts for manuscripts.
func (f *SubmissionFile) IsValidManuscriptType() bool {
	validTypes := []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	for _, validType := range validTypes {
		if f.MimeType == validType {
			return true
		}
	}
	return false
}

func (f *SubmissionFile) IsValidFigureType() bool {
	validTypes := []string{"image/jpeg", "image/jpg", "image/png", "image/tiff", "application/pdf"}
	for _, validType := range validTypes {
		if f.MimeType == validType {
			return true
		}
	}
	return false
}

func (f *SubmissionFile) GetFileSizeInMB() float64 {
	return float64(f.FileSize) / (1024 * 1024)
}
