package controllers

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"journal-management-api/config"
	"journal-management-api/models"
)

const maxUploadSize = int64(20 * 1024 * 1024) // 20MB

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".zip":  true,
}

var fileCategories = map[string]bool{
	models.FileManuscript:        true,
	models.FileCoverLetter:       true,
	models.FileFigure:            true,
	models.FileSupplement:        true,
	models.FileRevisedManuscript: true,
	models.FilePaymentProof:      true,
}

func uploadRoot() string {
	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}
	return uploadPath
}

// UploadSubmissionFile stores a manuscript file on disk and records it.
func UploadSubmissionFile(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var submission models.Submission
	if err := config.DB.First(&submission, submissionID).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if submission.AuthorID != actor.UserID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Insufficient permissions"})
		return
	}

	// Files can only change while the author still holds the manuscript.
	switch submission.Status {
	case models.StatusDraft, models.StatusSubmitted, models.StatusRevisionRequired, models.StatusAccepted:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Files cannot be uploaded in the current status"})
		return
	}

	category := strings.ToUpper(c.PostForm("category"))
	if !fileCategories[category] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unknown file category"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No file uploaded"})
		return
	}
	if file.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "File size exceeds 20MB limit"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "File type not allowed"})
		return
	}

	folder := filepath.Join(uploadRoot(), submission.SubmissionNumber)
	if err := os.MkdirAll(folder, os.ModePerm); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create upload directory"})
		return
	}

	storedName := uuid.NewString() + ext
	fullPath := filepath.Join(folder, storedName)
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to save file"})
		return
	}

	hash, err := hashFile(fullPath)
	if err != nil {
		hash = ""
	}

	record := models.SubmissionFile{
		SubmissionID: submission.SubmissionID,
		Category:     category,
		OriginalName: file.Filename,
		StoredPath:   fullPath,
		FileSize:     file.Size,
		MimeType:     file.Header.Get("Content-Type"),
		FileHash:     hash,
		UploadedBy:   actor.UserID,
		UploadedAt:   time.Now(),
	}
	if err := config.DB.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to record file"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "file": record})
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DownloadSubmissionFile streams a stored file back to an authorized caller.
func DownloadSubmissionFile(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	fileID, ok := paramID(c, "file_id")
	if !ok {
		return
	}

	var record models.SubmissionFile
	if err := config.DB.Where("file_id = ? AND deleted_at IS NULL", fileID).First(&record).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	var submission models.Submission
	if err := config.DB.First(&submission, record.SubmissionID).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	switch actor.Role {
	case models.RoleEditor, models.RoleAdmin:
	case models.RoleAuthor:
		if submission.AuthorID != actor.UserID {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Insufficient permissions"})
			return
		}
	case models.RoleReviewer:
		var invited int64
		if err := config.DB.Model(&models.Review{}).
			Where("submission_id = ? AND reviewer_id = ?", record.SubmissionID, actor.UserID).
			Count(&invited).Error; err != nil || invited == 0 {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Insufficient permissions"})
			return
		}
	}

	if _, err := os.Stat(record.StoredPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "File missing from storage"})
		return
	}

	c.FileAttachment(record.StoredPath, record.OriginalName)
}

// DeleteSubmissionFile soft-deletes a file while the submission is editable.
func DeleteSubmissionFile(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	fileID, ok := paramID(c, "file_id")
	if !ok {
		return
	}

	var record models.SubmissionFile
	if err := config.DB.Where("file_id = ? AND deleted_at IS NULL", fileID).First(&record).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	var submission models.Submission
	if err := config.DB.First(&submission, record.SubmissionID).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if submission.AuthorID != actor.UserID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Insufficient permissions"})
		return
	}
	if submission.Status != models.StatusDraft && submission.Status != models.StatusSubmitted {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Files cannot be removed in the current status"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.SubmissionFile{}).
		Where("file_id = ?", record.FileID).
		Update("deleted_at", now).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "File removed"})
}
