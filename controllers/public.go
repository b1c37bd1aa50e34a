package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/utils"
)

// publicArticle is the read-only shape served to anonymous visitors.
type publicArticle struct {
	SubmissionID   int     `json:"submission_id"`
	Title          string  `json:"title"`
	Abstract       string  `json:"abstract"`
	Keywords       string  `json:"keywords"`
	ManuscriptType string  `json:"manuscript_type"`
	DOI            *string `json:"doi"`
	Pages          *string `json:"pages"`
	PublishedAt    string  `json:"published_at"`
	AuthorName     string  `json:"author_name"`
	Volume         int     `json:"volume,omitempty"`
	Number         int     `json:"number,omitempty"`
}

func toPublicArticle(s *models.Submission) publicArticle {
	article := publicArticle{
		SubmissionID:   s.SubmissionID,
		Title:          s.Title,
		Abstract:       s.Abstract,
		Keywords:       s.Keywords,
		ManuscriptType: s.ManuscriptType,
		DOI:            s.DOI,
		Pages:          s.Pages,
	}
	if s.PublishedAt != nil {
		article.PublishedAt = s.PublishedAt.Format("2006-01-02")
	}
	if s.Author != nil {
		article.AuthorName = s.Author.FullName()
	}
	if s.Issue != nil {
		article.Volume = s.Issue.Volume
		article.Number = s.Issue.Number
	}
	return article
}

// GetPublishedArticles serves the public article listing.
func GetPublishedArticles(c *gin.Context) {
	search := strings.TrimSpace(c.Query("q"))

	query := config.DB.Preload("Author").Preload("Issue").
		Where("status = ?", models.StatusPublished)
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR abstract LIKE ? OR keywords LIKE ?", like, like, like)
	}
	if issueID := c.Query("issue_id"); issueID != "" {
		query = query.Where("issue_id = ?", issueID)
	}

	var total int64
	if err := query.Model(&models.Submission{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch articles"})
		return
	}

	page := utils.ParsePagination(c.Query("page"), c.Query("page_size"))
	var submissions []models.Submission
	if err := page.Apply(query).Order("published_at DESC").Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch articles"})
		return
	}

	articles := make([]publicArticle, 0, len(submissions))
	for i := range submissions {
		articles = append(articles, toPublicArticle(&submissions[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"articles":  articles,
		"total":     total,
		"page":      page.Page,
		"page_size": page.PageSize,
	})
}

// GetPublishedArticle serves one published article.
func GetPublishedArticle(c *gin.Context) {
	articleID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var submission models.Submission
	if err := config.DB.Preload("Author").Preload("Issue").Preload("CoAuthors").
		Where("submission_id = ? AND status = ?", articleID, models.StatusPublished).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Article not found"})
		return
	}

	article := toPublicArticle(&submission)
	coAuthors := make([]string, 0, len(submission.CoAuthors))
	for i := range submission.CoAuthors {
		coAuthors = append(coAuthors, submission.CoAuthors[i].Name)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "article": article, "co_authors": coAuthors})
}

// GetPublicIssues serves the published-issue archive.
func GetPublicIssues(c *gin.Context) {
	var issues []models.Issue
	if err := config.DB.Where("status = ?", models.IssuePublished).
		Order("year DESC, volume DESC, number DESC").
		Find(&issues).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch issues"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "issues": issues, "total": len(issues)})
}
