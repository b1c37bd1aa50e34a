package routes

import (
	"journal-management-api/controllers"
	"journal-management-api/middleware"
	"journal-management-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)
			public.POST("/refresh", controllers.RefreshToken)
			public.POST("/forgot-password", controllers.ForgotPassword)
			public.POST("/reset-password", controllers.ResetPassword)

			// Published content browsing
			public.GET("/articles", controllers.GetPublishedArticles)
			public.GET("/articles/:id", controllers.GetPublishedArticle)
			public.GET("/issues", controllers.GetPublicIssues)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Journal Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Notifications
			protected.GET("/notifications", controllers.GetNotifications)
			protected.PUT("/notifications/:id/read", controllers.MarkNotificationRead)
			protected.PUT("/notifications/read-all", controllers.MarkAllNotificationsRead)

			// Complaints can be filed by any authenticated user
			protected.POST("/complaints", controllers.CreateComplaint)

			// Submissions (author workflow)
			submissions := protected.Group("/submissions")
			{
				submissions.GET("", controllers.GetSubmissions)
				submissions.GET("/:id", controllers.GetSubmission)
				submissions.GET("/:id/history", controllers.GetSubmissionHistory)

				submissions.POST("", middleware.RequireRole(models.RoleAuthor), controllers.CreateSubmission)
				submissions.PUT("/:id", middleware.RequireRole(models.RoleAuthor), controllers.UpdateSubmission)
				submissions.POST("/:id/submit", middleware.RequireRole(models.RoleAuthor), controllers.SubmitSubmission)
				submissions.POST("/:id/withdraw", middleware.RequireRole(models.RoleAuthor), controllers.WithdrawSubmission)
				submissions.POST("/:id/revisions", middleware.RequireRole(models.RoleAuthor), controllers.CreateRevision)
				submissions.GET("/:id/revisions", controllers.GetRevisions)
				submissions.POST("/:id/proof-approval", middleware.RequireRole(models.RoleAuthor), controllers.ProofApproval)

				// Co-authors
				submissions.POST("/:id/co-authors", middleware.RequireRole(models.RoleAuthor), controllers.AddCoAuthor)
				submissions.DELETE("/:id/co-authors/:co_author_id", middleware.RequireRole(models.RoleAuthor), controllers.RemoveCoAuthor)

				// Files
				submissions.POST("/:id/files", middleware.RequireRole(models.RoleAuthor), controllers.UploadSubmissionFile)
			}

			// File download/delete (role checks inside: authors, invited
			// reviewers and editorial staff)
			protected.GET("/files/:file_id", controllers.DownloadSubmissionFile)
			protected.DELETE("/files/:file_id", middleware.RequireRole(models.RoleAuthor), controllers.DeleteSubmissionFile)

			// Payments (author view + proof upload)
			protected.GET("/payments", controllers.GetMyPayments)
			protected.PUT("/payments/:id/proof", middleware.RequireRole(models.RoleAuthor), controllers.AttachPaymentProof)

			// Reviews (reviewer workflow)
			reviews := protected.Group("/reviews")
			reviews.Use(middleware.RequireRole(models.RoleReviewer, models.RoleEditor))
			{
				reviews.GET("", controllers.GetMyReviews)
				reviews.GET("/:id", controllers.GetReview)
				reviews.POST("/:id/respond", controllers.RespondToInvitation)
				reviews.PUT("/:id", controllers.SaveReviewDraft)
				reviews.POST("/:id/submit", controllers.SubmitReview)
			}

			// Editorial workflow
			editor := protected.Group("/editor")
			editor.Use(middleware.RequireRole(models.RoleEditor, models.RoleAdmin))
			{
				editor.GET("/submissions", controllers.GetEditorSubmissions)
				editor.POST("/submissions/:id/screening", controllers.BeginScreening)
				editor.POST("/submissions/:id/screen", controllers.ScreenSubmission)
				editor.POST("/submissions/:id/decision", controllers.DecideSubmission)
				editor.POST("/submissions/:id/reviewers", controllers.InviteReviewer)
				editor.GET("/submissions/:id/reviews", controllers.GetSubmissionReviews)
				editor.POST("/reviews/:id/remind", controllers.RemindReviewer)
				editor.GET("/reviewers", controllers.GetReviewers)
				editor.GET("/dashboard", controllers.GetDashboardStats)
			}

			// Admin console
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/payments", controllers.GetPayments)
				admin.PUT("/payments/:id/paid", controllers.MarkPaymentPaid)
				admin.PUT("/payments/:id/refund", controllers.RefundPayment)

				admin.POST("/issues", controllers.CreateIssue)
				admin.GET("/issues", controllers.GetAdminIssues)
				admin.POST("/issues/:id/articles/publish", controllers.PublishArticle)
				admin.PUT("/issues/:id/close", controllers.CloseIssue)

				admin.GET("/complaints", controllers.GetComplaints)
				admin.PUT("/complaints/:id", controllers.UpdateComplaint)
				admin.POST("/complaints/:id/notes", controllers.AddComplaintNote)

				admin.GET("/users", controllers.GetUsers)
				admin.PUT("/users/:id/role", controllers.UpdateUserRole)
				admin.PUT("/users/:id/status", controllers.UpdateUserStatus)

				admin.GET("/outbox", controllers.GetOutboxEvents)
				admin.POST("/outbox/redeliver", controllers.RedeliverOutbox)
			}
		}
	}
}
