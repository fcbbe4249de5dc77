package routes

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"social-publisher-platform/internal/logger"
	"social-publisher-platform/internal/publisher"
	"social-publisher-platform/internal/queue"
	"social-publisher-platform/internal/store"
	"social-publisher-platform/internal/telemetry"
	"social-publisher-platform/middleware"
	"social-publisher-platform/models"
	"social-publisher-platform/services"
	"social-publisher-platform/utils"
)

const defaultHistoryLimit = 50

func SetupContentRoutes(
	router *gin.Engine,
	auth *middleware.AuthMiddleware,
	content *store.ContentStore,
	generator *services.ContentGenerator,
	pub *publisher.Publisher,
	queueClient *asynq.Client,
	metrics *telemetry.Metrics,
) {
	group := router.Group("/content")
	group.Use(auth.RequireAuth())

	// Generate a post synchronously
	group.POST("/generate", func(c *gin.Context) {
		userID, ok := middleware.GetUserObjectID(c)
		if !ok {
			utils.RespondWithUnauthorized(c, "Invalid user identity")
			return
		}

		var req models.GenerateContentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		start := time.Now()
		generated, err := generator.Generate(c.Request.Context(), req)
		if err != nil {
			if metrics != nil {
				metrics.RecordGeneration(time.Since(start).Seconds(), "error")
			}
			logger.Error("content generation failed", "user_id", userID.Hex(), "error", err)
			utils.RespondWithInternalError(c, "Content generation failed. Please try again.", nil)
			return
		}
		if metrics != nil {
			metrics.RecordGeneration(time.Since(start).Seconds(), "success")
		}

		generated.UserID = userID
		saved, err := content.Save(c.Request.Context(), generated)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to save generated content", nil)
			return
		}

		c.JSON(http.StatusOK, saved)
	})

	// Generate a post in the background. Returns the placeholder record ID
	// immediately; poll /content/history for the result.
	group.POST("/generate/async", func(c *gin.Context) {
		userID, ok := middleware.GetUserObjectID(c)
		if !ok {
			utils.RespondWithUnauthorized(c, "Invalid user identity")
			return
		}

		if queueClient == nil {
			utils.RespondWithError(c, http.StatusServiceUnavailable, "queue_unavailable",
				"Background generation is not available", nil)
			return
		}

		var req models.GenerateContentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		placeholder, err := content.Save(c.Request.Context(), models.GeneratedContent{
			UserID:    userID,
			Prompt:    req.Prompt,
			Category:  req.Category,
			SourceURL: req.SourceURL,
			Status:    models.ContentStatusGenerating,
		})
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to queue generation", nil)
			return
		}

		task, err := queue.NewGenerateContentTask(userID.Hex(), placeholder.ID.Hex(), req)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to queue generation", nil)
			return
		}

		if _, err := queueClient.EnqueueContext(c.Request.Context(), task); err != nil {
			logger.Error("failed to enqueue generation task", "content_id", placeholder.ID.Hex(), "error", err)
			utils.RespondWithInternalError(c, "Failed to queue generation", nil)
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"content_id": placeholder.ID.Hex(),
			"status":     models.ContentStatusGenerating,
		})
	})

	// Publish content to a platform
	group.POST("/publish", func(c *gin.Context) {
		userID, ok := middleware.GetUserObjectID(c)
		if !ok {
			utils.RespondWithUnauthorized(c, "Invalid user identity")
			return
		}

		var req models.PublishContentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		input := publisher.Input{
			Platform:  req.Platform,
			Content:   req.Content,
			ImageURL:  req.ImageURL,
			Category:  req.Category,
			Prompt:    req.Prompt,
			ContentID: req.ContentID,
		}

		// Publishing a stored draft without inline content pulls the
		// draft's fields.
		if req.ContentID != "" && req.Content == "" {
			id, err := primitive.ObjectIDFromHex(req.ContentID)
			if err != nil {
				utils.RespondWithBadRequest(c, "Invalid content ID", nil)
				return
			}
			draft, err := content.Get(c.Request.Context(), userID, id)
			if err != nil {
				utils.RespondWithNotFound(c, "Content not found")
				return
			}
			input.Content = draft.GeneratedContent
			if input.ImageURL == "" {
				input.ImageURL = draft.GeneratedImageURL
			}
			input.Category = draft.Category
			input.Prompt = draft.Prompt
		}

		outcome, err := pub.Publish(c.Request.Context(), userID, input)
		if err != nil {
			utils.RespondWithInternalError(c, "Publish failed. Please try again.", nil)
			return
		}

		if metrics != nil {
			metrics.RecordPublish(req.Platform, outcome.Status)
		}

		if outcome.Status != publisher.StatusSuccess {
			utils.RespondWithUnprocessable(c, "publish_failed", outcome.Message, nil)
			return
		}

		c.JSON(http.StatusOK, outcome)
	})

	// List the user's content, newest first
	group.GET("/history", func(c *gin.Context) {
		userID, ok := middleware.GetUserObjectID(c)
		if !ok {
			utils.RespondWithUnauthorized(c, "Invalid user identity")
			return
		}

		limit := int64(defaultHistoryLimit)
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed < 1 || parsed > 500 {
				utils.RespondWithBadRequest(c, "Invalid limit", nil)
				return
			}
			limit = parsed
		}

		items, err := content.ListByUser(c.Request.Context(), userID, c.Query("status"), limit)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to load content history", nil)
			return
		}

		c.JSON(http.StatusOK, gin.H{"content": items, "count": len(items)})
	})

	// Export publish history as an Excel workbook
	group.GET("/export", func(c *gin.Context) {
		userID, ok := middleware.GetUserObjectID(c)
		if !ok {
			utils.RespondWithUnauthorized(c, "Invalid user identity")
			return
		}

		items, err := content.ListByUser(c.Request.Context(), userID, c.Query("status"), 0)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to load content history", nil)
			return
		}

		workbook, err := services.BuildHistoryWorkbook(items)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to build export", nil)
			return
		}

		filename := fmt.Sprintf("content-history-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

		if err := workbook.Write(c.Writer); err != nil {
			logger.Error("failed to stream export", "user_id", userID.Hex(), "error", err)
		}
	})

	// Category options for the content form
	group.GET("/categories", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"categories": models.ContentCategories})
	})
}
