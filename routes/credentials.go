package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"social-publisher-platform/internal/platform"
	"social-publisher-platform/internal/store"
	"social-publisher-platform/middleware"
	"social-publisher-platform/models"
	"social-publisher-platform/utils"
)

// requiredCredentialFields maps each platform type to the identifier field
// it cannot work without.
var requiredCredentialFields = map[string]func(models.Credential) bool{
	models.PlatformFacebook:    func(c models.Credential) bool { return c.PageID != "" },
	models.PlatformInstagram:   func(c models.Credential) bool { return c.InstagramUserID != "" },
	models.PlatformLinkedIn:    func(c models.Credential) bool { return c.LinkedInUserID != "" },
	models.PlatformFacebookAds: func(c models.Credential) bool { return c.AdAccountID != "" },
}

func SetupCredentialRoutes(router *gin.Engine, auth *middleware.AuthMiddleware, credentials *store.CredentialStore, registry *platform.Registry) {
	group := router.Group("/credentials")
	group.Use(auth.RequireAuth())

	// Save (upsert) a credential. Credentials are validated against the
	// vendor API before they are stored.
	group.POST("", func(c *gin.Context) {
		userID, ok := middleware.GetUserObjectID(c)
		if !ok {
			utils.RespondWithUnauthorized(c, "Invalid user identity")
			return
		}

		var req models.SaveCredentialRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		cred := req.Credential()
		if hasID, ok := requiredCredentialFields[req.Type]; ok && !hasID(cred) {
			utils.RespondWithBadRequest(c, "Missing required account identifier for "+platform.DisplayName(req.Type), nil)
			return
		}

		validator, ok := registry.Validator(req.Type)
		if !ok {
			utils.RespondWithBadRequest(c, "Unsupported platform type", nil)
			return
		}

		validation := validator.ValidateCredentials(c.Request.Context(), cred)
		if !validation.Success {
			utils.RespondWithUnprocessable(c, "validation_failed", validation.Error, nil)
			return
		}

		cred.LastValidated = time.Now()
		saved, err := credentials.Save(c.Request.Context(), userID, cred)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to save credential", nil)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"credential": saved,
			"profile":    validation.Profile,
		})
	})

	// List all credentials for the user
	group.GET("", func(c *gin.Context) {
		userID, ok := middleware.GetUserObjectID(c)
		if !ok {
			utils.RespondWithUnauthorized(c, "Invalid user identity")
			return
		}

		creds, err := credentials.List(c.Request.Context(), userID)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to load credentials", nil)
			return
		}

		c.JSON(http.StatusOK, gin.H{"credentials": creds})
	})

	// Get one credential by platform type
	group.GET("/:type", func(c *gin.Context) {
		userID, ok := middleware.GetUserObjectID(c)
		if !ok {
			utils.RespondWithUnauthorized(c, "Invalid user identity")
			return
		}

		cred, found, err := credentials.Get(c.Request.Context(), userID, c.Param("type"))
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to load credential", nil)
			return
		}
		if !found {
			utils.RespondWithNotFound(c, "No credential stored for this platform")
			return
		}

		c.JSON(http.StatusOK, gin.H{"credential": cred})
	})

	// Re-validate a stored credential on demand
	group.POST("/:type/validate", func(c *gin.Context) {
		userID, ok := middleware.GetUserObjectID(c)
		if !ok {
			utils.RespondWithUnauthorized(c, "Invalid user identity")
			return
		}

		credType := c.Param("type")
		cred, found, err := credentials.Get(c.Request.Context(), userID, credType)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to load credential", nil)
			return
		}
		if !found {
			utils.RespondWithNotFound(c, "No credential stored for this platform")
			return
		}

		validator, ok := registry.Validator(credType)
		if !ok {
			utils.RespondWithBadRequest(c, "Unsupported platform type", nil)
			return
		}

		result := validator.ValidateCredentials(c.Request.Context(), cred)
		if result.Success {
			if err := credentials.TouchValidated(c.Request.Context(), userID, credType); err != nil {
				utils.RespondWithInternalError(c, "Failed to update credential", nil)
				return
			}
		}

		c.JSON(http.StatusOK, result)
	})
}
