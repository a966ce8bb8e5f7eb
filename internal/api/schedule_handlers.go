package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/KirthanNB/Zchedule.ai/internal"
	"github.com/KirthanNB/Zchedule.ai/internal/response"
	"github.com/KirthanNB/Zchedule.ai/internal/service"
)

const ServiceName = "ZcheduleAI Coach"

type GenerateRequest struct {
	UserID string `json:"user_id"`
}

func GetRoot() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, response.Message(ServiceName+" API – POST /generate"))
	}
}

func GetHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// PostGenerate generates a schedule from the stored profile of user_id.
func PostGenerate(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, internal.NewAppError(http.StatusBadRequest, "Invalid request: "+err.Error()))
			return
		}
		userID := strings.TrimSpace(req.UserID)
		if userID == "" {
			HandleError(c, app.Logger(), errors.New("empty user_id"), internal.NewAppError(http.StatusBadRequest, "user_id is required"))
			return
		}
		app.Logger().Infof("[request_id=%s] request received for user_id: %s", c.GetString("request_id"), userID)

		schedule, _, err := app.Schedules().GenerateForUser(c.Request.Context(), userID)
		if errors.Is(err, internal.ErrProfileNotFound) {
			HandleError(c, app.Logger(), err, internal.NewAppError(http.StatusNotFound, "No profile found for user_id: "+userID))
			return
		}
		if err != nil {
			HandleError(c, app.Logger(), err, generationFailure(err))
			return
		}

		HandleSuccess(c, app.Logger(), schedule)
	}
}

// PostGenerateProfile generates a schedule from a profile carried in the
// request body.
func PostGenerateProfile(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var profile internal.UserProfile
		if err := c.ShouldBindJSON(&profile); err != nil {
			HandleError(c, app.Logger(), err, internal.NewAppError(http.StatusBadRequest, "Invalid request: "+err.Error()))
			return
		}
		if err := service.ValidateProfile(&profile); err != nil {
			HandleError(c, app.Logger(), err, internal.NewAppError(http.StatusBadRequest, "Profile validation failed: "+err.Error()))
			return
		}

		schedule, _, err := app.Schedules().GenerateForProfile(c.Request.Context(), profile)
		if err != nil {
			HandleError(c, app.Logger(), err, generationFailure(err))
			return
		}

		HandleSuccess(c, app.Logger(), schedule)
	}
}

// PutProfile stores the onboarding profile for user_id.
func PutProfile(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var profile internal.UserProfile
		if err := c.ShouldBindJSON(&profile); err != nil {
			HandleError(c, app.Logger(), err, internal.NewAppError(http.StatusBadRequest, "Invalid request: "+err.Error()))
			return
		}
		profile.UserID = c.Param("user_id")

		if err := app.Schedules().SaveProfile(c.Request.Context(), &profile); err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, internal.ErrNotConfigured) {
				status = http.StatusServiceUnavailable
			} else if !service.IsValidationError(err) {
				status = http.StatusInternalServerError
			}
			HandleError(c, app.Logger(), err, internal.NewAppError(status, "Failed to save profile: "+err.Error()))
			return
		}

		HandleSuccess(c, app.Logger(), profile)
	}
}

// GetSchedules lists previously generated schedules for user_id, newest first.
func GetSchedules(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := app.Schedules().ListSchedules(c.Request.Context(), c.Param("user_id"))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, internal.ErrNotConfigured) {
				status = http.StatusServiceUnavailable
			}
			HandleError(c, app.Logger(), err, internal.NewAppError(status, "Failed to fetch schedules: "+err.Error()))
			return
		}
		HandleSuccess(c, app.Logger(), records)
	}
}
