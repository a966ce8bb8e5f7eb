package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KirthanNB/Zchedule.ai/internal"
	"github.com/KirthanNB/Zchedule.ai/internal/response"
	"github.com/KirthanNB/Zchedule.ai/internal/service"
)

func HandleError(c *gin.Context, logger internal.Logger, err error, appErr *internal.AppError) {
	requestID := c.GetString("request_id")
	logger.Errorf("[request_id=%s] %s: %v", requestID, appErr.Message, err)
	c.JSON(appErr.Code, response.FromAppError(appErr))
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}) {
	requestID := c.GetString("request_id")
	logger.Infof("[request_id=%s] Success", requestID)
	c.JSON(http.StatusOK, data)
}

// generationFailure maps a failed generation to its status and payload.
func generationFailure(err error) *internal.AppError {
	msg := "Failed to generate schedule: " + err.Error()
	switch {
	case errors.Is(err, internal.ErrNotConfigured):
		return internal.NewAppError(http.StatusServiceUnavailable, msg)
	case service.IsGenerationError(err):
		return internal.NewAppError(http.StatusBadGateway, msg)
	default:
		return internal.NewAppError(http.StatusInternalServerError, msg)
	}
}
