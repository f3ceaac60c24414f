package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourname/renescens/internal"
	"github.com/yourname/renescens/internal/pitch"
	"github.com/yourname/renescens/internal/response"
	"github.com/yourname/renescens/internal/service"
	"github.com/yourname/renescens/internal/storage"
)

func HandleError(c *gin.Context, logger internal.Logger, err error, status int, msg string) {
	requestID := c.GetString("request_id")
	logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
	var resp response.APIResponse
	switch status {
	case 400:
		resp = response.BadRequest(msg + ": " + err.Error())
	case 404:
		resp = response.NotFound(msg + ": " + err.Error())
	case 409:
		resp = response.Conflict(msg + ": " + err.Error())
	case 429:
		resp = response.TooManyRequests(msg + ": " + err.Error())
	case 500:
		resp = response.InternalError(msg + ": " + err.Error())
	default:
		resp = response.NewAppError(status, msg+": "+err.Error())
	}
	c.JSON(status, resp)
}

// HandleServiceError picks the status from the error itself.
func HandleServiceError(c *gin.Context, logger internal.Logger, err error, msg string) {
	HandleError(c, logger, err, StatusFor(err), msg)
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	requestID := c.GetString("request_id")
	logger.Infof("[request_id=%s] Success", requestID)
	c.JSON(200, response.Success(data, meta))
}

// StatusFor maps service, storage and pitch errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, pitch.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDayLocked), errors.Is(err, service.ErrProfileExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, service.ErrReportFailed):
		return http.StatusBadGateway
	case service.IsValidation(err),
		errors.Is(err, service.ErrDayOutOfRange),
		errors.Is(err, service.ErrUnknownNote),
		errors.Is(err, service.ErrInvalidPayload),
		errors.Is(err, pitch.ErrInvalidWAV),
		errors.Is(err, pitch.ErrFrameSize),
		errors.Is(err, pitch.ErrBadSampleRate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
