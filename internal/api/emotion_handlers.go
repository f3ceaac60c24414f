package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yourname/renescens/internal"
	"github.com/yourname/renescens/internal/service"
)

func PostEmotion(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var body service.EmotionLogRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateEmotionLogRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		log, err := service.CreateEmotionLog(c.Request.Context(), app.Repos().Emotions, user, &body)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to save emotion log")
			return
		}
		HandleSuccess(c, app.Logger(), log, nil)
	}
}

func GetEmotions(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		logs, err := service.ListEmotionLogs(c.Request.Context(), app.Repos().Emotions, user)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to fetch emotion logs")
			return
		}
		HandleSuccess(c, app.Logger(), logs, map[string]any{"count": len(logs)})
	}
}

func GetEmotionStats(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		stats, err := service.GetEmotionStats(c.Request.Context(), app.Repos().Emotions, user, app.Location())
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to fetch logs for stats")
			return
		}
		HandleSuccess(c, app.Logger(), stats, nil)
	}
}

func GetEmotionActivities(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		impact, err := service.GetActivityImpact(c.Request.Context(), app.Repos().Emotions, user)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to fetch logs for activity impact")
			return
		}
		HandleSuccess(c, app.Logger(), impact, nil)
	}
}
