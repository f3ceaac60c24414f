package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yourname/renescens/internal/auth"
	"github.com/yourname/renescens/internal/config"
)

// NewRouter wires every route. Only /healthz is reachable without a token.
func NewRouter(app App, provider auth.Provider, cfg *config.Config) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware(), AccessLogMiddleware(app.Logger()))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authed := r.Group("/")
	authed.Use(auth.AuthMiddleware(provider, cfg))

	authed.POST("/profile", PostProfile(app))
	authed.GET("/profile", GetProfile(app))
	authed.PUT("/profile", PutProfile(app))

	authed.GET("/cycle", GetCycle(app))
	authed.GET("/cycle/entries", GetCycleEntries(app))
	authed.POST("/cycle/days/:day/complete", PostCompleteDay(app))

	authed.POST("/emotions", PostEmotion(app))
	authed.GET("/emotions", GetEmotions(app))
	authed.GET("/emotions/stats", GetEmotionStats(app))
	authed.GET("/emotions/activities", GetEmotionActivities(app))

	authed.POST("/analyses", PostAnalysis(app))
	authed.GET("/analyses", GetAnalyses(app))
	authed.GET("/analyses/quota", GetAnalysisQuota(app))
	authed.GET("/analyses/:id", GetAnalysis(app))
	authed.GET("/analyses/:id/report", GetAnalysisReport(app))

	authed.POST("/voice/analyze", PostVoiceAnalyze(app))
	authed.POST("/voice/sessions", PostVoiceSession(app))
	authed.GET("/voice/sessions/:id", GetVoiceSession(app))
	authed.POST("/voice/sessions/:id/frames", PostVoiceFrame(app))
	authed.DELETE("/voice/sessions/:id", DeleteVoiceSession(app))

	authed.GET("/exercises/ranges", GetExerciseRanges(app))
	authed.GET("/exercises/tone", GetExerciseTone(app))
	authed.GET("/exercises/pitch", GetExercisePitch(app))

	authed.GET("/library/videos", GetVideos(app))
	authed.GET("/library/categories", GetCategories(app))
	authed.GET("/tools/ebooks", GetEbooks(app))
	authed.GET("/community", GetCommunity(app))

	authed.GET("/progress", GetProgress(app))
	return r
}
