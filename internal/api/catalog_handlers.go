package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yourname/renescens/internal"
	"github.com/yourname/renescens/internal/service"
)

func GetVideos(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		videos := app.Catalog().Videos(c.Query("category"), c.Query("q"))
		HandleSuccess(c, app.Logger(), videos, map[string]any{"count": len(videos)})
	}
}

func GetCategories(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), app.Catalog().Categories(), nil)
	}
}

func GetEbooks(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), app.Catalog().Ebooks(), nil)
	}
}

func GetCommunity(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), app.Catalog().Community(), nil)
	}
}

func GetProgress(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		progress, err := service.GetProgress(c.Request.Context(), app.Repos(), user, app.Location())
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to compute progress")
			return
		}
		HandleSuccess(c, app.Logger(), progress, nil)
	}
}
