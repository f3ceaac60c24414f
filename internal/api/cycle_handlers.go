package api

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourname/renescens/internal"
	"github.com/yourname/renescens/internal/service"
)

func GetCycle(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		view, err := service.GetCycle(c.Request.Context(), app.Repos().Cycles, app.Catalog(), user)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to load cycle")
			return
		}
		HandleSuccess(c, app.Logger(), view, nil)
	}
}

func GetCycleEntries(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		entries, err := service.ListCycleEntries(c.Request.Context(), app.Repos().Cycles, user)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to fetch cycle entries")
			return
		}
		HandleSuccess(c, app.Logger(), entries, map[string]any{"count": len(entries)})
	}
}

func PostCompleteDay(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		day, err := strconv.Atoi(c.Param("day"))
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Day must be a number")
			return
		}
		var req service.CompleteDayRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		progress, entry, err := service.CompleteDay(c.Request.Context(), app.Repos().Cycles, app.Catalog(), user, day, &req)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to complete day")
			return
		}
		HandleSuccess(c, app.Logger(), entry, map[string]any{
			"progress":           progress,
			"completion_percent": service.CompletionPercent(progress),
		})
	}
}
