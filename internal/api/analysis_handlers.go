package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourname/renescens/internal"
	"github.com/yourname/renescens/internal/service"
)

func PostAnalysis(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var req service.AnalysisRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		analysis, err := app.Analyses().Create(c.Request.Context(), user, &req)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Analysis failed")
			return
		}
		status, err := app.Analyses().QuotaStatus(c.Request.Context(), user)
		if err != nil {
			app.Logger().Warnf("[request_id=%s] quota status: %v", c.GetString("request_id"), err)
			HandleSuccess(c, app.Logger(), analysis, nil)
			return
		}
		HandleSuccess(c, app.Logger(), analysis, map[string]any{"quota": status})
	}
}

func GetAnalyses(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		list, err := app.Analyses().List(c.Request.Context(), user)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to fetch analyses")
			return
		}
		HandleSuccess(c, app.Logger(), list, map[string]any{"count": len(list)})
	}
}

func GetAnalysis(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		a, err := app.Analyses().Get(c.Request.Context(), user, c.Param("id"))
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Analysis not found")
			return
		}
		HandleSuccess(c, app.Logger(), a, nil)
	}
}

// GetAnalysisReport serves the analysis as a downloadable text file.
func GetAnalysisReport(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		a, err := app.Analyses().Get(c.Request.Context(), user, c.Param("id"))
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Analysis not found")
			return
		}
		text := service.RenderReport(a, app.Location())
		name := "analyse-vocale-" + a.CreatedAt.In(app.Location()).Format("2006-01-02") + ".txt"
		c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
	}
}

func GetAnalysisQuota(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		status, err := app.Analyses().QuotaStatus(c.Request.Context(), user)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to read quota")
			return
		}
		HandleSuccess(c, app.Logger(), status, nil)
	}
}
