package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourname/renescens/internal/service"
)

var errMissingFrequency = errors.New("frequency query parameter is required")

func GetExerciseRanges(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), service.ExerciseRanges(), nil)
	}
}

// GetExerciseTone returns a reference tone as audio/wav.
func GetExerciseTone(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		duration := 0
		if v := c.Query("duration_ms"); v != "" {
			d, err := strconv.Atoi(v)
			if err != nil {
				HandleError(c, app.Logger(), err, 400, "duration_ms must be a number")
				return
			}
			duration = d
		}
		wav, freq, err := service.ReferenceTone(c.Query("note"), duration)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Cannot build tone")
			return
		}
		c.Header("X-Tone-Frequency", strconv.FormatFloat(freq, 'f', 2, 64))
		c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s.wav"`, c.Query("note")))
		c.Data(http.StatusOK, "audio/wav", wav)
	}
}

func GetExercisePitch(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("frequency")
		if raw == "" {
			HandleError(c, app.Logger(), errMissingFrequency, 400, "Invalid query")
			return
		}
		freq, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "frequency must be a number")
			return
		}
		fb, err := service.LookupPitch(freq)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Invalid frequency")
			return
		}
		HandleSuccess(c, app.Logger(), fb, nil)
	}
}
