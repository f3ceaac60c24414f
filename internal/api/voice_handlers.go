package api

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourname/renescens/internal"
	"github.com/yourname/renescens/internal/pitch"
	"github.com/yourname/renescens/internal/service"
)

const maxUploadBytes = 32 << 20

// PostVoiceAnalyze accepts a WAV file either as the multipart field "file"
// or as the raw request body.
func PostVoiceAnalyze(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

		var src io.Reader = c.Request.Body
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			fh, err := c.FormFile("file")
			if err != nil {
				HandleError(c, app.Logger(), err, 400, "Missing file field")
				return
			}
			f, err := fh.Open()
			if err != nil {
				HandleError(c, app.Logger(), err, 400, "Unreadable upload")
				return
			}
			defer f.Close()
			src = f
		}
		raw, err := io.ReadAll(src)
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Unreadable upload")
			return
		}

		res, err := service.AnalyzeWAV(bytes.NewReader(raw), time.Now())
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Voice analysis failed")
			return
		}
		HandleSuccess(c, app.Logger(), res, nil)
	}
}

func PostVoiceSession(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var req service.OpenSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateOpenSessionRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}
		mode := pitch.Mode(req.Mode)
		if mode == "" {
			mode = pitch.ModeVoice
		}

		sess, err := app.Sessions().Acquire(user.ID, mode, req.SampleRate)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to open session")
			return
		}
		HandleSuccess(c, app.Logger(), sess, map[string]any{"frame_size": pitch.FrameSize})
	}
}

func PostVoiceFrame(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		sess, err := app.Sessions().Get(user.ID, c.Param("id"))
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Session not found")
			return
		}
		frame, err := service.DecodeFrame(c.ContentType(), c.Request.Body)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Invalid frame")
			return
		}
		reading, err := sess.Push(frame)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Frame rejected")
			return
		}
		HandleSuccess(c, app.Logger(), reading, nil)
	}
}

func GetVoiceSession(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		sess, err := app.Sessions().Get(user.ID, c.Param("id"))
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Session not found")
			return
		}
		HandleSuccess(c, app.Logger(), sess.Summary(), map[string]any{"session": sess})
	}
}

func DeleteVoiceSession(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		summary, err := app.Sessions().Release(user.ID, c.Param("id"))
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Session not found")
			return
		}
		HandleSuccess(c, app.Logger(), summary, nil)
	}
}
