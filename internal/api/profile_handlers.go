package api

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/yourname/renescens/internal"
	"github.com/yourname/renescens/internal/service"
)

// PostProfile creates the profile at sign-up. An empty body gives the
// defaults.
func PostProfile(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var req *service.ProfileRequest
		var body service.ProfileRequest
		if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		} else if err == nil {
			if err := service.ValidateProfileRequest(&body); err != nil {
				HandleError(c, app.Logger(), err, 400, "Profile validation failed")
				return
			}
			req = &body
		}

		profile, err := service.CreateProfile(c.Request.Context(), app.Repos().Profiles, user, req)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to create profile")
			return
		}
		HandleSuccess(c, app.Logger(), profile, nil)
	}
}

func GetProfile(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		profile, err := service.GetProfile(c.Request.Context(), app.Repos().Profiles, user)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "No profile for user")
			return
		}
		HandleSuccess(c, app.Logger(), profile, nil)
	}
}

func PutProfile(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var req service.ProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateProfileRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Profile validation failed")
			return
		}

		profile, err := service.UpdateProfile(c.Request.Context(), app.Repos().Profiles, user, &req)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to update profile")
			return
		}
		HandleSuccess(c, app.Logger(), profile, nil)
	}
}
