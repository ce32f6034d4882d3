package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/happenings/internal/middleware"
	"github.com/joshua-takyi/happenings/internal/models"
	"github.com/joshua-takyi/happenings/internal/services"
)

// Me echoes who the request is acting as.
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.CurrentViewer(c)
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"user_id":      claims.UserID,
			"email":        claims.Email,
			"name":         claims.DisplayName(),
			"avatar_url":   claims.AvatarURL,
			"is_anonymous": claims.IsAnonymous(),
		}, ""))
	}
}

// Logout clears the auth cookie. Tokens themselves are issued and revoked by
// Supabase.
func Logout(secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie("access_token", "", -1, "/", "", secureCookies, true)
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Logged out successfully"))
	}
}

func GetStats(gs *services.GamificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := viewerFrom(c)
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"stats":  gs.Stats(viewer.ID),
			"badges": gs.Badges(),
		}, ""))
	}
}

func ListFriends(ss *services.SocialService) gin.HandlerFunc {
	return func(c *gin.Context) {
		friends := ss.Friends(viewerFrom(c).ID)
		c.JSON(http.StatusOK, models.ListResponse(friends, 0, len(friends)))
	}
}

func AddFriend(ss *services.SocialService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var f services.Friend
		if err := c.ShouldBindJSON(&f); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		friends, err := ss.AddFriend(viewerFrom(c).ID, f)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(friends, "Friend added"))
	}
}

func RemoveFriend(ss *services.SocialService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ss.RemoveFriend(viewerFrom(c).ID, paramID(c)) {
			c.JSON(http.StatusNotFound, models.ErrorResponse("friend not found"))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Friend removed"))
	}
}
