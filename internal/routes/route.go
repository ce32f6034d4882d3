package routes

import (
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/happenings/internal/config"
	"github.com/joshua-takyi/happenings/internal/container"
	"github.com/joshua-takyi/happenings/internal/handlers"
	"github.com/joshua-takyi/happenings/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	cfg := container.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	// API version 1
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "OK",
				"service": "happenings-api",
			})
		})
		v1.POST("/auth/logout", handlers.Logout(cfg.IsProduction()))
	}

	api := v1.Group("/")
	api.Use(middleware.Viewer(container.ValidateToken, container.Profiles, cfg.AuthRequired, container.Logger))

	es := container.EventService
	eventRoutes := api.Group("/events")
	{
		eventRoutes.GET("", handlers.ListEvents(es))
		eventRoutes.POST("", handlers.CreateEvent(es))
		eventRoutes.GET("/saved", handlers.ListSavedEvents(es))
		eventRoutes.GET("/:id", handlers.GetEvent(es))
		eventRoutes.POST("/:id/save", handlers.ToggleSave(es))
		eventRoutes.POST("/:id/attend", handlers.AttendEvent(es))
		eventRoutes.GET("/:id/friends", handlers.FriendsAttending(es))
	}

	api.GET("/feed", handlers.Feed(es, container.RecommendationService, cfg.ForYouLimit))
	api.GET("/recommendations", handlers.Recommendations(es, container.RecommendationService, cfg.ForYouLimit))
	api.GET("/map", handlers.MapMarkers(es, container.MapService))

	meRoutes := api.Group("/me")
	{
		meRoutes.GET("", handlers.Me())
		meRoutes.GET("/stats", handlers.GetStats(container.GamificationService))
		meRoutes.GET("/friends", handlers.ListFriends(container.SocialService))
		meRoutes.POST("/friends", handlers.AddFriend(container.SocialService))
		meRoutes.DELETE("/friends/:id", handlers.RemoveFriend(container.SocialService))
		meRoutes.GET("/chats", handlers.ListChats(container.ChatService))
	}

	chatRoutes := api.Group("/chats")
	{
		chatRoutes.GET("/:id/messages", handlers.ListMessages(container.ChatService))
		chatRoutes.POST("/:id/messages", handlers.SendMessage(container.ChatService))
	}

	return r
}

// corsConfig allows credentials for listed origins. A "*" entry opens every
// origin without credentials.
func corsConfig(origins []string) cors.Config {
	cc := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}
	switch {
	case slices.Contains(origins, "*"):
		cc.AllowAllOrigins = true
		cc.AllowCredentials = false
	case len(origins) == 0:
		cc.AllowOrigins = []string{config.DefaultCORSOrigin}
	default:
		cc.AllowOrigins = origins
	}
	return cc
}
