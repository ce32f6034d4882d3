package container

import (
	"context"
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joshua-takyi/happenings/internal/config"
	"github.com/joshua-takyi/happenings/internal/helpers"
	"github.com/joshua-takyi/happenings/internal/models"
	"github.com/joshua-takyi/happenings/internal/services"
	"github.com/joshua-takyi/happenings/internal/store"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *slog.Logger
	Cloudinary *cloudinary.Cloudinary
	// Database clients, nil when the backend isn't selected
	SupabaseClient *supabase.Client
	MongoDBClient  *mongo.Client

	Store                 *store.EventStore
	Profiles              models.ProfileRepo
	ValidateToken         helpers.TokenValidator
	EventService          *services.EventService
	RecommendationService *services.RecommendationService
	MapService            *services.MapService
	SocialService         *services.SocialService
	GamificationService   *services.GamificationService
	ChatService           *services.ChatService

	closers []func()
}

// NewContainer creates a new dependency injection container
func NewContainer(
	cfg *config.Config,
	logger *slog.Logger,
	cld *cloudinary.Cloudinary,
	supabaseClient *supabase.Client,
	mongoDBClient *mongo.Client,
) *Container {
	c := &Container{
		Config:         cfg,
		Logger:         logger,
		Cloudinary:     cld,
		SupabaseClient: supabaseClient,
		MongoDBClient:  mongoDBClient,
	}

	// Initialize repositories
	var supa *models.SupabaseRepo
	if supabaseClient != nil {
		supa = models.SupabaseNewRepo(supabaseClient, cfg.SupabaseURL, cfg.SupabaseAnonKey)
		c.Profiles = supa
	}

	var source models.EventSource = models.NewMockSource(cfg.FetchDelay)
	if cfg.EventSource == config.SourceSupabase && supa != nil {
		source = supa
	}

	var savedRepo models.SavedRepo
	if mongoDBClient != nil {
		savedRepo = models.MongodbNewRepo(mongoDBClient, models.DBName)
	}

	c.ValidateToken = c.tokenValidator()

	c.Store = store.New(cfg.Policy())
	c.SocialService = services.NewSocialService(services.MockFriends())
	c.GamificationService = services.NewGamificationService(cfg.Location)
	c.ChatService = services.NewChatService(services.MockChats)
	c.RecommendationService = services.NewRecommendationService(cfg.Location)
	c.MapService = services.NewMapService(services.NearbyRadiusKm, nil)

	c.EventService = services.NewEventService(
		source,
		c.Store,
		services.NewSavedService(savedRepo, c.Store),
		c.SocialService,
		c.GamificationService,
	).WithDefaultCenter(cfg.DefaultCenter).WithLogger(logger)
	if cld != nil {
		c.EventService.WithUploader(helpers.NewCloudinaryUploader(cld))
	}

	return c
}

// tokenValidator prefers a cached key set and falls back to fetching it per
// request when the key set can't be loaded at startup.
func (c *Container) tokenValidator() helpers.TokenValidator {
	url := c.Config.SupabaseURL
	if url == "" {
		return nil
	}

	jwks, err := helpers.NewJWKSValidator(url)
	if err != nil {
		c.Logger.Warn("JWKS unavailable at startup, validating per request", "error", err)
		return func(ctx context.Context, token string) (*helpers.CustomClaims, error) {
			return helpers.ValidateToken(ctx, url, token)
		}
	}
	c.closers = append(c.closers, jwks.Close)
	return jwks.Validate
}

// Close releases background resources held by the container.
func (c *Container) Close() {
	for _, closeFn := range c.closers {
		closeFn()
	}
}
