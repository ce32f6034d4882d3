package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joshua-takyi/happenings/internal/models"
	"github.com/joshua-takyi/happenings/internal/store"
)

const (
	SourceMock     = "mock"
	SourceSupabase = "supabase"

	SavedMemory = "memory"
	SavedMongo  = "mongo"

	DefaultCORSOrigin = "http://localhost:3000"
)

type Config struct {
	Port        string `validate:"required,numeric"`
	Environment string `validate:"oneof=development production test"`
	LogLevel    string `validate:"oneof=debug info warn error"`

	EventSource   string        `validate:"oneof=mock supabase"`
	SavedStore    string        `validate:"oneof=memory mongo"`
	FetchDelay    time.Duration `validate:"min=0"`
	DefaultCenter models.Coordinates
	Timezone      string
	Location      *time.Location `validate:"-"`
	ForYouLimit   int            `validate:"min=1,max=100"`

	AttendPolicy   store.AttendPolicy   `validate:"oneof=allow_repeat dedupe"`
	CapacityPolicy store.CapacityPolicy `validate:"oneof=overbook enforce"`
	AuthRequired   bool

	SupabaseURL     string `validate:"required_if=EventSource supabase"`
	SupabaseAnonKey string `validate:"required_if=EventSource supabase"`
	MongoDBURI      string `validate:"required_if=SavedStore mongo"`
	MongoDBPassword string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	CORSOrigins []string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:        getEnvWithDefault("PORT", "8080"),
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:    strings.ToLower(getEnvWithDefault("LOG_LEVEL", "info")),

		EventSource:    strings.ToLower(getEnvWithDefault("EVENT_SOURCE", SourceMock)),
		SavedStore:     strings.ToLower(getEnvWithDefault("SAVED_STORE", SavedMemory)),
		Timezone:       getEnvWithDefault("TIMEZONE", "Asia/Kolkata"),
		AttendPolicy:   store.AttendPolicy(getEnvWithDefault("ATTEND_POLICY", string(store.AllowRepeat))),
		CapacityPolicy: store.CapacityPolicy(getEnvWithDefault("CAPACITY_POLICY", string(store.Overbook))),

		SupabaseURL:     os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey: os.Getenv("SUPABASE_URL_ANON_KEY"),
		MongoDBURI:      os.Getenv("MONGODB_URI"),
		MongoDBPassword: os.Getenv("MONGODB_PASSWORD"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		CORSOrigins: splitList(getEnvWithDefault("CORS_ORIGINS", DefaultCORSOrigin)),
	}

	var err error
	if cfg.FetchDelay, err = time.ParseDuration(getEnvWithDefault("FETCH_DELAY", "1s")); err != nil {
		return nil, fmt.Errorf("invalid FETCH_DELAY: %w", err)
	}
	if cfg.ForYouLimit, err = strconv.Atoi(getEnvWithDefault("FOR_YOU_LIMIT", "10")); err != nil {
		return nil, fmt.Errorf("invalid FOR_YOU_LIMIT: %w", err)
	}
	if cfg.AuthRequired, err = strconv.ParseBool(getEnvWithDefault("AUTH_REQUIRED", "false")); err != nil {
		return nil, fmt.Errorf("invalid AUTH_REQUIRED: %w", err)
	}

	cfg.DefaultCenter = models.DefaultCoordinates
	if lat := os.Getenv("DEFAULT_LAT"); lat != "" {
		if cfg.DefaultCenter.Latitude, err = strconv.ParseFloat(lat, 64); err != nil {
			return nil, fmt.Errorf("invalid DEFAULT_LAT: %w", err)
		}
	}
	if lng := os.Getenv("DEFAULT_LNG"); lng != "" {
		if cfg.DefaultCenter.Longitude, err = strconv.ParseFloat(lng, 64); err != nil {
			return nil, fmt.Errorf("invalid DEFAULT_LNG: %w", err)
		}
	}

	if cfg.Location, err = time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges and that every selected backend has its
// credentials.
func (c *Config) Validate() error {
	if err := models.Validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if !c.DefaultCenter.Valid() {
		return fmt.Errorf("DEFAULT_LAT/DEFAULT_LNG out of range")
	}
	if c.AuthRequired && c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required when AUTH_REQUIRED is set")
	}
	if c.SavedStore == SavedMongo && strings.Contains(c.MongoDBURI, "<password>") && c.MongoDBPassword == "" {
		return fmt.Errorf("MONGODB_PASSWORD is required")
	}
	return nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func (c *Config) SupabaseEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseAnonKey != ""
}

func (c *Config) Policy() store.Policy {
	return store.Policy{Attend: c.AttendPolicy, Capacity: c.CapacityPolicy}
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
