package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/happenings/internal/helpers"
	"github.com/joshua-takyi/happenings/internal/models"
)

const (
	UserKey      = "user"
	RequestIDKey = "request_id"
)

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		requestID, _ := c.Get(RequestIDKey)
		attrs := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if v, ok := c.Get(UserKey); ok {
			if viewer, ok := v.(*helpers.ViewerClaims); ok {
				attrs = append(attrs, "user_id", viewer.UserID)
			}
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("HTTP Request", attrs...)
		case status >= http.StatusBadRequest:
			logger.Warn("HTTP Request", attrs...)
		default:
			logger.Info("HTTP Request", attrs...)
		}
	}
}

// ErrorHandler logs errors handlers attached with c.Error and answers with a
// 500 envelope when the handler didn't write a response itself.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()
		requestID, _ := c.Get(RequestIDKey)

		logger.Error("Request error",
			"request_id", requestID,
			"error", err.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		if c.Writer.Written() {
			return
		}
		status := http.StatusInternalServerError
		if errors.Is(err.Err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		// Don't return error details to the client
		c.JSON(status, models.ApiResponse{
			Success: false,
			Error:   http.StatusText(status),
			Message: "request_id: " + toString(requestID),
		})
	}
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}

// bearerToken reads the access token from the access_token cookie, falling
// back to an Authorization: Bearer header.
func bearerToken(c *gin.Context) string {
	if token, err := c.Cookie("access_token"); err == nil && token != "" {
		return token
	}
	auth := c.GetHeader("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// Viewer resolves who the request acts as and stores it under "user".
// Requests without a token run as the anonymous viewer unless required is
// set. A token that fails validation is always rejected.
func Viewer(validate helpers.TokenValidator, profiles models.ProfileRepo, required bool, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" || validate == nil {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse("authentication required"))
				return
			}
			c.Set(UserKey, helpers.AnonymousViewer())
			c.Next()
			return
		}

		claims, err := validate(c.Request.Context(), token)
		if err != nil {
			logger.Info("Token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse("invalid or expired token"))
			return
		}

		viewer := &helpers.ViewerClaims{
			CustomClaims: claims,
			UserID:       claims.Subject,
			Email:        claims.Email,
			Name:         claims.MetadataString("full_name"),
			AvatarURL:    claims.MetadataString("avatar_url"),
			Token:        token,
		}

		if profiles != nil {
			if id, err := uuid.Parse(claims.Subject); err == nil {
				profile, err := profiles.GetProfile(c.Request.Context(), id, token)
				if err != nil {
					logger.Info("Profile not found, using token metadata",
						"user_id", claims.Subject,
						"error", err,
					)
				} else {
					if name := profile.DisplayName(); name != "" {
						viewer.Name = name
					}
					if profile.AvatarURL != "" {
						viewer.AvatarURL = profile.AvatarURL
					}
				}
			}
		}

		c.Set(UserKey, viewer)
		c.Next()
	}
}

// CurrentViewer returns the viewer stored by Viewer, or the anonymous viewer
// when the middleware didn't run.
func CurrentViewer(c *gin.Context) *helpers.ViewerClaims {
	if v, ok := c.Get(UserKey); ok {
		if viewer, ok := v.(*helpers.ViewerClaims); ok {
			return viewer
		}
	}
	return helpers.AnonymousViewer()
}
