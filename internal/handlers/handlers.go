package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/happenings/internal/helpers"
	"github.com/joshua-takyi/happenings/internal/middleware"
	"github.com/joshua-takyi/happenings/internal/models"
	"github.com/joshua-takyi/happenings/internal/services"
	"github.com/joshua-takyi/happenings/internal/store"
)

func viewerFrom(c *gin.Context) services.Viewer {
	claims := middleware.CurrentViewer(c)
	return services.Viewer{
		ID:        claims.UserID,
		Name:      claims.DisplayName(),
		AvatarURL: claims.AvatarURL,
	}
}

// queryCoordinates reads ?lat&lng. Missing or unparseable values yield nil so
// the service falls back to the default coordinate.
func queryCoordinates(c *gin.Context) *models.Coordinates {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		return nil
	}
	return &models.Coordinates{Latitude: lat, Longitude: lng}
}

func queryLimit(c *gin.Context, def int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return def, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid limit parameter"))
		return 0, false
	}
	return limit, true
}

func paramID(c *gin.Context) string {
	return helpers.StringTrim(c.Param("id"))
}

// writeError maps domain errors onto status codes. Anything unexpected goes
// to the ErrorHandler middleware.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrEventNotFound), errors.Is(err, services.ErrChatNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
	case errors.Is(err, store.ErrAlreadyAttending), errors.Is(err, store.ErrEventFull):
		c.JSON(http.StatusConflict, models.ErrorResponse(err.Error()))
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrInvalidMessage):
		c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
	default:
		_ = c.Error(err)
	}
}

func splitCSV(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
