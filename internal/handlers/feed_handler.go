package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/happenings/internal/models"
	"github.com/joshua-takyi/happenings/internal/services"
)

// Feed serves the foryou and all tabs with search, category and distance
// filters applied.
func Feed(es *services.EventService, rs *services.RecommendationService, defaultLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		tab, err := services.ParseFeedTab(c.Query("tab"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		limit, ok := queryLimit(c, defaultLimit)
		if !ok {
			return
		}

		filter := services.FeedFilter{
			Query:      c.Query("q"),
			Categories: splitCSV(c.Query("categories")),
		}
		if raw := c.Query("max_distance"); raw != "" {
			d, err := strconv.ParseFloat(raw, 64)
			if err != nil || d <= 0 {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid max_distance parameter"))
				return
			}
			filter.MaxDistanceKm = d
		}

		viewer := viewerFrom(c)
		center := es.ResolveCenter(queryCoordinates(c))
		events, err := es.Events(c.Request.Context(), viewer, center)
		if err != nil {
			writeError(c, err)
			return
		}

		feed := rs.Feed(events, tab, filter, rs.PreferencesFor(viewer.ID), limit)
		c.JSON(http.StatusOK, models.ListResponse(feed, limit, len(events)))
	}
}

// Recommendations returns the top scored events with the reasons behind
// each score.
func Recommendations(es *services.EventService, rs *services.RecommendationService, defaultLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, ok := queryLimit(c, defaultLimit)
		if !ok {
			return
		}

		viewer := viewerFrom(c)
		center := es.ResolveCenter(queryCoordinates(c))
		events, err := es.Events(c.Request.Context(), viewer, center)
		if err != nil {
			writeError(c, err)
			return
		}

		top := rs.Top(events, rs.PreferencesFor(viewer.ID), limit)
		c.JSON(http.StatusOK, models.ListResponse(top, limit, len(events)))
	}
}
