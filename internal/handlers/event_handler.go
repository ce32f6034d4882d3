package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/happenings/internal/models"
	"github.com/joshua-takyi/happenings/internal/services"
)

// ListEvents refetches from the source and returns every event with its
// distance from ?lat&lng.
func ListEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		center := es.ResolveCenter(queryCoordinates(c))

		events, err := es.FetchEvents(c.Request.Context(), viewerFrom(c), center)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(events, 0, len(events)))
	}
}

func CreateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.EventInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		event, err := es.AddEvent(c.Request.Context(), viewerFrom(c), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(event, "Event created successfully"))
	}
}

func GetEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := paramID(c)
		if id == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("event ID is required"))
			return
		}

		center := es.ResolveCenter(queryCoordinates(c))
		event, err := es.GetEvent(c.Request.Context(), viewerFrom(c), id, center)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, ""))
	}
}

func ToggleSave(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := es.ToggleSave(c.Request.Context(), viewerFrom(c), paramID(c))
		if err != nil {
			writeError(c, err)
			return
		}

		msg := "Event removed from saved"
		if event.IsSaved {
			msg = "Event saved"
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, msg))
	}
}

func ListSavedEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		center := es.ResolveCenter(queryCoordinates(c))

		events, err := es.SavedEvents(c.Request.Context(), viewerFrom(c), center)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(events, 0, len(events)))
	}
}

func AttendEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := es.Attend(c.Request.Context(), viewerFrom(c), paramID(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(res, "You're going!"))
	}
}

func FriendsAttending(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		friends, err := es.FriendsAttending(c.Request.Context(), viewerFrom(c), paramID(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(friends, 0, len(friends)))
	}
}
