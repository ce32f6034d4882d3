package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/happenings/internal/helpers"
	"github.com/joshua-takyi/happenings/internal/models"
	"github.com/joshua-takyi/happenings/internal/services"
)

func MapMarkers(es *services.EventService, ms *services.MapService) gin.HandlerFunc {
	return func(c *gin.Context) {
		mode, err := services.ParseMapMode(c.Query("mode"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		focus := helpers.StringTrim(c.Query("focus"))

		center := es.ResolveCenter(queryCoordinates(c))
		events, err := es.Events(c.Request.Context(), viewerFrom(c), center)
		if err != nil {
			writeError(c, err)
			return
		}

		visible := ms.Filter(events, services.MapFilter{Mode: mode, Center: center, FocusID: focus})
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"mode":    mode,
			"center":  center,
			"markers": ms.Markers(visible, focus),
			"events":  visible,
		}, ""))
	}
}
