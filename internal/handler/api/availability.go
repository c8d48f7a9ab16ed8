package api

import (
	"net/http"

	reqdto "court-booking/internal/handler/dto/request"
	resdto "court-booking/internal/handler/dto/response"
	"court-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	commands commands.AvailabilityCommands
}

func NewAvailabilityHandler(commands commands.AvailabilityCommands) *AvailabilityHandler {
	return &AvailabilityHandler{commands: commands}
}

// @Summary Court availability
// @Description List the slots of a court for one day, generating them from operating hours on first read
// @Tags courts
// @Produce json
// @Param id path string true "Court ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /courts/{id}/availability [get]
func (h *AvailabilityHandler) Get(c *gin.Context) {
	courtID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortBadRequest(c, err, "Invalid court ID format")
		return
	}

	var q reqdto.AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBadRequest(c, err, "Query parameter 'date' is required")
		return
	}

	result, err := h.commands.Resolve(c.Request.Context(), courtID, q.Date)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailability(result))
}
