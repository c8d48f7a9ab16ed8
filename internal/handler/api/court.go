package api

import (
	"net/http"

	reqdto "court-booking/internal/handler/dto/request"
	resdto "court-booking/internal/handler/dto/response"
	"court-booking/internal/handler/middleware"
	"court-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CourtHandler struct {
	commands commands.CourtCommands
}

func NewCourtHandler(commands commands.CourtCommands) *CourtHandler {
	return &CourtHandler{commands: commands}
}

// @Summary Create court
// @Description Create a court on a club owned by the caller
// @Tags courts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateCourtRequest true "Court"
// @Success 201 {object} resdto.CourtResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /courts [post]
func (h *CourtHandler) Create(c *gin.Context) {
	actor, ok := middleware.GetIdentity(c)
	if !ok {
		abortMissingIdentity(c)
		return
	}

	var req reqdto.CreateCourtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err, "Invalid request format")
		return
	}

	created, err := h.commands.CreateCourt(c.Request.Context(), commands.CreateCourtInput{
		ClubID:         req.ClubID,
		Actor:          actor,
		Name:           req.Name,
		PricePerHour:   req.PricePerHour,
		OperatingHours: req.OperatingHours,
	})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.Header("Location", "/api/courts/"+created.ID().String())
	c.JSON(http.StatusCreated, resdto.FromCourt(created))
}

// @Summary Update court
// @Description Owners edit details and status; admins may change status only
// @Tags courts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Court ID"
// @Param request body reqdto.UpdateCourtRequest true "Changes"
// @Success 200 {object} resdto.CourtResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /courts/{id} [patch]
func (h *CourtHandler) Update(c *gin.Context) {
	actor, ok := middleware.GetIdentity(c)
	if !ok {
		abortMissingIdentity(c)
		return
	}

	courtID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortBadRequest(c, err, "Invalid court ID format")
		return
	}

	var req reqdto.UpdateCourtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err, "Invalid request format")
		return
	}

	updated, err := h.commands.UpdateCourt(c.Request.Context(), commands.UpdateCourtInput{
		CourtID:             courtID,
		Actor:               actor,
		Name:                req.Name,
		PricePerHour:        req.PricePerHour,
		Status:              req.Status,
		OperatingHours:      req.OperatingHours,
		ClearOperatingHours: req.ClearOperatingHours,
	})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCourt(updated))
}

// @Summary Delete court
// @Description Delete a court that has never been booked
// @Tags courts
// @Security BearerAuth
// @Param id path string true "Court ID"
// @Success 204
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /courts/{id} [delete]
func (h *CourtHandler) Delete(c *gin.Context) {
	actor, ok := middleware.GetIdentity(c)
	if !ok {
		abortMissingIdentity(c)
		return
	}

	courtID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortBadRequest(c, err, "Invalid court ID format")
		return
	}

	if err := h.commands.DeleteCourt(c.Request.Context(), courtID, actor); err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
