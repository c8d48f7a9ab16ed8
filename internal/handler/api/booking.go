package api

import (
	"net/http"

	reqdto "court-booking/internal/handler/dto/request"
	resdto "court-booking/internal/handler/dto/response"
	"court-booking/internal/handler/httperr"
	"court-booking/internal/handler/middleware"
	"court-booking/internal/pkg/errs"
	"court-booking/internal/usecase/commands"
	"court-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const idempotencyKeyHeader = "Idempotency-Key"

type BookingHandler struct {
	commands commands.BookingCommands
	queries  queries.BookingQueries
}

func NewBookingHandler(commands commands.BookingCommands, queries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		commands: commands,
		queries:  queries,
	}
}

// @Summary Create booking
// @Description Book a time slot. Card and gateway bookings return a payment redirect; cash bookings wait for the owner.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Replays the original booking when retried with the same key"
// @Param request body reqdto.CreateBookingRequest true "Booking"
// @Success 201 {object} resdto.CreateBookingResponse
// @Success 200 {object} resdto.CreateBookingResponse "replayed"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	customer, ok := middleware.GetIdentity(c)
	if !ok {
		abortMissingIdentity(c)
		return
	}

	idempotencyKey, err := idempotencyKeyFrom(c)
	if err != nil {
		abortBadRequest(c, err, "Invalid idempotency key format")
		return
	}

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err, "Invalid request format")
		return
	}

	result, err := h.commands.CreateBooking(c.Request.Context(), commands.CreateBookingInput{
		TimeSlotID:     req.TimeSlotID,
		CourtID:        req.CourtID,
		Customer:       customer,
		PlayerCount:    req.PlayerCount,
		PaymentMethod:  req.PaymentMethod,
		IdempotencyKey: idempotencyKey,
		ClientIP:       c.ClientIP(),
	})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	view, err := resdto.FromBookingView(queries.ToBookingView(result.Booking, result.Payment))
	if err != nil {
		httperr.Abort(c, err, httperr.Internal())
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.Header("Location", "/api/bookings/"+view.ID.String())
	c.JSON(status, resdto.CreateBookingResponse{
		Booking:         view,
		PaymentRedirect: result.PaymentRedirect,
		Replayed:        result.IsReplayed,
	})
}

// @Summary Get booking
// @Description Visible to the booking's customer, the court owner, and admins
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	actor, ok := middleware.GetIdentity(c)
	if !ok {
		abortMissingIdentity(c)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortBadRequest(c, err, "Invalid booking ID format")
		return
	}

	view, err := h.queries.Get(c.Request.Context(), id, actor)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	res, err := resdto.FromBookingView(*view)
	if err != nil {
		httperr.Abort(c, err, httperr.Internal())
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary List bookings
// @Description Customers see their own bookings, club owners the bookings of their courts, admins everything
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, confirmed or cancelled"
// @Param court_id query string false "Court ID"
// @Param date_from query string false "YYYY-MM-DD"
// @Param date_to query string false "YYYY-MM-DD"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} resdto.BookingListResponse
// @Failure 400 {object} httperr.Response
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	actor, ok := middleware.GetIdentity(c)
	if !ok {
		abortMissingIdentity(c)
		return
	}

	var q reqdto.ListBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBadRequest(c, err, "Invalid query parameters")
		return
	}

	page, err := h.queries.List(c.Request.Context(), queries.ListBookingsInput{
		Actor:    actor,
		Status:   q.Status,
		CourtID:  q.CourtID,
		DateFrom: q.DateFrom,
		DateTo:   q.DateTo,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	res, err := resdto.FromBookingPage(page)
	if err != nil {
		httperr.Abort(c, err, httperr.Internal())
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Update booking status
// @Description Owners and admins confirm cash bookings; customers, owners and admins may cancel
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.UpdateBookingStatusRequest true "New status"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/status [put]
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	actor, ok := middleware.GetIdentity(c)
	if !ok {
		abortMissingIdentity(c)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortBadRequest(c, err, "Invalid booking ID format")
		return
	}

	var req reqdto.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err, "Invalid request format")
		return
	}

	updated, err := h.commands.UpdateStatus(c.Request.Context(), commands.UpdateStatusInput{
		BookingID: id,
		Actor:     actor,
		NewStatus: req.Status,
	})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	res, err := resdto.FromBookingView(queries.ToBookingView(updated, nil))
	if err != nil {
		httperr.Abort(c, err, httperr.Internal())
		return
	}
	c.JSON(http.StatusOK, res)
}

// idempotencyKeyFrom returns nil when the header is absent.
func idempotencyKeyFrom(c *gin.Context) (*uuid.UUID, error) {
	raw := c.GetHeader(idempotencyKeyHeader)
	if raw == "" {
		return nil, nil
	}
	key, err := uuid.Parse(raw)
	if err != nil {
		return nil, errs.Wrap(err, "parse idempotency key")
	}
	return &key, nil
}
