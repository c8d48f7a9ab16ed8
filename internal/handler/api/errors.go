package api

import (
	"context"
	"net/http"

	"court-booking/internal/handler/httperr"
	"court-booking/internal/pkg/errs"
	"court-booking/internal/usecase/commands"
	"court-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// Order matters: the first matching sentinel wins.
var errorMappings = []errorMapping{
	{commands.ErrInvalidSignature, http.StatusUnauthorized, "invalid_signature", "Callback authenticity check failed"},
	{commands.ErrMalformedCallback, http.StatusBadRequest, "malformed_callback", "Malformed callback payload"},
	{commands.ErrAmountMismatch, http.StatusBadRequest, "amount_mismatch", "Callback amount does not match payment"},

	{commands.ErrForbidden, http.StatusForbidden, httperr.CodeForbidden, "Insufficient permissions"},
	{queries.ErrForbidden, http.StatusForbidden, httperr.CodeForbidden, "Insufficient permissions"},

	{commands.ErrCourtNotFound, http.StatusNotFound, "court_not_found", "Court not found"},
	{commands.ErrClubNotFound, http.StatusNotFound, "club_not_found", "Club not found"},
	{commands.ErrSlotNotFound, http.StatusNotFound, "slot_not_found", "Time slot not found"},
	{commands.ErrBookingNotFound, http.StatusNotFound, "booking_not_found", "Booking not found"},
	{queries.ErrBookingNotFound, http.StatusNotFound, "booking_not_found", "Booking not found"},
	{commands.ErrPaymentNotFound, http.StatusNotFound, "payment_not_found", "Payment not found"},
	{commands.ErrGatewayNotFound, http.StatusNotFound, "gateway_not_found", "Payment gateway not found"},

	{commands.ErrSlotUnavailable, http.StatusConflict, "slot_unavailable", "This time slot is no longer available, please pick another time slot"},
	{commands.ErrCourtNotBookable, http.StatusConflict, "court_not_bookable", "Court is not open for booking"},
	{commands.ErrInvalidTransition, http.StatusConflict, "invalid_transition", "Booking status transition not allowed"},
	{commands.ErrPaymentRequired, http.StatusConflict, "payment_required", "Booking is confirmed by its payment"},
	{commands.ErrCourtHasBookings, http.StatusConflict, "court_has_bookings", "Court has bookings and cannot be deleted"},
	{commands.ErrIdempotencyReuse, http.StatusConflict, "idempotency_key_reused", "Idempotency key was already used for a different booking"},

	{commands.ErrSlotInPast, http.StatusBadRequest, "slot_in_past", "Time slot has already started"},
	{commands.ErrSlotCourtMismatch, http.StatusBadRequest, "slot_court_mismatch", "Time slot does not belong to the court"},
	{commands.ErrGatewayNotConfigured, http.StatusBadRequest, "payment_method_unavailable", "Payment method is not available"},
	{commands.ErrValidation, http.StatusBadRequest, "validation_failed", "Invalid request"},
	{queries.ErrInvalidFilter, http.StatusBadRequest, "invalid_filter", "Invalid filter"},

	{commands.ErrGatewayFailure, http.StatusBadGateway, "gateway_unavailable", "Payment gateway is unavailable, please try again"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout", "Request timed out"},
}

// abortWithUseCaseError maps use-case sentinels onto the HTTP error body.
func abortWithUseCaseError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !errs.Is(err, m.target) {
			continue
		}
		var detail any
		if m.status == http.StatusBadRequest {
			detail = err.Error()
		}
		httperr.Abort(c, err, httperr.New(m.status, m.code, m.message, detail))
		return
	}
	httperr.Abort(c, err, httperr.Internal())
}

func abortBadRequest(c *gin.Context, err error, msg string) {
	httperr.AbortWithError(c, http.StatusBadRequest, err, msg, nil)
}

func abortMissingIdentity(c *gin.Context) {
	httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("identity missing from request context"), "Unauthorized", nil)
}
