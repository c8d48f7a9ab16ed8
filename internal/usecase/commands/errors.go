package commands

import (
	"court-booking/internal/infra"
	"court-booking/internal/pkg/errs"
	"court-booking/internal/usecase/shared"
)

// Sentinels are marked onto causes; match them with errs.Is.
var (
	ErrValidation = errs.New("validation failed")
	ErrForbidden  = errs.New("forbidden")

	ErrCourtNotFound   = errs.New("court not found")
	ErrClubNotFound    = errs.New("club not found")
	ErrSlotNotFound    = errs.New("time slot not found")
	ErrBookingNotFound = errs.New("booking not found")
	ErrPaymentNotFound = errs.New("payment not found")
	ErrGatewayNotFound = errs.New("payment gateway not found")

	ErrSlotUnavailable   = errs.New("slot no longer available")
	ErrCourtNotBookable  = errs.New("court is not open for booking")
	ErrInvalidTransition = errs.New("booking status transition not allowed")
	ErrPaymentRequired   = errs.New("booking confirms through its payment")
	ErrCourtHasBookings  = errs.New("court has bookings")
	ErrSlotInPast        = errs.New("time slot has already started")
	ErrSlotCourtMismatch = errs.New("time slot does not belong to court")
	ErrIdempotencyReuse  = errs.New("idempotency key reused for a different booking")

	ErrInvalidSignature  = shared.ErrInvalidSignature
	ErrMalformedCallback = shared.ErrMalformedCallback
	ErrAmountMismatch    = errs.New("callback amount does not match payment")

	ErrGatewayFailure       = errs.New("payment gateway failure")
	ErrGatewayNotConfigured = errs.New("payment gateway not configured")
)

// markNotFound tags repository not-found errors with a use-case sentinel.
func markNotFound(err, sentinel error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, sentinel)
	}
	return err
}
