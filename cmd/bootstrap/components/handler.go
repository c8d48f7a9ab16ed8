package components

import (
	"court-booking/internal/handler"
	"court-booking/internal/handler/api"
	"court-booking/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAvailabilityHandler,
		api.NewCourtHandler,
		api.NewBookingHandler,
		api.NewPaymentHandler,
		middleware.NewAuthMiddleware,
		newHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func newHandlers(
	availability *api.AvailabilityHandler,
	court *api.CourtHandler,
	booking *api.BookingHandler,
	payment *api.PaymentHandler,
) handler.Handlers {
	return handler.Handlers{
		Availability: availability,
		Court:        court,
		Booking:      booking,
		Payment:      payment,
	}
}
