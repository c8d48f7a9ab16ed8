package commands

import (
	"context"
	"time"

	"court-booking/internal/domain/booking"
	"court-booking/internal/domain/slot"
	"court-booking/internal/pkg/config"
)

type settings struct {
	fallbackHours   slot.OperatingHours
	location        *time.Location
	currency        string
	maxPlayers      int
	dbTimeout       time.Duration
	gatewayTimeout  time.Duration
	callbackTimeout time.Duration
}

func newSettings(cfg config.Config) settings {
	s := settings{
		fallbackHours:   slot.DefaultOperatingHours,
		location:        cfg.Booking.Location(),
		currency:        cfg.Booking.Currency,
		maxPlayers:      cfg.Booking.MaxPlayers,
		dbTimeout:       cfg.Timeouts.DB,
		gatewayTimeout:  cfg.Timeouts.Gateway,
		callbackTimeout: cfg.Timeouts.Callback,
	}
	if open, err := slot.ParseTimeOfDay(cfg.Booking.DefaultOpen); err == nil {
		if closing, err := slot.ParseTimeOfDay(cfg.Booking.DefaultClose); err == nil && cfg.Booking.DefaultSlotMinutes > 0 {
			s.fallbackHours = slot.OperatingHours{
				Open:       open,
				Close:      closing,
				SlotLength: time.Duration(cfg.Booking.DefaultSlotMinutes) * time.Minute,
			}
		}
	}
	if s.maxPlayers <= 0 {
		s.maxPlayers = booking.DefaultMaxPlayers
	}
	if s.currency == "" {
		s.currency = "vnd"
	}
	return s
}

// bounded returns ctx limited by d, or ctx unchanged when d is not positive.
func bounded(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
