//go:build unit

package commands_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"court-booking/internal/domain/court"
	"court-booking/internal/domain/payment"
	"court-booking/internal/domain/slot"
	"court-booking/internal/domain/user"
	"court-booking/internal/infra/metrics"
	"court-booking/internal/pkg/clock"
	"court-booking/internal/pkg/config"
	"court-booking/internal/usecase/commands"
	"court-booking/internal/usecase/shared"
	"court-booking/internal/usecase/shared/sharedtest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *sharedtest.Store
	stripe   *sharedtest.StubGateway
	regional *sharedtest.StubGateway
	notifier *sharedtest.RecordingNotifier
	clock    *clock.MockClock
	cfg      config.Config
	metrics  *metrics.Recorder

	clubID   uuid.UUID
	court    *court.Court
	owner    user.Identity
	customer user.Identity
	admin    user.Identity

	availability commands.AvailabilityCommands
	bookings     commands.BookingCommands
	payments     commands.PaymentCommands
	courts       commands.CourtCommands
}

var bookingDay = "2024-06-01"

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:    sharedtest.NewStore(),
		stripe:   &sharedtest.StubGateway{GatewayName: payment.GatewayStripe},
		regional: &sharedtest.StubGateway{GatewayName: payment.GatewayRegional},
		notifier: &sharedtest.RecordingNotifier{},
		clock:    clock.NewMockClock(time.Date(2024, 5, 30, 12, 0, 0, 0, time.UTC)),
		cfg:      config.NewTestConfig(),
		metrics:  metrics.NewRecorder(),
		clubID:   uuid.New(),
	}
	f.owner = mustIdentity(t, "owner@example.com", "club_owner")
	f.customer = mustIdentity(t, "player@example.com", "customer")
	f.admin = mustIdentity(t, "admin@example.com", "admin")

	hours := slot.OperatingHours{Open: 9 * 60, Close: 11 * 60, SlotLength: time.Hour}
	c, err := court.NewCourt(f.clubID, f.owner.ID, "Court 1", 120000, &hours)
	require.NoError(t, err)
	f.court = c
	f.store.AddCourt(c)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := shared.NewGatewayRegistry(f.stripe, f.regional)

	f.availability = commands.NewAvailabilityCommands(f.store, f.cfg, f.metrics, logger)
	f.bookings = commands.NewBookingCommands(f.store, registry, f.notifier, f.clock, f.cfg, f.metrics, logger)
	f.payments = commands.NewPaymentCommands(f.store, registry, f.notifier, f.clock, f.cfg, f.metrics, logger)
	f.courts = commands.NewCourtCommands(f.store, f.cfg, logger)
	return f
}

func mustIdentity(t *testing.T, email, role string) user.Identity {
	t.Helper()
	id, err := user.NewIdentity(uuid.New(), email, role)
	require.NoError(t, err)
	return id
}

func (f *fixture) addCourt(t *testing.T, raw string) *court.Court {
	t.Helper()
	c, err := court.NewCourt(f.clubID, f.owner.ID, "Court "+uuid.NewString()[:4], 100000, nil)
	require.NoError(t, err)
	c = court.ReconstructCourt(c.ID(), c.ClubID(), c.OwnerID(), c.Name(), c.PricePerHour(), c.Status(), []byte(raw), c.CreatedAt(), c.UpdatedAt())
	f.store.AddCourt(c)
	return c
}

// firstSlot resolves availability and returns the 09:00 slot of the default court.
func (f *fixture) firstSlot(t *testing.T) *slot.TimeSlot {
	t.Helper()
	res, err := f.availability.Resolve(t.Context(), f.court.ID(), bookingDay)
	require.NoError(t, err)
	require.NotEmpty(t, res.Slots)
	return res.Slots[0]
}

func (f *fixture) bookingInput(ts *slot.TimeSlot, method string) commands.CreateBookingInput {
	return commands.CreateBookingInput{
		TimeSlotID:    ts.ID(),
		CourtID:       f.court.ID(),
		Customer:      f.customer,
		PlayerCount:   4,
		PaymentMethod: method,
		ClientIP:      "203.0.113.10",
	}
}

// book creates a booking for the 09:00 slot and returns the result.
func (f *fixture) book(t *testing.T, method string) *commands.CreateBookingResult {
	t.Helper()
	res, err := f.bookings.CreateBooking(t.Context(), f.bookingInput(f.firstSlot(t), method))
	require.NoError(t, err)
	return res
}

func amount(v int64) *int64 { return &v }
