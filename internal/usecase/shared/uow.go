package shared

import (
	"context"
	"encoding/json"
	"time"

	"court-booking/internal/domain/booking"
	"court-booking/internal/domain/court"
	"court-booking/internal/domain/payment"
	"court-booking/internal/domain/slot"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx hands out repositories bound to one transaction (or to the pool for WithDB).
type Tx interface {
	Courts() CourtRepository
	Slots() SlotRepository
	Bookings() BookingRepository
	Payments() PaymentRepository
}

type CourtRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*court.Court, error)
	// ClubOwner returns the owner of a club; not found when the club does not exist.
	ClubOwner(ctx context.Context, clubID uuid.UUID) (uuid.UUID, error)
	Create(ctx context.Context, c *court.Court) error
	Update(ctx context.Context, c *court.Court) error
	// DeleteIfUnbooked reports false when any booking references the court.
	DeleteIfUnbooked(ctx context.Context, id uuid.UUID) (bool, error)
}

type SlotRepository interface {
	ListByCourtAndDate(ctx context.Context, courtID uuid.UUID, date time.Time) ([]*slot.TimeSlot, error)
	// LockCourtDate serializes slot generation for one (court, date) until the transaction ends.
	LockCourtDate(ctx context.Context, courtID uuid.UUID, date time.Time) error
	// InsertIfAbsent skips slots whose (court, date, start) already exists and returns how many were written.
	InsertIfAbsent(ctx context.Context, slots []*slot.TimeSlot) (int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*slot.TimeSlot, error)
	// Reserve flips an available slot to unavailable; false means someone else got it first.
	Reserve(ctx context.Context, id uuid.UUID) (bool, error)
	Release(ctx context.Context, id uuid.UUID) (bool, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	FindByIdempotencyKey(ctx context.Context, customerID, key uuid.UUID) (*booking.Booking, error)
	// TransitionStatus writes only if the stored status still equals from.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to booking.Status, at time.Time) (bool, error)
	List(ctx context.Context, f booking.Filter) ([]*booking.Booking, int, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *payment.Payment) error
	FindByTransactionID(ctx context.Context, transactionID string) (*payment.Payment, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*payment.Payment, error)
	// Settle writes only if the payment is still pending.
	Settle(ctx context.Context, transactionID string, to payment.Status, raw json.RawMessage, at time.Time) (bool, error)
}
