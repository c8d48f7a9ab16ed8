//go:build unit || e2e

package builder

import (
	"time"

	"court-booking/internal/domain/booking"
	"court-booking/internal/domain/slot"
	reqdto "court-booking/internal/handler/dto/request"
	"court-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	CourtID        uuid.UUID
	CustomerID     uuid.UUID
	CustomerEmail  string
	OwnerID        uuid.UUID
	Date           time.Time
	Start          slot.TimeOfDay
	End            slot.TimeOfDay
	PlayerCount    int
	TotalPrice     int64
	PaymentMethod  booking.PaymentMethod
	Status         booking.Status
	IdempotencyKey *uuid.UUID
	Now            time.Time
}

func NewBookingBuilder() *BookingBuilder {
	date, _ := slot.ParseDate("2024-06-01")
	return &BookingBuilder{
		CourtID:       uuid.New(),
		CustomerID:    uuid.New(),
		CustomerEmail: "player@example.com",
		OwnerID:       uuid.New(),
		Date:          date,
		Start:         9 * 60,
		End:           10 * 60,
		PlayerCount:   4,
		TotalPrice:    120000,
		PaymentMethod: booking.PaymentMethodCard,
		Status:        booking.StatusPending,
		Now:           time.Date(2024, 5, 30, 12, 0, 0, 0, time.UTC),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) WithPlayerCount(n int) *BookingBuilder {
	b.PlayerCount = n
	return b
}

func (b *BookingBuilder) WithPaymentMethod(m booking.PaymentMethod) *BookingBuilder {
	b.PaymentMethod = m
	return b
}

func (b *BookingBuilder) WithStatus(s booking.Status) *BookingBuilder {
	b.Status = s
	return b
}

func (b *BookingBuilder) BuildSlot() *slot.TimeSlot {
	s, err := slot.NewTimeSlot(b.CourtID, b.Date, b.Start, b.End)
	if err != nil {
		panic(err)
	}
	return s
}

// BuildDomain goes through the constructor so validation rules apply.
func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	return booking.NewBooking(booking.NewBookingParams{
		TimeSlot:       b.BuildSlot(),
		CourtID:        b.CourtID,
		CustomerID:     b.CustomerID,
		CustomerEmail:  b.CustomerEmail,
		OwnerID:        b.OwnerID,
		PlayerCount:    b.PlayerCount,
		TotalPrice:     b.TotalPrice,
		PaymentMethod:  b.PaymentMethod,
		IdempotencyKey: b.IdempotencyKey,
		Now:            b.Now,
	})
}

// BuildStored reconstructs a booking as if read back from storage in b.Status.
func (b *BookingBuilder) BuildStored() *booking.Booking {
	return booking.ReconstructBooking(
		uuid.New(), uuid.New(), b.CourtID, b.CustomerID, b.CustomerEmail, b.OwnerID,
		b.Date, b.Start, b.End, b.PlayerCount, b.TotalPrice, b.PaymentMethod, b.Status,
		b.IdempotencyKey, b.Now, b.Now,
	)
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		TimeSlotID:    uuid.New(),
		CourtID:       b.CourtID,
		PlayerCount:   b.PlayerCount,
		PaymentMethod: b.PaymentMethod.String(),
	}
}

func (b *BookingBuilder) BuildView() queries.BookingView {
	return queries.ToBookingView(b.BuildStored(), nil)
}
