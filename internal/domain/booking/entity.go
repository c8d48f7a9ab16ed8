package booking

import (
	"time"

	"court-booking/internal/domain/slot"

	"github.com/google/uuid"
)

const DefaultMaxPlayers = 8

type Booking struct {
	id             uuid.UUID
	timeSlotID     uuid.UUID
	courtID        uuid.UUID
	customerID     uuid.UUID
	customerEmail  string
	ownerID        uuid.UUID
	date           time.Time
	start          slot.TimeOfDay
	end            slot.TimeOfDay
	playerCount    int
	totalPrice     int64
	paymentMethod  PaymentMethod
	status         Status
	idempotencyKey *uuid.UUID
	createdAt      time.Time
	updatedAt      time.Time
}

type NewBookingParams struct {
	TimeSlot       *slot.TimeSlot
	CourtID        uuid.UUID
	CustomerID     uuid.UUID
	CustomerEmail  string
	OwnerID        uuid.UUID
	PlayerCount    int
	MaxPlayers     int
	TotalPrice     int64
	PaymentMethod  PaymentMethod
	IdempotencyKey *uuid.UUID
	Now            time.Time
}

// NewBooking creates a pending booking, denormalizing the slot's date and window.
func NewBooking(p NewBookingParams) (*Booking, error) {
	if p.TimeSlot == nil || p.CourtID == uuid.Nil || p.CustomerID == uuid.Nil || p.OwnerID == uuid.Nil {
		return nil, ErrMissingReference
	}
	maxPlayers := p.MaxPlayers
	if maxPlayers <= 0 {
		maxPlayers = DefaultMaxPlayers
	}
	if p.PlayerCount < 1 || p.PlayerCount > maxPlayers {
		return nil, ErrInvalidPlayerCount
	}
	if p.TotalPrice < 0 {
		return nil, ErrInvalidPrice
	}
	if !p.PaymentMethod.IsValid() {
		return nil, ErrInvalidPaymentMethod
	}

	return &Booking{
		id:             uuid.New(),
		timeSlotID:     p.TimeSlot.ID(),
		courtID:        p.CourtID,
		customerID:     p.CustomerID,
		customerEmail:  p.CustomerEmail,
		ownerID:        p.OwnerID,
		date:           p.TimeSlot.Date(),
		start:          p.TimeSlot.Start(),
		end:            p.TimeSlot.End(),
		playerCount:    p.PlayerCount,
		totalPrice:     p.TotalPrice,
		paymentMethod:  p.PaymentMethod,
		status:         StatusPending,
		idempotencyKey: p.IdempotencyKey,
		createdAt:      p.Now,
		updatedAt:      p.Now,
	}, nil
}

func ReconstructBooking(
	id, timeSlotID, courtID, customerID uuid.UUID,
	customerEmail string,
	ownerID uuid.UUID,
	date time.Time,
	start, end slot.TimeOfDay,
	playerCount int,
	totalPrice int64,
	paymentMethod PaymentMethod,
	status Status,
	idempotencyKey *uuid.UUID,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:             id,
		timeSlotID:     timeSlotID,
		courtID:        courtID,
		customerID:     customerID,
		customerEmail:  customerEmail,
		ownerID:        ownerID,
		date:           date,
		start:          start,
		end:            end,
		playerCount:    playerCount,
		totalPrice:     totalPrice,
		paymentMethod:  paymentMethod,
		status:         status,
		idempotencyKey: idempotencyKey,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// TransitionTo applies a legal status change in memory. Persistence must
// still guard the write on the previous status.
func (b *Booking) TransitionTo(to Status, at time.Time) error {
	if !to.IsValid() {
		return ErrInvalidStatus
	}
	if !CanTransition(b.status, to) {
		return ErrInvalidTransition
	}
	b.status = to
	b.updatedAt = at
	return nil
}

func (b *Booking) ID() uuid.UUID                { return b.id }
func (b *Booking) TimeSlotID() uuid.UUID        { return b.timeSlotID }
func (b *Booking) CourtID() uuid.UUID           { return b.courtID }
func (b *Booking) CustomerID() uuid.UUID        { return b.customerID }
func (b *Booking) CustomerEmail() string        { return b.customerEmail }
func (b *Booking) OwnerID() uuid.UUID           { return b.ownerID }
func (b *Booking) Date() time.Time              { return b.date }
func (b *Booking) Start() slot.TimeOfDay        { return b.start }
func (b *Booking) End() slot.TimeOfDay          { return b.end }
func (b *Booking) PlayerCount() int             { return b.playerCount }
func (b *Booking) TotalPrice() int64            { return b.totalPrice }
func (b *Booking) PaymentMethod() PaymentMethod { return b.paymentMethod }
func (b *Booking) Status() Status               { return b.status }
func (b *Booking) IdempotencyKey() *uuid.UUID   { return b.idempotencyKey }
func (b *Booking) CreatedAt() time.Time         { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time         { return b.updatedAt }
