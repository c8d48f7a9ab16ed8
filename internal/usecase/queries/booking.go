package queries

import (
	"context"
	"time"

	"court-booking/internal/domain/booking"
	"court-booking/internal/domain/payment"
	"court-booking/internal/domain/slot"
	"court-booking/internal/domain/user"
	"court-booking/internal/infra"
	"court-booking/internal/pkg/config"
	"court-booking/internal/pkg/errs"
	"court-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound = errs.New("booking not found")
	ErrForbidden       = errs.New("forbidden")
	ErrInvalidFilter   = errs.New("invalid booking filter")
)

// Read models (DTO for read side)
type BookingView struct {
	ID            uuid.UUID
	TimeSlotID    uuid.UUID
	CourtID       uuid.UUID
	CustomerID    uuid.UUID
	CustomerEmail string
	OwnerID       uuid.UUID
	Date          string
	StartTime     string
	EndTime       string
	PlayerCount   int
	TotalPrice    int64
	PaymentMethod string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Payment       *PaymentView
}

type PaymentView struct {
	TransactionID string
	Gateway       string
	Amount        int64
	Currency      string
	Status        string
	CheckoutURL   string
	SettledAt     *time.Time
}

type BookingPage struct {
	Items  []BookingView
	Total  int
	Limit  int
	Offset int
}

type ListBookingsInput struct {
	Actor    user.Identity
	Status   string
	CourtID  string
	DateFrom string
	DateTo   string
	Limit    int
	Offset   int
}

//go:generate mockgen -source=booking.go -destination=../../mocks/queries/mock_booking.go -package=mockqueries
type BookingQueries interface {
	Get(ctx context.Context, id uuid.UUID, actor user.Identity) (*BookingView, error)
	List(ctx context.Context, in ListBookingsInput) (*BookingPage, error)
}

type bookingQueriesImpl struct {
	uow       shared.UnitOfWork
	dbTimeout time.Duration
}

func NewBookingQueries(uow shared.UnitOfWork, cfg config.Config) BookingQueries {
	return &bookingQueriesImpl{uow: uow, dbTimeout: cfg.Timeouts.DB}
}

func (q *bookingQueriesImpl) Get(ctx context.Context, id uuid.UUID, actor user.Identity) (*BookingView, error) {
	ctx, cancel := q.bounded(ctx)
	defer cancel()

	var view *BookingView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByID(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrBookingNotFound)
			}
			return err
		}
		if !canView(actor, b) {
			return ErrForbidden
		}

		var p *payment.Payment
		if b.PaymentMethod().RequiresPayment() {
			p, err = tx.Payments().FindByBookingID(ctx, b.ID())
			if err != nil && !infra.IsKind(err, infra.KindNotFound) {
				return err
			}
		}
		v := ToBookingView(b, p)
		view = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (q *bookingQueriesImpl) List(ctx context.Context, in ListBookingsInput) (*BookingPage, error) {
	f, err := filterFor(in)
	if err != nil {
		return nil, err
	}

	ctx, cancel := q.bounded(ctx)
	defer cancel()

	page := &BookingPage{Limit: f.Limit, Offset: f.Offset}
	err = q.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		items, total, err := tx.Bookings().List(ctx, f)
		if err != nil {
			return err
		}
		page.Total = total
		page.Items = make([]BookingView, 0, len(items))
		for _, b := range items {
			page.Items = append(page.Items, ToBookingView(b, nil))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// filterFor scopes the listing by role before applying the caller's own predicates.
func filterFor(in ListBookingsInput) (booking.Filter, error) {
	f := booking.Filter{Limit: in.Limit, Offset: in.Offset}

	switch {
	case in.Actor.IsAdmin():
	case in.Actor.IsClubOwner():
		f.OwnerID = &in.Actor.ID
	case in.Actor.IsCustomer():
		f.CustomerID = &in.Actor.ID
	default:
		return booking.Filter{}, ErrForbidden
	}

	if in.Status != "" {
		s, err := booking.ParseStatus(in.Status)
		if err != nil {
			return booking.Filter{}, errs.Mark(err, ErrInvalidFilter)
		}
		f.Status = &s
	}
	if in.CourtID != "" {
		id, err := uuid.Parse(in.CourtID)
		if err != nil {
			return booking.Filter{}, errs.Mark(err, ErrInvalidFilter)
		}
		f.CourtID = &id
	}
	if in.DateFrom != "" {
		d, err := slot.ParseDate(in.DateFrom)
		if err != nil {
			return booking.Filter{}, errs.Mark(err, ErrInvalidFilter)
		}
		f.DateFrom = &d
	}
	if in.DateTo != "" {
		d, err := slot.ParseDate(in.DateTo)
		if err != nil {
			return booking.Filter{}, errs.Mark(err, ErrInvalidFilter)
		}
		f.DateTo = &d
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		return booking.Filter{}, errs.Mark(errs.New("date_to is before date_from"), ErrInvalidFilter)
	}
	return f.Normalize(), nil
}

func canView(actor user.Identity, b *booking.Booking) bool {
	switch {
	case actor.IsAdmin():
		return true
	case actor.IsClubOwner():
		return b.OwnerID() == actor.ID
	default:
		return b.CustomerID() == actor.ID
	}
}

func (q *bookingQueriesImpl) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.dbTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, q.dbTimeout)
}

func ToBookingView(b *booking.Booking, p *payment.Payment) BookingView {
	v := BookingView{
		ID:            b.ID(),
		TimeSlotID:    b.TimeSlotID(),
		CourtID:       b.CourtID(),
		CustomerID:    b.CustomerID(),
		CustomerEmail: b.CustomerEmail(),
		OwnerID:       b.OwnerID(),
		Date:          slot.FormatDate(b.Date()),
		StartTime:     b.Start().String(),
		EndTime:       b.End().String(),
		PlayerCount:   b.PlayerCount(),
		TotalPrice:    b.TotalPrice(),
		PaymentMethod: b.PaymentMethod().String(),
		Status:        b.Status().String(),
		CreatedAt:     b.CreatedAt(),
		UpdatedAt:     b.UpdatedAt(),
	}
	if p != nil {
		v.Payment = &PaymentView{
			TransactionID: p.TransactionID(),
			Gateway:       p.Gateway(),
			Amount:        p.Amount(),
			Currency:      p.Currency(),
			Status:        p.Status().String(),
			CheckoutURL:   p.CheckoutURL(),
			SettledAt:     p.SettledAt(),
		}
	}
	return v
}
