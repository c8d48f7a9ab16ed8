package commands

import (
	"context"
	"fmt"
	"log/slog"

	"court-booking/internal/domain/booking"
	"court-booking/internal/domain/court"
	"court-booking/internal/domain/payment"
	"court-booking/internal/domain/slot"
	"court-booking/internal/domain/user"
	"court-booking/internal/infra"
	"court-booking/internal/infra/metrics"
	"court-booking/internal/pkg/clock"
	"court-booking/internal/pkg/config"
	"court-booking/internal/pkg/errs"
	"court-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateBookingInput struct {
	TimeSlotID     uuid.UUID
	CourtID        uuid.UUID
	Customer       user.Identity
	PlayerCount    int
	PaymentMethod  string
	IdempotencyKey *uuid.UUID
	ClientIP       string
}

type CreateBookingResult struct {
	Booking         *booking.Booking
	Payment         *payment.Payment
	PaymentRedirect string
	IsReplayed      bool
}

type UpdateStatusInput struct {
	BookingID uuid.UUID
	Actor     user.Identity
	NewStatus string
}

//go:generate mockgen -source=booking.go -destination=../../mocks/commands/mock_booking.go -package=mockcommands
type BookingCommands interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error)
	UpdateStatus(ctx context.Context, in UpdateStatusInput) (*booking.Booking, error)
}

type bookingUseCaseImpl struct {
	uow      shared.UnitOfWork
	gateways *shared.GatewayRegistry
	notifier shared.Notifier
	clock    clock.Clock
	settings settings
	metrics  *metrics.Recorder
	logger   *slog.Logger
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	gateways *shared.GatewayRegistry,
	notifier shared.Notifier,
	clk clock.Clock,
	cfg config.Config,
	rec *metrics.Recorder,
	logger *slog.Logger,
) BookingCommands {
	return &bookingUseCaseImpl{
		uow:      uow,
		gateways: gateways,
		notifier: notifier,
		clock:    clk,
		settings: newSettings(cfg),
		metrics:  rec,
		logger:   logger,
	}
}

func (uc *bookingUseCaseImpl) CreateBooking(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error) {
	method, err := booking.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}
	if in.TimeSlotID == uuid.Nil || in.CourtID == uuid.Nil {
		return nil, errs.Mark(booking.ErrMissingReference, ErrValidation)
	}
	if !in.Customer.IsCustomer() {
		return nil, errs.Mark(errs.New("only customers can book courts"), ErrForbidden)
	}

	dbCtx, cancel := bounded(ctx, uc.settings.dbTimeout)
	defer cancel()

	if in.IdempotencyKey != nil {
		replay, rerr := uc.replay(dbCtx, in)
		if rerr != nil || replay != nil {
			return replay, rerr
		}
	}

	var (
		c  *court.Court
		ts *slot.TimeSlot
	)
	err = uc.uow.WithDB(dbCtx, func(ctx context.Context, tx shared.Tx) error {
		var derr error
		if c, derr = tx.Courts().FindByID(ctx, in.CourtID); derr != nil {
			return markNotFound(derr, ErrCourtNotFound)
		}
		if ts, derr = tx.Slots().FindByID(ctx, in.TimeSlotID); derr != nil {
			return markNotFound(derr, ErrSlotNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	switch {
	case ts.CourtID() != c.ID():
		return nil, ErrSlotCourtMismatch
	case !c.IsBookable():
		return nil, ErrCourtNotBookable
	case ts.HasStarted(now, uc.settings.location):
		return nil, ErrSlotInPast
	case !ts.IsAvailable():
		return nil, ErrSlotUnavailable
	}

	b, err := booking.NewBooking(booking.NewBookingParams{
		TimeSlot:       ts,
		CourtID:        c.ID(),
		CustomerID:     in.Customer.ID,
		CustomerEmail:  in.Customer.Email,
		OwnerID:        c.OwnerID(),
		PlayerCount:    in.PlayerCount,
		MaxPlayers:     uc.settings.maxPlayers,
		TotalPrice:     c.PriceFor(ts.Duration()),
		PaymentMethod:  method,
		IdempotencyKey: in.IdempotencyKey,
		Now:            now,
	})
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	var p *payment.Payment
	if method.RequiresPayment() {
		if p, err = uc.startCheckout(ctx, c, b, in.ClientIP); err != nil {
			return nil, err
		}
	}

	err = uc.uow.Within(dbCtx, func(ctx context.Context, tx shared.Tx) error {
		reserved, derr := tx.Slots().Reserve(ctx, ts.ID())
		if derr != nil {
			return derr
		}
		if !reserved {
			return ErrSlotUnavailable
		}
		if derr = tx.Bookings().Create(ctx, b); derr != nil {
			if infra.IsKind(derr, infra.KindDuplicateKey) {
				return errs.Mark(derr, ErrSlotUnavailable)
			}
			return derr
		}
		if p != nil {
			return tx.Payments().Create(ctx, p)
		}
		return nil
	})
	if err != nil {
		if errs.Is(err, ErrSlotUnavailable) && in.IdempotencyKey != nil {
			// A concurrent request with the same key may have won the slot.
			if replay, rerr := uc.replay(dbCtx, in); rerr == nil && replay != nil {
				return replay, nil
			}
		}
		return nil, err
	}

	uc.metrics.RecordBooking(method.String())
	uc.logger.Info("booking created",
		"booking_id", b.ID().String(),
		"court_id", c.ID().String(),
		"time_slot_id", ts.ID().String(),
		"payment_method", method.String())

	result := &CreateBookingResult{Booking: b, Payment: p}
	if p != nil {
		result.PaymentRedirect = p.CheckoutURL()
	}
	return result, nil
}

// startCheckout registers the payment with its gateway before anything is persisted,
// so a gateway failure leaves no trace.
func (uc *bookingUseCaseImpl) startCheckout(ctx context.Context, c *court.Court, b *booking.Booking, clientIP string) (*payment.Payment, error) {
	name, _ := payment.GatewayFor(b.PaymentMethod())
	gw, ok := uc.gateways.Get(name)
	if !ok {
		return nil, errs.Mark(errs.Newf("gateway %q is not configured", name), ErrGatewayNotConfigured)
	}

	now := uc.clock.Now()
	txnID := payment.NewTransactionID(now)

	gwCtx, cancel := bounded(ctx, uc.settings.gatewayTimeout)
	defer cancel()

	checkout, err := gw.CreateCheckout(gwCtx, shared.CheckoutRequest{
		TransactionID: txnID,
		BookingID:     b.ID(),
		Amount:        b.TotalPrice(),
		Currency:      uc.settings.currency,
		Description: fmt.Sprintf("%s %s %s-%s",
			c.Name(), slot.FormatDate(b.Date()), b.Start(), b.End()),
		CustomerEmail: b.CustomerEmail(),
		ClientIP:      clientIP,
		CreatedAt:     now,
	})
	if err != nil {
		uc.logger.Error("checkout creation failed",
			"gateway", name,
			"booking_id", b.ID().String(),
			"error", err.Error())
		return nil, errs.Mark(err, ErrGatewayFailure)
	}

	p, err := payment.NewPayment(payment.NewPaymentParams{
		BookingID:     b.ID(),
		Amount:        b.TotalPrice(),
		Currency:      uc.settings.currency,
		Method:        b.PaymentMethod(),
		Gateway:       name,
		TransactionID: txnID,
		CheckoutURL:   checkout.RedirectURL,
		Now:           now,
	})
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}
	return p, nil
}

// replay returns the booking previously created with the same idempotency key, or nil.
func (uc *bookingUseCaseImpl) replay(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error) {
	var result *CreateBookingResult
	err := uc.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, derr := tx.Bookings().FindByIdempotencyKey(ctx, in.Customer.ID, *in.IdempotencyKey)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return nil
			}
			return derr
		}
		if b.TimeSlotID() != in.TimeSlotID {
			return ErrIdempotencyReuse
		}
		result = &CreateBookingResult{Booking: b, IsReplayed: true}
		if !b.PaymentMethod().RequiresPayment() {
			return nil
		}
		p, derr := tx.Payments().FindByBookingID(ctx, b.ID())
		if derr != nil {
			return markNotFound(derr, ErrPaymentNotFound)
		}
		result.Payment = p
		result.PaymentRedirect = p.CheckoutURL()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateStatus is the manual path. Owners and admins may confirm or cancel; customers may
// only cancel their own pending booking. Card and gateway bookings confirm only through
// their payment, so a manual confirm of those is refused.
func (uc *bookingUseCaseImpl) UpdateStatus(ctx context.Context, in UpdateStatusInput) (*booking.Booking, error) {
	to, err := booking.ParseStatus(in.NewStatus)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}
	if to == booking.StatusPending {
		return nil, errs.Mark(booking.ErrInvalidTransition, ErrInvalidTransition)
	}

	ctx, cancel := bounded(ctx, uc.settings.dbTimeout)
	defer cancel()

	var (
		updated   *booking.Booking
		previous  booking.Status
		courtName string
	)
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, derr := tx.Bookings().FindByID(ctx, in.BookingID)
		if derr != nil {
			return markNotFound(derr, ErrBookingNotFound)
		}
		if derr = authorizeTransition(in.Actor, b, to); derr != nil {
			return derr
		}

		from := b.Status()
		previous = from
		if derr = b.TransitionTo(to, uc.clock.Now()); derr != nil {
			return errs.Mark(derr, ErrInvalidTransition)
		}
		ok, derr := tx.Bookings().TransitionStatus(ctx, b.ID(), from, to, b.UpdatedAt())
		if derr != nil {
			return derr
		}
		if !ok {
			return errs.Mark(errs.Newf("booking is no longer %s", from), ErrInvalidTransition)
		}

		if to == booking.StatusCancelled {
			if _, derr = tx.Slots().Release(ctx, b.TimeSlotID()); derr != nil {
				return derr
			}
		} else if c, cerr := tx.Courts().FindByID(ctx, b.CourtID()); cerr == nil {
			courtName = c.Name()
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordTransition(to.String(), "manual")
	uc.logger.Info("booking status updated",
		"booking_id", updated.ID().String(),
		"status", to.String(),
		"actor_id", in.Actor.ID.String(),
		"actor_role", in.Actor.Role.String())

	if to == booking.StatusCancelled && previous == booking.StatusConfirmed && updated.PaymentMethod().RequiresPayment() {
		uc.logger.Warn("paid booking cancelled after confirmation, refund required",
			"booking_id", updated.ID().String(),
			"amount", updated.TotalPrice())
	}
	if to == booking.StatusConfirmed {
		uc.notifier.BookingConfirmed(context.WithoutCancel(ctx), confirmationOf(updated, courtName, uc.settings.currency, ""))
	}
	return updated, nil
}

func authorizeTransition(actor user.Identity, b *booking.Booking, to booking.Status) error {
	switch {
	case actor.IsAdmin(), actor.IsClubOwner() && b.OwnerID() == actor.ID:
		if to == booking.StatusConfirmed && b.PaymentMethod().RequiresPayment() {
			return ErrPaymentRequired
		}
		return nil
	case actor.IsCustomer() && b.CustomerID() == actor.ID:
		if to != booking.StatusCancelled || b.Status() != booking.StatusPending {
			return errs.Mark(errs.New("customers may only cancel a pending booking"), ErrForbidden)
		}
		return nil
	default:
		return ErrForbidden
	}
}

func confirmationOf(b *booking.Booking, courtName, currency, transactionID string) shared.BookingConfirmation {
	return shared.BookingConfirmation{
		BookingID:     b.ID(),
		CourtID:       b.CourtID(),
		CourtName:     courtName,
		CustomerEmail: b.CustomerEmail(),
		Date:          b.Date(),
		Start:         b.Start().String(),
		End:           b.End().String(),
		PlayerCount:   b.PlayerCount(),
		TotalPrice:    b.TotalPrice(),
		Currency:      currency,
		TransactionID: transactionID,
	}
}
