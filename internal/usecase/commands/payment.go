package commands

import (
	"context"
	"log/slog"

	"court-booking/internal/domain/booking"
	"court-booking/internal/domain/payment"
	"court-booking/internal/infra/metrics"
	"court-booking/internal/pkg/clock"
	"court-booking/internal/pkg/config"
	"court-booking/internal/pkg/errs"
	"court-booking/internal/usecase/shared"
)

type ReconcileInput struct {
	Gateway  string
	Callback shared.Callback
}

type ReconcileResult struct {
	TransactionID string
	Status        payment.Status
	// Replayed is true when the payment was already terminal and nothing was written.
	Replayed         bool
	Ignored          bool
	BookingConfirmed bool
}

//go:generate mockgen -source=payment.go -destination=../../mocks/commands/mock_payment.go -package=mockcommands
type PaymentCommands interface {
	Reconcile(ctx context.Context, in ReconcileInput) (*ReconcileResult, error)
}

type paymentUseCaseImpl struct {
	uow      shared.UnitOfWork
	gateways *shared.GatewayRegistry
	notifier shared.Notifier
	clock    clock.Clock
	settings settings
	metrics  *metrics.Recorder
	logger   *slog.Logger
}

func NewPaymentCommands(
	uow shared.UnitOfWork,
	gateways *shared.GatewayRegistry,
	notifier shared.Notifier,
	clk clock.Clock,
	cfg config.Config,
	rec *metrics.Recorder,
	logger *slog.Logger,
) PaymentCommands {
	return &paymentUseCaseImpl{
		uow:      uow,
		gateways: gateways,
		notifier: notifier,
		clock:    clk,
		settings: newSettings(cfg),
		metrics:  rec,
		logger:   logger,
	}
}

// Reconcile verifies a gateway callback and settles its payment exactly once.
// Nothing is written unless the callback is authentic, references a known payment
// and carries the expected amount.
func (uc *paymentUseCaseImpl) Reconcile(ctx context.Context, in ReconcileInput) (*ReconcileResult, error) {
	gw, ok := uc.gateways.Get(in.Gateway)
	if !ok {
		return nil, errs.Mark(errs.Newf("unknown gateway %q", in.Gateway), ErrGatewayNotFound)
	}

	ctx, cancel := bounded(ctx, uc.settings.callbackTimeout)
	defer cancel()

	outcome, err := gw.ParseCallback(ctx, in.Callback)
	if err != nil {
		uc.metrics.RecordCallback(in.Gateway, "rejected")
		if errs.Is(err, shared.ErrInvalidSignature) {
			uc.logger.Warn("payment callback signature rejected",
				"gateway", in.Gateway,
				"error", err.Error())
			return nil, err
		}
		uc.logger.Warn("payment callback malformed",
			"gateway", in.Gateway,
			"error", err.Error())
		return nil, errs.Mark(err, ErrMalformedCallback)
	}
	if outcome.Ignored {
		uc.metrics.RecordCallback(in.Gateway, "ignored")
		return &ReconcileResult{TransactionID: outcome.TransactionID, Ignored: true}, nil
	}

	result := &ReconcileResult{TransactionID: outcome.TransactionID, Status: outcome.Status}
	var confirmation *shared.BookingConfirmation

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Retries of this closure start from scratch.
		result.Replayed, result.BookingConfirmed, confirmation = false, false, nil

		p, derr := tx.Payments().FindByTransactionID(ctx, outcome.TransactionID)
		if derr != nil {
			return markNotFound(derr, ErrPaymentNotFound)
		}
		if p.Gateway() != gw.Name() {
			return errs.Mark(errs.Newf("payment belongs to gateway %q", p.Gateway()), ErrPaymentNotFound)
		}
		if outcome.Amount != nil && *outcome.Amount != p.Amount() {
			return errs.Mark(errs.Newf("expected %d, got %d", p.Amount(), *outcome.Amount), ErrAmountMismatch)
		}
		if p.Status().IsTerminal() {
			result.Status = p.Status()
			result.Replayed = true
			return nil
		}

		now := uc.clock.Now()
		settled, derr := tx.Payments().Settle(ctx, p.TransactionID(), outcome.Status, outcome.Raw, now)
		if derr != nil {
			return derr
		}
		if !settled {
			// Lost the race to a concurrent delivery of the same callback.
			current, ferr := tx.Payments().FindByTransactionID(ctx, p.TransactionID())
			if ferr != nil {
				return ferr
			}
			result.Status = current.Status()
			result.Replayed = true
			return nil
		}
		if p.BookingID() == nil {
			return nil
		}

		b, derr := tx.Bookings().FindByID(ctx, *p.BookingID())
		if derr != nil {
			return markNotFound(derr, ErrBookingNotFound)
		}

		switch outcome.Status {
		case payment.StatusCompleted:
			moved, terr := tx.Bookings().TransitionStatus(ctx, b.ID(), booking.StatusPending, booking.StatusConfirmed, now)
			if terr != nil {
				return terr
			}
			if !moved {
				uc.logger.Warn("payment completed for a booking that is no longer pending, manual refund required",
					"transaction_id", p.TransactionID(),
					"booking_id", b.ID().String(),
					"booking_status", b.Status().String(),
					"amount", p.Amount())
				return nil
			}
			result.BookingConfirmed = true
			courtName := ""
			if c, cerr := tx.Courts().FindByID(ctx, b.CourtID()); cerr == nil {
				courtName = c.Name()
			}
			n := confirmationOf(b, courtName, p.Currency(), p.TransactionID())
			confirmation = &n
		case payment.StatusFailed:
			moved, terr := tx.Bookings().TransitionStatus(ctx, b.ID(), booking.StatusPending, booking.StatusCancelled, now)
			if terr != nil {
				return terr
			}
			if moved {
				if _, terr = tx.Slots().Release(ctx, b.TimeSlotID()); terr != nil {
					return terr
				}
			}
		}
		return nil
	})
	if err != nil {
		uc.metrics.RecordCallback(in.Gateway, "rejected")
		if errs.Is(err, ErrPaymentNotFound) || errs.Is(err, ErrAmountMismatch) {
			uc.logger.Warn("payment callback rejected",
				"gateway", in.Gateway,
				"transaction_id", outcome.TransactionID,
				"error", err.Error())
		}
		return nil, err
	}

	if result.Replayed {
		uc.metrics.RecordCallback(in.Gateway, "replayed")
		uc.logger.Info("payment callback replayed",
			"gateway", in.Gateway,
			"transaction_id", result.TransactionID,
			"status", result.Status.String())
		return result, nil
	}

	uc.metrics.RecordCallback(in.Gateway, result.Status.String())
	if result.BookingConfirmed {
		uc.metrics.RecordTransition(booking.StatusConfirmed.String(), "payment")
	}
	uc.logger.Info("payment reconciled",
		"gateway", in.Gateway,
		"transaction_id", result.TransactionID,
		"status", result.Status.String(),
		"booking_confirmed", result.BookingConfirmed)

	if confirmation != nil {
		uc.notifier.BookingConfirmed(context.WithoutCancel(ctx), *confirmation)
	}
	return result, nil
}
