package uow

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"court-booking/internal/infra/metrics"
	"court-booking/internal/infra/repository"
	"court-booking/internal/pkg/config"
	"court-booking/internal/pkg/errs"
	"court-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var retryReasons = map[string]string{
	pgErrCodeSerializationFailure: "serialization_failure",
	pgErrCodeDeadlockDetected:     "deadlock",
}

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type retryPolicy struct {
	maxRetries int
	base       time.Duration
}

type PostgresUoW struct {
	pool    *pgxpool.Pool
	policy  retryPolicy
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func NewPostgresUoW(pool *pgxpool.Pool, cfg config.Config, logger *slog.Logger, rec *metrics.Recorder) *PostgresUoW {
	return &PostgresUoW{
		pool:    pool,
		policy:  retryPolicy{maxRetries: cfg.DB.TxMaxRetries, base: cfg.DB.TxRetryBackoff},
		logger:  logger,
		metrics: rec,
	}
}

// Within runs fn at READ COMMITTED. Booking and payment races are settled by guarded
// updates and the partial unique index on live bookings, so a stricter level is not needed.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

	for attempt := 0; ; attempt++ {
		err := u.attempt(ctx, opts, fn)
		reason, retryable := retryReason(err)
		if !retryable {
			return err
		}
		if attempt >= u.policy.maxRetries {
			u.logger.ErrorContext(ctx, "transaction failed after max retries", "attempts", attempt+1, "reason", reason)
			return errs.Mark(err, errMaxRetriesExceeded)
		}

		wait := backoff(attempt, u.policy.base)
		u.metrics.RecordTxRetry(reason)
		u.logger.WarnContext(ctx, "retrying transaction", "attempt", attempt+1, "reason", reason, "wait_ms", wait.Milliseconds())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// WithinReadOnly gives multi-table reads a single snapshot.
func (u *PostgresUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.attempt(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn)
}

// WithDB runs fn on the pool without a transaction; each statement commits on its own.
func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &pgTx{dbtx: u.pool})
}

func (u *PostgresUoW) attempt(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	tx, err := u.pool.BeginTx(ctx, opts)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errs.Is(rbErr, pgx.ErrTxClosed) {
			u.logger.WarnContext(ctx, "rollback failed", "error", rbErr.Error())
		}
	}()

	if err := fn(ctx, &pgTx{dbtx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return errs.Mark(err, errTransactionCommit)
	}
	return nil
}

func retryReason(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	var pgErr *pgconn.PgError
	if !errs.As(err, &pgErr) {
		return "", false
	}
	reason, ok := retryReasons[pgErr.Code]
	return reason, ok
}

// backoff doubles per attempt and adds up to 20% jitter.
func backoff(attempt int, base time.Duration) time.Duration {
	wait := time.Duration(1<<attempt) * base
	if spread := wait / 5; spread > 0 {
		wait += rand.N(spread)
	}
	return wait
}

type pgTx struct {
	dbtx repository.DBTX

	courtRepo   shared.CourtRepository
	slotRepo    shared.SlotRepository
	bookingRepo shared.BookingRepository
	paymentRepo shared.PaymentRepository
}

func (t *pgTx) Courts() shared.CourtRepository {
	if t.courtRepo == nil {
		t.courtRepo = repository.NewCourtRepository(t.dbtx)
	}
	return t.courtRepo
}

func (t *pgTx) Slots() shared.SlotRepository {
	if t.slotRepo == nil {
		t.slotRepo = repository.NewSlotRepository(t.dbtx)
	}
	return t.slotRepo
}

func (t *pgTx) Bookings() shared.BookingRepository {
	if t.bookingRepo == nil {
		t.bookingRepo = repository.NewBookingRepository(t.dbtx)
	}
	return t.bookingRepo
}

func (t *pgTx) Payments() shared.PaymentRepository {
	if t.paymentRepo == nil {
		t.paymentRepo = repository.NewPaymentRepository(t.dbtx)
	}
	return t.paymentRepo
}
