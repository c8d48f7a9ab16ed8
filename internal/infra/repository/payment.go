package repository

import (
	"context"
	"encoding/json"
	"time"

	"court-booking/internal/domain/booking"
	"court-booking/internal/domain/payment"
	"court-booking/internal/infra"
	"court-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const paymentColumns = `id, booking_id, amount, currency, status, payment_method, gateway,
	transaction_id, checkout_url, gateway_response, created_at, updated_at, settled_at`

type PaymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	_, err := r.db.Exec(ctx, `INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID(), pgconv.UUIDPtrToPgtype(p.BookingID()), p.Amount(), p.Currency(), p.Status().String(),
		p.Method().String(), p.Gateway(), p.TransactionID(), p.CheckoutURL(),
		jsonbArg(p.GatewayResponse()), p.CreatedAt(), p.UpdatedAt(), p.SettledAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create payment", err)
	}
	return nil
}

func (r *PaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*payment.Payment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE transaction_id = $1`, transactionID)
	return r.one(row)
}

// FindByBookingID returns the most recent payment attempt for the booking.
func (r *PaymentRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*payment.Payment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments
		WHERE booking_id = $1 ORDER BY created_at DESC LIMIT 1`, bookingID)
	return r.one(row)
}

func (r *PaymentRepository) one(row rowScanner) (*payment.Payment, error) {
	p, err := scanPayment(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "payment not found")
		}
		return nil, infra.WrapRepoErr("failed to find payment", err)
	}
	return p, nil
}

// Settle only moves a pending payment; a replayed callback changes nothing and reports false.
func (r *PaymentRepository) Settle(ctx context.Context, transactionID string, to payment.Status, raw json.RawMessage, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE payments
		SET status = $2, gateway_response = $3, settled_at = $4, updated_at = $4
		WHERE transaction_id = $1 AND status = 'pending'`,
		transactionID, to.String(), jsonbArg(raw), at)
	if err != nil {
		return false, infra.WrapRepoErr("failed to settle payment", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanPayment(row rowScanner) (*payment.Payment, error) {
	var (
		id                                          uuid.UUID
		bookingID                                   pgtype.UUID
		amount                                      int64
		currency, status, method, gateway, txn, url string
		raw                                         []byte
		createdAt, updatedAt                        time.Time
		settledAt                                   pgtype.Timestamptz
	)
	err := row.Scan(
		&id, &bookingID, &amount, &currency, &status, &method, &gateway,
		&txn, &url, &raw, &createdAt, &updatedAt, &settledAt,
	)
	if err != nil {
		return nil, err
	}
	return payment.ReconstructPayment(
		id, pgconv.UUIDPtrFromPgtype(bookingID), amount, currency,
		payment.Status(status), booking.PaymentMethod(method),
		gateway, txn, url, raw,
		createdAt, updatedAt, pgconv.TimePtrFromPgtype(settledAt),
	), nil
}
