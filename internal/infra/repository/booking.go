package repository

import (
	"context"
	"time"

	"court-booking/internal/domain/booking"
	"court-booking/internal/domain/slot"
	"court-booking/internal/infra"
	"court-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookingColumns = `id, time_slot_id, court_id, customer_id, customer_email, owner_id,
	booking_date, start_time, end_time, player_count, total_price, payment_method, status,
	idempotency_key, created_at, updated_at`

type BookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	_, err := r.db.Exec(ctx, `INSERT INTO bookings (`+bookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		b.ID(), b.TimeSlotID(), b.CourtID(), b.CustomerID(), b.CustomerEmail(), b.OwnerID(),
		pgconv.DateToPgtype(b.Date()),
		pgconv.MinutesToPgTime(b.Start().Minutes()), pgconv.MinutesToPgTime(b.End().Minutes()),
		b.PlayerCount(), b.TotalPrice(), b.PaymentMethod().String(), b.Status().String(),
		pgconv.UUIDPtrToPgtype(b.IdempotencyKey()), b.CreatedAt(), b.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	return r.one(row)
}

func (r *BookingRepository) FindByIdempotencyKey(ctx context.Context, customerID, key uuid.UUID) (*booking.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE customer_id = $1 AND idempotency_key = $2`, customerID, key)
	return r.one(row)
}

func (r *BookingRepository) one(row rowScanner) (*booking.Booking, error) {
	b, err := scanBooking(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "booking not found")
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return b, nil
}

// TransitionStatus is a compare-and-set on the status column.
func (r *BookingRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to booking.Status, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE bookings SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2`, id, from.String(), to.String(), at)
	if err != nil {
		return false, infra.WrapRepoErr("failed to update booking status", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *BookingRepository) List(ctx context.Context, f booking.Filter) ([]*booking.Booking, int, error) {
	f = f.Normalize()
	where := bookingFilterWhere(f)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings`+where.clause(), where.arguments()...).Scan(&total); err != nil {
		return nil, 0, infra.WrapRepoErr("failed to count bookings", err)
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings` + where.clause() +
		` ORDER BY booking_date DESC, start_time DESC, created_at DESC` +
		` LIMIT ` + where.bind(f.Limit) + ` OFFSET ` + where.bind(f.Offset)

	rows, err := r.db.Query(ctx, query, where.arguments()...)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	items := make([]*booking.Booking, 0, f.Limit)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, infra.WrapRepoErr("failed to scan booking", err)
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, infra.WrapRepoErr("failed to iterate bookings", err)
	}
	return items, total, nil
}

func scanBooking(row rowScanner) (*booking.Booking, error) {
	var (
		id, slotID, courtID, customerID, ownerID uuid.UUID
		email, method, status                    string
		date                                     pgtype.Date
		start, end                               pgtype.Time
		players                                  int
		total                                    int64
		key                                      pgtype.UUID
		createdAt, updatedAt                     time.Time
	)
	err := row.Scan(
		&id, &slotID, &courtID, &customerID, &email, &ownerID,
		&date, &start, &end, &players, &total, &method, &status,
		&key, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	return booking.ReconstructBooking(
		id, slotID, courtID, customerID, email, ownerID,
		pgconv.DateFromPgtype(date),
		slot.TimeOfDay(pgconv.MinutesFromPgTime(start)),
		slot.TimeOfDay(pgconv.MinutesFromPgTime(end)),
		players, total,
		booking.PaymentMethod(method), booking.Status(status),
		pgconv.UUIDPtrFromPgtype(key), createdAt, updatedAt,
	), nil
}
