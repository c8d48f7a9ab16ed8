package repository

import (
	"context"
	"time"

	"court-booking/internal/domain/slot"
	"court-booking/internal/infra"
	"court-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const slotColumns = `id, court_id, slot_date, start_time, end_time, is_available, created_at`

type SlotRepository struct {
	db DBTX
}

func NewSlotRepository(db DBTX) *SlotRepository {
	return &SlotRepository{db: db}
}

func (r *SlotRepository) ListByCourtAndDate(ctx context.Context, courtID uuid.UUID, date time.Time) ([]*slot.TimeSlot, error) {
	rows, err := r.db.Query(ctx, `SELECT `+slotColumns+`
		FROM time_slots
		WHERE court_id = $1 AND slot_date = $2
		ORDER BY start_time`, courtID, pgconv.DateToPgtype(date))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list time slots", err)
	}
	defer rows.Close()

	slots := make([]*slot.TimeSlot, 0)
	for rows.Next() {
		ts, err := scanSlot(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan time slot", err)
		}
		slots = append(slots, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate time slots", err)
	}
	return slots, nil
}

// LockCourtDate takes a transaction-scoped advisory lock keyed on (court, date).
// Outside a transaction the lock is released as soon as the statement ends.
func (r *SlotRepository) LockCourtDate(ctx context.Context, courtID uuid.UUID, date time.Time) error {
	key := courtID.String() + ":" + slot.FormatDate(date)
	if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return infra.WrapRepoErr("failed to lock court date", err)
	}
	return nil
}

func (r *SlotRepository) InsertIfAbsent(ctx context.Context, slots []*slot.TimeSlot) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, ts := range slots {
		batch.Queue(`INSERT INTO time_slots (id, court_id, slot_date, start_time, end_time, is_available)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (court_id, slot_date, start_time) DO NOTHING`,
			ts.ID(), ts.CourtID(), pgconv.DateToPgtype(ts.Date()),
			pgconv.MinutesToPgTime(ts.Start().Minutes()), pgconv.MinutesToPgTime(ts.End().Minutes()),
			ts.IsAvailable(),
		)
	}

	br := r.db.SendBatch(ctx, batch)
	inserted := 0
	for range slots {
		tag, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return 0, infra.WrapRepoErr("failed to insert time slot", err)
		}
		inserted += int(tag.RowsAffected())
	}
	if err := br.Close(); err != nil {
		return 0, infra.WrapRepoErr("failed to insert time slots", err)
	}
	return inserted, nil
}

func (r *SlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*slot.TimeSlot, error) {
	row := r.db.QueryRow(ctx, `SELECT `+slotColumns+` FROM time_slots WHERE id = $1`, id)
	ts, err := scanSlot(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "time slot not found")
		}
		return nil, infra.WrapRepoErr("failed to find time slot", err)
	}
	return ts, nil
}

func (r *SlotRepository) Reserve(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.setAvailable(ctx, id, true, false)
}

func (r *SlotRepository) Release(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.setAvailable(ctx, id, false, true)
}

func (r *SlotRepository) setAvailable(ctx context.Context, id uuid.UUID, from, to bool) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE time_slots SET is_available = $3
		WHERE id = $1 AND is_available = $2`, id, from, to)
	if err != nil {
		return false, infra.WrapRepoErr("failed to update slot availability", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanSlot(row rowScanner) (*slot.TimeSlot, error) {
	var (
		id, courtID uuid.UUID
		date        pgtype.Date
		start, end  pgtype.Time
		available   bool
		createdAt   time.Time
	)
	if err := row.Scan(&id, &courtID, &date, &start, &end, &available, &createdAt); err != nil {
		return nil, err
	}
	return slot.ReconstructTimeSlot(
		id, courtID,
		pgconv.DateFromPgtype(date),
		slot.TimeOfDay(pgconv.MinutesFromPgTime(start)),
		slot.TimeOfDay(pgconv.MinutesFromPgTime(end)),
		available, createdAt,
	), nil
}
