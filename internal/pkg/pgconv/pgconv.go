package pgconv

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const microsPerMinute = int64(time.Minute / time.Microsecond)

func UUIDPtrFromPgtype(pu pgtype.UUID) *uuid.UUID {
	if !pu.Valid {
		return nil
	}
	id := uuid.UUID(pu.Bytes)
	return &id
}

func UUIDPtrToPgtype(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

func StringPtrFromPgtype(pt pgtype.Text) *string {
	if !pt.Valid {
		return nil
	}
	return &pt.String
}

func TimePtrFromPgtype(pt pgtype.Timestamptz) *time.Time {
	if !pt.Valid {
		return nil
	}
	return &pt.Time
}

// MinutesToPgTime encodes a minutes-since-midnight value for a TIME column.
func MinutesToPgTime(minutes int) pgtype.Time {
	return pgtype.Time{Microseconds: int64(minutes) * microsPerMinute, Valid: true}
}

// MinutesFromPgTime drops any sub-minute precision stored in the column.
func MinutesFromPgTime(pt pgtype.Time) int {
	if !pt.Valid {
		return 0
	}
	return int(pt.Microseconds / microsPerMinute)
}

func DateToPgtype(t time.Time) pgtype.Date {
	return pgtype.Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), Valid: true}
}

func DateFromPgtype(pd pgtype.Date) time.Time {
	if !pd.Valid {
		return time.Time{}
	}
	return time.Date(pd.Time.Year(), pd.Time.Month(), pd.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// IsNoRows checks if the error is a "no rows" error from either sql or pgx
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}
