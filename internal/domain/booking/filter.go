package booking

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Filter narrows a booking listing. Zero-valued fields do not constrain the result.
type Filter struct {
	CustomerID *uuid.UUID
	OwnerID    *uuid.UUID
	CourtID    *uuid.UUID
	Status     *Status
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

// Normalize clamps paging to sane bounds.
func (f Filter) Normalize() Filter {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// Matches reports whether b satisfies every set predicate. Paging is ignored.
func (f Filter) Matches(b *Booking) bool {
	if f.CustomerID != nil && b.CustomerID() != *f.CustomerID {
		return false
	}
	if f.OwnerID != nil && b.OwnerID() != *f.OwnerID {
		return false
	}
	if f.CourtID != nil && b.CourtID() != *f.CourtID {
		return false
	}
	if f.Status != nil && b.Status() != *f.Status {
		return false
	}
	if f.DateFrom != nil && b.Date().Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && b.Date().After(*f.DateTo) {
		return false
	}
	return true
}
