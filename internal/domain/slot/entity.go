package slot

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidSlot = errors.New("invalid time slot")

type TimeSlot struct {
	id        uuid.UUID
	courtID   uuid.UUID
	date      time.Time
	start     TimeOfDay
	end       TimeOfDay
	available bool
	createdAt time.Time
}

func NewTimeSlot(courtID uuid.UUID, date time.Time, start, end TimeOfDay) (*TimeSlot, error) {
	if courtID == uuid.Nil || end <= start || end > minutesPerDay {
		return nil, ErrInvalidSlot
	}
	return &TimeSlot{
		id:        uuid.New(),
		courtID:   courtID,
		date:      time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		start:     start,
		end:       end,
		available: true,
	}, nil
}

func ReconstructTimeSlot(
	id, courtID uuid.UUID,
	date time.Time,
	start, end TimeOfDay,
	available bool,
	createdAt time.Time,
) *TimeSlot {
	return &TimeSlot{
		id:        id,
		courtID:   courtID,
		date:      date,
		start:     start,
		end:       end,
		available: available,
		createdAt: createdAt,
	}
}

// Generate synthesizes the available slots for one court and date.
func Generate(courtID uuid.UUID, date time.Time, hours OperatingHours) []*TimeSlot {
	windows := hours.Windows()
	slots := make([]*TimeSlot, 0, len(windows))
	for _, w := range windows {
		s, err := NewTimeSlot(courtID, date, w.Start, w.End)
		if err != nil {
			continue
		}
		slots = append(slots, s)
	}
	return slots
}

func (s *TimeSlot) ID() uuid.UUID        { return s.id }
func (s *TimeSlot) CourtID() uuid.UUID   { return s.courtID }
func (s *TimeSlot) Date() time.Time      { return s.date }
func (s *TimeSlot) Start() TimeOfDay     { return s.start }
func (s *TimeSlot) End() TimeOfDay       { return s.end }
func (s *TimeSlot) IsAvailable() bool    { return s.available }
func (s *TimeSlot) CreatedAt() time.Time { return s.createdAt }

func (s *TimeSlot) Duration() time.Duration {
	return time.Duration(s.end-s.start) * time.Minute
}

func (s *TimeSlot) StartsAt(loc *time.Location) time.Time {
	return s.start.On(s.date, loc)
}

func (s *TimeSlot) HasStarted(now time.Time, loc *time.Location) bool {
	return !now.Before(s.StartsAt(loc))
}
