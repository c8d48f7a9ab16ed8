package slot

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	minutesPerDay = 24 * 60
	dateLayout    = "2006-01-02"
)

var (
	ErrInvalidTimeOfDay      = errors.New("invalid time of day")
	ErrInvalidOperatingHours = errors.New("invalid operating hours")
	ErrInvalidDate           = errors.New("invalid date")
)

// TimeOfDay is a wall-clock time as minutes since midnight. 24:00 is allowed as a closing time.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || minute < 0 || minute > 59 {
		return 0, ErrInvalidTimeOfDay
	}
	t := TimeOfDay(hour*60 + minute)
	if t > minutesPerDay {
		return 0, ErrInvalidTimeOfDay
	}
	return t, nil
}

// ParseTimeOfDay accepts "HH:MM" and "HH:MM:SS" (seconds must be zero).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, ErrInvalidTimeOfDay
	}
	if len(parts) == 3 && parts[2] != "00" {
		return 0, ErrInvalidTimeOfDay
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 2 {
		return 0, ErrInvalidTimeOfDay
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 {
		return 0, ErrInvalidTimeOfDay
	}
	return NewTimeOfDay(hour, minute)
}

func (t TimeOfDay) Minutes() int {
	return int(t)
}

func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	return t + TimeOfDay(d/time.Minute)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// On places the time of day on the given calendar date in loc.
func (t TimeOfDay) On(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc).Add(time.Duration(t) * time.Minute)
}

// ParseDate parses YYYY-MM-DD into midnight UTC, the representation used for DATE columns.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

func FormatDate(d time.Time) string {
	return d.Format(dateLayout)
}

// OperatingHours is the daily window a court can be booked in, cut into fixed-length slots.
type OperatingHours struct {
	Open       TimeOfDay
	Close      TimeOfDay
	SlotLength time.Duration
}

var DefaultOperatingHours = OperatingHours{
	Open:       6 * 60,
	Close:      22 * 60,
	SlotLength: time.Hour,
}

type hoursDescriptor struct {
	Open        string `json:"open"`
	Close       string `json:"close"`
	SlotMinutes int    `json:"slot_minutes"`
}

// ParseOperatingHours reads a descriptor of the form
//
//	{"open":"09:00","close":"21:00","slot_minutes":60}
//
// or the shorthand string "09:00-21:00". A missing slot length takes the
// fallback's. A close at or before open is well-formed and yields no slots.
func ParseOperatingHours(raw []byte, fallback OperatingHours) (OperatingHours, error) {
	if len(strings.TrimSpace(string(raw))) == 0 || string(raw) == "null" {
		return OperatingHours{}, ErrInvalidOperatingHours
	}

	var d hoursDescriptor
	var shorthand string
	if err := json.Unmarshal(raw, &shorthand); err == nil {
		open, closing, found := strings.Cut(shorthand, "-")
		if !found {
			return OperatingHours{}, ErrInvalidOperatingHours
		}
		d = hoursDescriptor{Open: open, Close: closing}
	} else if err := json.Unmarshal(raw, &d); err != nil {
		return OperatingHours{}, ErrInvalidOperatingHours
	}

	open, err := ParseTimeOfDay(d.Open)
	if err != nil {
		return OperatingHours{}, ErrInvalidOperatingHours
	}
	closing, err := ParseTimeOfDay(d.Close)
	if err != nil {
		return OperatingHours{}, ErrInvalidOperatingHours
	}
	if open >= minutesPerDay {
		return OperatingHours{}, ErrInvalidOperatingHours
	}

	length := fallback.SlotLength
	switch {
	case d.SlotMinutes < 0:
		return OperatingHours{}, ErrInvalidOperatingHours
	case d.SlotMinutes > 0:
		length = time.Duration(d.SlotMinutes) * time.Minute
	}
	if length <= 0 {
		return OperatingHours{}, ErrInvalidOperatingHours
	}

	return OperatingHours{Open: open, Close: closing, SlotLength: length}, nil
}

// ResolveOperatingHours never fails: absent or unparsable descriptors yield the fallback.
func ResolveOperatingHours(raw []byte, fallback OperatingHours) OperatingHours {
	hours, err := ParseOperatingHours(raw, fallback)
	if err != nil {
		return fallback
	}
	return hours
}

// Descriptor renders hours back into the JSON stored on the court.
func (h OperatingHours) Descriptor() json.RawMessage {
	b, _ := json.Marshal(hoursDescriptor{
		Open:        h.Open.String(),
		Close:       h.Close.String(),
		SlotMinutes: int(h.SlotLength / time.Minute),
	})
	return b
}

type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Windows lays out consecutive [start, start+length) windows and stops before
// one would run past closing time.
func (h OperatingHours) Windows() []Window {
	step := TimeOfDay(h.SlotLength / time.Minute)
	if step <= 0 || h.Close <= h.Open {
		return nil
	}

	windows := make([]Window, 0, int(h.Close-h.Open)/int(step))
	for start := h.Open; start+step <= h.Close; start += step {
		windows = append(windows, Window{Start: start, End: start + step})
	}
	return windows
}
