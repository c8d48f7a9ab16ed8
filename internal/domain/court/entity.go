package court

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"court-booking/internal/domain/slot"

	"github.com/google/uuid"
)

var (
	ErrInvalidName   = errors.New("court name must be 1-100 characters")
	ErrInvalidPrice  = errors.New("price per hour must be positive")
	ErrInvalidStatus = errors.New("invalid court status")
	ErrInvalidClub   = errors.New("club is required")
)

const maxNameLength = 100

type Status string

const (
	StatusOpen        Status = "open"
	StatusClosed      Status = "closed"
	StatusMaintenance Status = "maintenance"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusClosed, StatusMaintenance:
		return true
	default:
		return false
	}
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Court is a bookable court belonging to a club. Prices are in minor currency units.
type Court struct {
	id             uuid.UUID
	clubID         uuid.UUID
	ownerID        uuid.UUID
	name           string
	pricePerHour   int64
	status         Status
	operatingHours json.RawMessage
	createdAt      time.Time
	updatedAt      time.Time
}

func NewCourt(clubID, ownerID uuid.UUID, name string, pricePerHour int64, hours *slot.OperatingHours) (*Court, error) {
	if clubID == uuid.Nil {
		return nil, ErrInvalidClub
	}
	c := &Court{
		id:      uuid.New(),
		clubID:  clubID,
		ownerID: ownerID,
		status:  StatusOpen,
	}
	if err := c.Rename(name); err != nil {
		return nil, err
	}
	if err := c.SetPrice(pricePerHour); err != nil {
		return nil, err
	}
	c.SetOperatingHours(hours)
	return c, nil
}

func ReconstructCourt(
	id, clubID, ownerID uuid.UUID,
	name string,
	pricePerHour int64,
	status Status,
	operatingHours json.RawMessage,
	createdAt, updatedAt time.Time,
) *Court {
	return &Court{
		id:             id,
		clubID:         clubID,
		ownerID:        ownerID,
		name:           name,
		pricePerHour:   pricePerHour,
		status:         status,
		operatingHours: operatingHours,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (c *Court) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > maxNameLength {
		return ErrInvalidName
	}
	c.name = name
	return nil
}

func (c *Court) SetPrice(pricePerHour int64) error {
	if pricePerHour <= 0 {
		return ErrInvalidPrice
	}
	c.pricePerHour = pricePerHour
	return nil
}

func (c *Court) SetStatus(status Status) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	c.status = status
	return nil
}

// SetOperatingHours stores a normalized descriptor; nil clears it so the defaults apply.
func (c *Court) SetOperatingHours(hours *slot.OperatingHours) {
	if hours == nil {
		c.operatingHours = nil
		return
	}
	c.operatingHours = hours.Descriptor()
}

// Hours resolves the descriptor, falling back when it is absent or unparsable.
func (c *Court) Hours(fallback slot.OperatingHours) slot.OperatingHours {
	return slot.ResolveOperatingHours(c.operatingHours, fallback)
}

func (c *Court) IsBookable() bool {
	return c.status == StatusOpen
}

// PriceFor prorates the hourly price over d, rounding down to the minor unit.
func (c *Court) PriceFor(d time.Duration) int64 {
	return c.pricePerHour * int64(d/time.Minute) / 60
}

func (c *Court) IsOwnedBy(userID uuid.UUID) bool {
	return c.ownerID != uuid.Nil && c.ownerID == userID
}

func (c *Court) ID() uuid.UUID                   { return c.id }
func (c *Court) ClubID() uuid.UUID               { return c.clubID }
func (c *Court) OwnerID() uuid.UUID              { return c.ownerID }
func (c *Court) Name() string                    { return c.name }
func (c *Court) PricePerHour() int64             { return c.pricePerHour }
func (c *Court) Status() Status                  { return c.status }
func (c *Court) OperatingHours() json.RawMessage { return c.operatingHours }
func (c *Court) CreatedAt() time.Time            { return c.createdAt }
func (c *Court) UpdatedAt() time.Time            { return c.updatedAt }
