package request

import (
	"encoding/json"

	"github.com/google/uuid"
)

type CreateCourtRequest struct {
	ClubID       uuid.UUID `json:"clubId" binding:"required"`
	Name         string    `json:"name" binding:"required,max=100"`
	PricePerHour int64     `json:"pricePerHour" binding:"min=0"`
	// OperatingHours is {"open":"HH:MM","close":"HH:MM","slot_minutes":n} or the shorthand "HH:MM-HH:MM".
	OperatingHours json.RawMessage `json:"operatingHours,omitempty" swaggertype:"object"`
}

type UpdateCourtRequest struct {
	Name                *string         `json:"name,omitempty" binding:"omitempty,max=100"`
	PricePerHour        *int64          `json:"pricePerHour,omitempty" binding:"omitempty,min=0"`
	Status              *string         `json:"status,omitempty" binding:"omitempty,oneof=open closed maintenance"`
	OperatingHours      json.RawMessage `json:"operatingHours,omitempty" swaggertype:"object"`
	ClearOperatingHours bool            `json:"clearOperatingHours,omitempty"`
}

type AvailabilityQuery struct {
	Date string `form:"date" binding:"required"`
}
