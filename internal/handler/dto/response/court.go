package response

import (
	"encoding/json"
	"time"

	"court-booking/internal/domain/court"
	"court-booking/internal/domain/slot"
	"court-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type CourtResponse struct {
	ID             uuid.UUID       `json:"id"`
	ClubID         uuid.UUID       `json:"clubId"`
	Name           string          `json:"name"`
	PricePerHour   int64           `json:"pricePerHour"`
	Status         string          `json:"status"`
	OperatingHours json.RawMessage `json:"operatingHours,omitempty" swaggertype:"object"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type SlotResponse struct {
	ID          uuid.UUID `json:"id"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	IsAvailable bool      `json:"isAvailable"`
}

type AvailabilityResponse struct {
	CourtID     uuid.UUID      `json:"courtId"`
	CourtStatus string         `json:"courtStatus"`
	Date        string         `json:"date"`
	Slots       []SlotResponse `json:"slots"`
}

func FromCourt(c *court.Court) *CourtResponse {
	return &CourtResponse{
		ID:             c.ID(),
		ClubID:         c.ClubID(),
		Name:           c.Name(),
		PricePerHour:   c.PricePerHour(),
		Status:         c.Status().String(),
		OperatingHours: c.OperatingHours(),
		CreatedAt:      c.CreatedAt(),
		UpdatedAt:      c.UpdatedAt(),
	}
}

func FromAvailability(r *commands.AvailabilityResult) *AvailabilityResponse {
	res := &AvailabilityResponse{
		CourtID:     r.CourtID,
		CourtStatus: r.CourtStatus.String(),
		Date:        slot.FormatDate(r.Date),
		Slots:       make([]SlotResponse, 0, len(r.Slots)),
	}
	for _, s := range r.Slots {
		res.Slots = append(res.Slots, SlotResponse{
			ID:          s.ID(),
			StartTime:   s.Start().String(),
			EndTime:     s.End().String(),
			IsAvailable: s.IsAvailable(),
		})
	}
	return res
}
