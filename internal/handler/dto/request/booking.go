package request

import (
	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	TimeSlotID    uuid.UUID `json:"timeSlotId" binding:"required"`
	CourtID       uuid.UUID `json:"courtId" binding:"required"`
	PlayerCount   int       `json:"playerCount" binding:"required,min=1"`
	PaymentMethod string    `json:"paymentMethod" binding:"required,oneof=card gateway cash"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed cancelled"`
}

// ListBookingsQuery carries the query string of GET /api/bookings.
type ListBookingsQuery struct {
	Status   string `form:"status"`
	CourtID  string `form:"court_id"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Limit    int    `form:"limit" binding:"omitempty,min=0"`
	Offset   int    `form:"offset" binding:"omitempty,min=0"`
}
