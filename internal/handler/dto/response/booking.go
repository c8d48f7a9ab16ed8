package response

import (
	"time"

	"court-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type PaymentResponse struct {
	TransactionID string     `json:"transactionId"`
	Gateway       string     `json:"gateway"`
	Amount        int64      `json:"amount"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	CheckoutURL   string     `json:"checkoutUrl,omitempty"`
	SettledAt     *time.Time `json:"settledAt,omitempty"`
}

type BookingResponse struct {
	ID            uuid.UUID        `json:"id"`
	TimeSlotID    uuid.UUID        `json:"timeSlotId"`
	CourtID       uuid.UUID        `json:"courtId"`
	CustomerID    uuid.UUID        `json:"customerId"`
	CustomerEmail string           `json:"customerEmail"`
	OwnerID       uuid.UUID        `json:"ownerId"`
	Date          string           `json:"date"`
	StartTime     string           `json:"startTime"`
	EndTime       string           `json:"endTime"`
	PlayerCount   int              `json:"playerCount"`
	TotalPrice    int64            `json:"totalPrice"`
	PaymentMethod string           `json:"paymentMethod"`
	Status        string           `json:"status"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
	Payment       *PaymentResponse `json:"payment,omitempty"`
}

type CreateBookingResponse struct {
	Booking         BookingResponse `json:"booking"`
	PaymentRedirect string          `json:"paymentRedirect,omitempty"`
	Replayed        bool            `json:"replayed,omitempty"`
}

type BookingListResponse struct {
	Items  []BookingResponse `json:"items"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

func FromBookingView(v queries.BookingView) (BookingResponse, error) {
	var res BookingResponse
	if err := copier.CopyWithOption(&res, &v, copier.Option{DeepCopy: true}); err != nil {
		return BookingResponse{}, err
	}
	return res, nil
}

func FromBookingPage(page *queries.BookingPage) (*BookingListResponse, error) {
	res := &BookingListResponse{
		Items:  make([]BookingResponse, 0, len(page.Items)),
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	for _, v := range page.Items {
		item, err := FromBookingView(v)
		if err != nil {
			return nil, err
		}
		res.Items = append(res.Items, item)
	}
	return res, nil
}
