package booking

import "errors"

var (
	ErrInvalidStatus        = errors.New("invalid booking status")
	ErrInvalidTransition    = errors.New("illegal booking status transition")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidPlayerCount   = errors.New("invalid player count")
	ErrInvalidPrice         = errors.New("total price cannot be negative")
	ErrMissingReference     = errors.New("booking requires slot, court, customer and owner")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
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

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled},
	StatusCancelled: {},
}

// CanTransition reports whether from -> to is a legal move. Nothing leaves cancelled.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCard    PaymentMethod = "card"
	PaymentMethodGateway PaymentMethod = "gateway"
	PaymentMethodCash    PaymentMethod = "cash"
)

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodGateway, PaymentMethodCash:
		return true
	default:
		return false
	}
}

// RequiresPayment is true for methods settled through a payment gateway.
// Such bookings are confirmed by the payment, never by the owner.
func (m PaymentMethod) RequiresPayment() bool {
	return m == PaymentMethodCard || m == PaymentMethodGateway
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(s)
	if !m.IsValid() {
		return "", ErrInvalidPaymentMethod
	}
	return m, nil
}
