package shared

import (
	"context"
	"encoding/json"
	"time"

	"court-booking/internal/domain/payment"
	"court-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidSignature  = errs.New("invalid callback signature")
	ErrMalformedCallback = errs.New("malformed callback payload")
)

type CheckoutRequest struct {
	TransactionID string
	BookingID     uuid.UUID
	Amount        int64
	Currency      string
	Description   string
	CustomerEmail string
	ClientIP      string
	CreatedAt     time.Time
}

type Checkout struct {
	RedirectURL string
	// Reference is the gateway's own id for the checkout, when it has one.
	Reference string
}

// Callback is the gateway-agnostic shape of an inbound notification.
type Callback struct {
	Params    map[string]string
	Body      []byte
	Signature string
}

// Outcome is a verified callback. Ignored outcomes are acknowledged without touching state.
type Outcome struct {
	TransactionID string
	Status        payment.Status
	Amount        *int64
	Reference     string
	Raw           json.RawMessage
	Ignored       bool
}

type PaymentGateway interface {
	Name() string
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error)
	// ParseCallback verifies authenticity before decoding; failures wrap ErrInvalidSignature or ErrMalformedCallback.
	ParseCallback(ctx context.Context, cb Callback) (*Outcome, error)
}

type GatewayRegistry struct {
	gateways map[string]PaymentGateway
}

func NewGatewayRegistry(gateways ...PaymentGateway) *GatewayRegistry {
	r := &GatewayRegistry{gateways: make(map[string]PaymentGateway, len(gateways))}
	for _, g := range gateways {
		if g == nil {
			continue
		}
		r.gateways[g.Name()] = g
	}
	return r
}

func (r *GatewayRegistry) Get(name string) (PaymentGateway, bool) {
	if r == nil {
		return nil, false
	}
	g, ok := r.gateways[name]
	return g, ok
}

type BookingConfirmation struct {
	BookingID     uuid.UUID
	CourtID       uuid.UUID
	CourtName     string
	CustomerEmail string
	Date          time.Time
	Start         string
	End           string
	PlayerCount   int
	TotalPrice    int64
	Currency      string
	TransactionID string
}

// Notifier delivers confirmations out of band. Implementations must not block the caller
// on delivery and must not surface delivery failures.
type Notifier interface {
	BookingConfirmed(ctx context.Context, c BookingConfirmation)
}

type NopNotifier struct{}

func (NopNotifier) BookingConfirmed(context.Context, BookingConfirmation) {}
