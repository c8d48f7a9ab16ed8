package payment

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"court-booking/internal/domain/booking"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus     = errors.New("invalid payment status")
	ErrInvalidTransition = errors.New("payment is already settled")
	ErrInvalidAmount     = errors.New("payment amount must be positive")
	ErrMissingReference  = errors.New("payment requires gateway and transaction id")
)

// Gateway names a payment method routes to.
const (
	GatewayStripe   = "stripe"
	GatewayRegional = "regional"
)

// GatewayFor maps a paid booking method to the gateway that settles it.
func GatewayFor(m booking.PaymentMethod) (string, bool) {
	switch m {
	case booking.PaymentMethodCard:
		return GatewayStripe, true
	case booking.PaymentMethodGateway:
		return GatewayRegional, true
	default:
		return "", false
	}
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition allows exactly one move, out of pending into a terminal state.
func CanTransition(from, to Status) bool {
	return from == StatusPending && to.IsTerminal()
}

type Payment struct {
	id              uuid.UUID
	bookingID       *uuid.UUID
	amount          int64
	currency        string
	status          Status
	method          booking.PaymentMethod
	gateway         string
	transactionID   string
	checkoutURL     string
	gatewayResponse json.RawMessage
	createdAt       time.Time
	updatedAt       time.Time
	settledAt       *time.Time
}

type NewPaymentParams struct {
	BookingID     uuid.UUID
	Amount        int64
	Currency      string
	Method        booking.PaymentMethod
	Gateway       string
	TransactionID string
	CheckoutURL   string
	Now           time.Time
}

func NewPayment(p NewPaymentParams) (*Payment, error) {
	if p.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if p.Gateway == "" || p.TransactionID == "" {
		return nil, ErrMissingReference
	}
	bookingID := p.BookingID
	return &Payment{
		id:            uuid.New(),
		bookingID:     &bookingID,
		amount:        p.Amount,
		currency:      p.Currency,
		status:        StatusPending,
		method:        p.Method,
		gateway:       p.Gateway,
		transactionID: p.TransactionID,
		checkoutURL:   p.CheckoutURL,
		createdAt:     p.Now,
		updatedAt:     p.Now,
	}, nil
}

func ReconstructPayment(
	id uuid.UUID,
	bookingID *uuid.UUID,
	amount int64,
	currency string,
	status Status,
	method booking.PaymentMethod,
	gateway, transactionID, checkoutURL string,
	gatewayResponse json.RawMessage,
	createdAt, updatedAt time.Time,
	settledAt *time.Time,
) *Payment {
	return &Payment{
		id:              id,
		bookingID:       bookingID,
		amount:          amount,
		currency:        currency,
		status:          status,
		method:          method,
		gateway:         gateway,
		transactionID:   transactionID,
		checkoutURL:     checkoutURL,
		gatewayResponse: gatewayResponse,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		settledAt:       settledAt,
	}
}

// Settle moves a pending payment into its terminal state and records the raw gateway payload.
func (p *Payment) Settle(to Status, raw json.RawMessage, at time.Time) error {
	if !to.IsValid() {
		return ErrInvalidStatus
	}
	if !CanTransition(p.status, to) {
		return ErrInvalidTransition
	}
	p.status = to
	p.gatewayResponse = raw
	p.updatedAt = at
	p.settledAt = &at
	return nil
}

func (p *Payment) ID() uuid.UUID                    { return p.id }
func (p *Payment) BookingID() *uuid.UUID            { return p.bookingID }
func (p *Payment) Amount() int64                    { return p.amount }
func (p *Payment) Currency() string                 { return p.currency }
func (p *Payment) Status() Status                   { return p.status }
func (p *Payment) Method() booking.PaymentMethod    { return p.method }
func (p *Payment) Gateway() string                  { return p.gateway }
func (p *Payment) TransactionID() string            { return p.transactionID }
func (p *Payment) CheckoutURL() string              { return p.checkoutURL }
func (p *Payment) GatewayResponse() json.RawMessage { return p.gatewayResponse }
func (p *Payment) CreatedAt() time.Time             { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time             { return p.updatedAt }
func (p *Payment) SettledAt() *time.Time            { return p.settledAt }

// NewTransactionID returns a gateway-safe reference: a UTC timestamp followed by
// 12 random hex characters.
func NewTransactionID(now time.Time) string {
	var buf [6]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return now.UTC().Format("20060102150405") + uuid.NewString()[:12]
	}
	return now.UTC().Format("20060102150405") + hex.EncodeToString(buf[:])
}
