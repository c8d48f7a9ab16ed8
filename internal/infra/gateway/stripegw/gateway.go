// Package stripegw runs card payments through Stripe Checkout.
package stripegw

import (
	"context"
	"encoding/json"
	"strings"

	"court-booking/internal/domain/payment"
	"court-booking/internal/pkg/config"
	"court-booking/internal/pkg/errs"
	"court-booking/internal/usecase/shared"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const SignatureHeader = "Stripe-Signature"

type Gateway struct {
	client        *stripe.Client
	webhookSecret string
	successURL    string
	cancelURL     string
}

// NewGateway accepts extra client options so tests can point the client at a local backend.
func NewGateway(cfg config.StripeConfig, opts ...stripe.ClientOption) *Gateway {
	return &Gateway{
		client:        stripe.NewClient(cfg.SecretKey, opts...),
		webhookSecret: cfg.WebhookSecret,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
	}
}

func (g *Gateway) Name() string {
	return payment.GatewayStripe
}

func (g *Gateway) CreateCheckout(ctx context.Context, req shared.CheckoutRequest) (*shared.Checkout, error) {
	params := &stripe.CheckoutSessionCreateParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(g.successURL),
		CancelURL:         stripe.String(g.cancelURL),
		ClientReferenceID: stripe.String(req.TransactionID),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(req.Currency)),
					UnitAmount: stripe.Int64(req.Amount),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"booking_id":     req.BookingID.String(),
			"transaction_id": req.TransactionID,
		},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	params.SetIdempotencyKey(req.TransactionID)

	session, err := g.client.V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		return nil, errs.Wrap(err, "create stripe checkout session")
	}
	return &shared.Checkout{RedirectURL: session.URL, Reference: session.ID}, nil
}

// ParseCallback verifies the Stripe-Signature header over the raw body.
// Events that do not settle a checkout are acknowledged as ignored.
func (g *Gateway) ParseCallback(ctx context.Context, cb shared.Callback) (*shared.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(cb.Body) == 0 {
		return nil, errs.Mark(errs.New("empty stripe webhook body"), shared.ErrMalformedCallback)
	}

	event, err := webhook.ConstructEventWithOptions(cb.Body, cb.Signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "verify stripe webhook"), shared.ErrInvalidSignature)
	}

	var status payment.Status
	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted, stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		status = payment.StatusCompleted
	case stripe.EventTypeCheckoutSessionAsyncPaymentFailed, stripe.EventTypeCheckoutSessionExpired:
		status = payment.StatusFailed
	default:
		return &shared.Outcome{Ignored: true}, nil
	}
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return nil, errs.Mark(errs.Newf("stripe event %s has no data", event.ID), shared.ErrMalformedCallback)
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, errs.Mark(errs.Wrap(err, "decode checkout session"), shared.ErrMalformedCallback)
	}
	if session.ClientReferenceID == "" {
		return nil, errs.Mark(errs.Newf("checkout session %s has no client reference", session.ID), shared.ErrMalformedCallback)
	}

	// A completed session paid by a delayed method settles later through async_payment_succeeded.
	if event.Type == stripe.EventTypeCheckoutSessionCompleted &&
		session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid &&
		session.PaymentStatus != stripe.CheckoutSessionPaymentStatusNoPaymentRequired {
		return &shared.Outcome{TransactionID: session.ClientReferenceID, Ignored: true}, nil
	}

	amount := session.AmountTotal
	return &shared.Outcome{
		TransactionID: session.ClientReferenceID,
		Status:        status,
		Amount:        &amount,
		Reference:     session.ID,
		Raw:           json.RawMessage(event.Data.Raw),
	}, nil
}
