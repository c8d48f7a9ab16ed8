//go:build unit || e2e

package sharedtest

import (
	"context"
	"sync"

	"court-booking/internal/usecase/shared"
)

// StubGateway returns canned results and records checkout requests.
type StubGateway struct {
	GatewayName string
	CheckoutErr error
	Outcome     *shared.Outcome
	CallbackErr error

	mu        sync.Mutex
	Checkouts []shared.CheckoutRequest
}

func (g *StubGateway) Name() string { return g.GatewayName }

func (g *StubGateway) CreateCheckout(_ context.Context, req shared.CheckoutRequest) (*shared.Checkout, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Checkouts = append(g.Checkouts, req)
	if g.CheckoutErr != nil {
		return nil, g.CheckoutErr
	}
	return &shared.Checkout{
		RedirectURL: "https://pay.example/" + g.GatewayName + "/" + req.TransactionID,
		Reference:   "ref_" + req.TransactionID,
	}, nil
}

func (g *StubGateway) ParseCallback(context.Context, shared.Callback) (*shared.Outcome, error) {
	if g.CallbackErr != nil {
		return nil, g.CallbackErr
	}
	out := *g.Outcome
	return &out, nil
}

func (g *StubGateway) CheckoutCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Checkouts)
}

// RecordingNotifier captures confirmations synchronously.
type RecordingNotifier struct {
	mu   sync.Mutex
	Sent []shared.BookingConfirmation
}

func (n *RecordingNotifier) BookingConfirmed(_ context.Context, c shared.BookingConfirmation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Sent = append(n.Sent, c)
}

func (n *RecordingNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Sent)
}
