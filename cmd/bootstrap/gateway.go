package bootstrap

import (
	"log/slog"
	"net/http"

	"court-booking/internal/infra/gateway/regional"
	"court-booking/internal/infra/gateway/stripegw"
	"court-booking/internal/pkg/config"
	"court-booking/internal/usecase/shared"

	"github.com/stripe/stripe-go/v82"
	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		NewGatewayRegistry,
	),
)

// NewGatewayRegistry registers only the gateways whose credentials are configured.
func NewGatewayRegistry(cfg config.Config, logger *slog.Logger) (*shared.GatewayRegistry, error) {
	var gateways []shared.PaymentGateway

	if cfg.Stripe.Enabled() {
		backends := stripe.NewBackendsWithConfig(&stripe.BackendConfig{
			HTTPClient:        &http.Client{Timeout: cfg.Timeouts.Gateway},
			MaxNetworkRetries: stripe.Int64(2),
			LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelWarn},
		})
		gateways = append(gateways, stripegw.NewGateway(cfg.Stripe, stripe.WithBackends(backends)))
	} else {
		logger.Warn("Stripe決済は無効です", "reason", "STRIPE_SECRET_KEY or STRIPE_WEBHOOK_SECRET is empty")
	}

	if cfg.Regional.Enabled() {
		gw, err := regional.NewGateway(cfg.Regional)
		if err != nil {
			return nil, err
		}
		gateways = append(gateways, gw)
	} else {
		logger.Warn("地域決済ゲートウェイは無効です", "reason", "REGIONAL_SECRET_KEY or REGIONAL_MERCHANT_CODE is empty")
	}

	return shared.NewGatewayRegistry(gateways...), nil
}
