package bootstrap

import (
	"context"
	"log/slog"

	"court-booking/internal/infra/mailer"
	"court-booking/internal/infra/metrics"
	"court-booking/internal/pkg/config"
	"court-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var MailerModule = fx.Module("mailer",
	fx.Provide(
		NewNotifier,
	),
)

// NewNotifier drains in-flight confirmation emails on shutdown.
func NewNotifier(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger, rec *metrics.Recorder) (shared.Notifier, error) {
	sender, err := mailer.NewSender(cfg.Mail, logger)
	if err != nil {
		return nil, err
	}
	notifier := mailer.NewConfirmationNotifier(sender, logger, rec, cfg.Timeouts.Mail)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return notifier.Wait(ctx)
		},
	})

	return notifier, nil
}
