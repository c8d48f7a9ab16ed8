package bootstrap

import (
	"court-booking/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	MetricsModule,
	DBModule,
	JWTModule,
	GatewayModule,
	MailerModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)
