package bootstrap

import (
	"court-booking/internal/infra/metrics"

	"go.uber.org/fx"
)

var MetricsModule = fx.Module("metrics",
	fx.Provide(
		metrics.NewRecorder,
	),
)
