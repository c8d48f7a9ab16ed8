package components

import (
	"court-booking/internal/pkg/clock"
	"court-booking/internal/usecase/commands"
	"court-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAvailabilityCommands,
		commands.NewBookingCommands,
		commands.NewPaymentCommands,
		commands.NewCourtCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
	),
)
