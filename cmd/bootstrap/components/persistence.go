package components

import (
	"court-booking/internal/infra/uow"
	"court-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

// Repositories are created per transaction by the unit of work, so only the UoW is provided here.
var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
	),
)
