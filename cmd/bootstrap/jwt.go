package bootstrap

import (
	"court-booking/internal/handler/middleware"
	"court-booking/internal/pkg/config"
	"court-booking/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		fx.Annotate(
			NewJWTService,
			fx.As(new(middleware.IdentityVerifier)),
		),
	),
)

// Tokens are minted by the identity provider; this service only verifies them.
func NewJWTService(cfg config.Config) *jwt.Service {
	return jwt.NewService(cfg.Auth.Secret, cfg.Auth.Issuer)
}
