package middleware

import (
	"slices"

	"court-booking/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Booking clients replay creates with Idempotency-Key and follow Location after a 201.
var (
	requiredAllowHeaders  = []string{"Authorization", "Content-Type", "Idempotency-Key"}
	requiredExposeHeaders = []string{"Location", requestIDHeader}
)

func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     withRequired(cfg.AllowHeaders, requiredAllowHeaders),
		ExposeHeaders:    withRequired(cfg.ExposeHeaders, requiredExposeHeaders),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}

func withRequired(configured, required []string) []string {
	out := slices.Clone(configured)
	for _, h := range required {
		if !slices.Contains(out, h) {
			out = append(out, h)
		}
	}
	return out
}
