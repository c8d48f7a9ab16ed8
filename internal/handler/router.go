package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"court-booking/internal/domain/user"
	"court-booking/internal/handler/api"
	"court-booking/internal/handler/middleware"
	"court-booking/internal/infra/metrics"
	"court-booking/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Availability *api.AvailabilityHandler
	Court        *api.CourtHandler
	Booking      *api.BookingHandler
	Payment      *api.PaymentHandler
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	logger *middleware.Logger,
	rec *metrics.Recorder,
	authMiddleware *middleware.AuthMiddleware,
	handlers Handlers,
) {
	setupMiddleware(engine, cfg, logger, rec)
	setupRoutes(engine, rec, handlers, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, rec *metrics.Recorder) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery(logger.GetSlogLogger()))
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.MetricsMiddleware(rec))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, rec *metrics.Recorder, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(rec.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	ownerOrAdmin := authMiddleware.RequireRole(user.RoleClubOwner, user.RoleAdmin)

	apiGroup := engine.Group("/api")
	{
		courts := apiGroup.Group("/courts")
		{
			addRoutes(courts, []route{
				{Method: http.MethodGet, Path: "/:id/availability", Handler: h.Availability.Get},
			})

			authRequired := courts.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Court.Create, Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleClubOwner)}},
				{Method: http.MethodPatch, Path: "/:id", Handler: h.Court.Update, Mw: []gin.HandlerFunc{ownerOrAdmin}},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.Court.Delete, Mw: []gin.HandlerFunc{ownerOrAdmin}},
			})
		}

		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Booking.Create, Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleCustomer)}},
				{Method: http.MethodGet, Path: "", Handler: h.Booking.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Booking.Get},
				{Method: http.MethodPut, Path: "/:id/status", Handler: h.Booking.UpdateStatus},
			})
		}

		// Authenticated by the gateway signature, not a bearer token.
		payments := apiGroup.Group("/payments")
		{
			addRoutes(payments, []route{
				{Method: http.MethodGet, Path: "/:gateway/callback", Handler: h.Payment.Callback},
				{Method: http.MethodPost, Path: "/:gateway/callback", Handler: h.Payment.Callback},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
