package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter/v3"

	"github.com/peerpay-app/peerpay_backend/internal/core/domain"
	portssvc "github.com/peerpay-app/peerpay_backend/internal/core/ports/services"
	"github.com/peerpay-app/peerpay_backend/internal/core/services"
	"github.com/peerpay-app/peerpay_backend/internal/middleware"
	"github.com/peerpay-app/peerpay_backend/internal/platform/config"
)

// RegisterCustomValidators installs domain validators on gin's binding engine.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currencycode", func(fl validator.FieldLevel) bool {
			return domain.IsSupportedCurrency(fl.Field().String())
		})
	}
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	svcs *services.Container,
	clock portssvc.ClockSourceSvc,
	registry *prometheus.Registry,
	rateLimiter *limiter.Limiter,
) {
	registerHomeRoutes(r)

	if registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	// Conversion and rate-table routes are public; no identity required.
	registerConversionRoutes(r, svcs.Ledger, svcs.Rate)

	setupAPIV1Routes(r, svcs, clock, rateLimiter)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	svcs *services.Container,
	clock portssvc.ClockSourceSvc,
	rateLimiter *limiter.Limiter,
) {
	public := r.Group("/api/v1")
	if rateLimiter != nil {
		public.Use(middleware.RateLimit(rateLimiter))
	}

	// Registration needs no identity; everything else does.
	registerPublicUserRoutes(public, svcs.User, svcs.Account)

	v1 := public.Group("", middleware.IdentityMiddleware())

	registerUserRoutes(v1, svcs.User, svcs.Account)
	registerCurrencyRoutes(v1, svcs.Currency)
	registerPaymentRoutes(v1, svcs.Ledger, svcs.Account, svcs.User)
	registerAdminRoutes(v1, svcs.User, svcs.Ledger)
	registerTimestampRoutes(v1, clock)
}
