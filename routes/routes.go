package routes

import (
	"net/http"
	"time"

	"saubio/handlers"
	"saubio/middleware"
	"saubio/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options carries what the route table needs besides the handlers.
type Options struct {
	AllowedOrigins []string
	// Metrics is served at /metrics when set.
	Metrics http.Handler
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		if !status.Redis || !status.API {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": http.StatusText(code), "checks": status})
	})
}

// RegisterPlannerRoutes sets up the booking planner endpoints. Identity is optional: guests
// can plan and submit, account-only steps reject them in the handlers.
func RegisterPlannerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/planner")
	api.Use(middleware.TabScope(), middleware.OptionalAuth())
	{
		api.GET("/draft", hb.GetDraft)
		api.PUT("/draft", hb.UpdateDraft)
		api.DELETE("/draft", hb.DeleteDraft)
		api.POST("/draft/service", hb.SetService)

		api.GET("/quote", hb.Quote)
		api.POST("/submit", hb.Submit)
		api.POST("/account/enter", hb.EnterAccount)
		api.POST("/exit", hb.Exit)

		api.GET("/lookup/address", hb.AddressSuggestions)
		api.GET("/lookup/postal", hb.LookupPostal)
		api.GET("/providers", hb.Providers)
		api.POST("/providers/toggle", hb.ToggleProvider)
		api.GET("/matching-progress", hb.MatchingProgress)

		api.GET("/checkout/payment/:bookingId", hb.PaymentHandoff)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, opts Options) {
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	RegisterHealthRoute(r)
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}
	RegisterPlannerRoutes(r, hb)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", middleware.TabSessionHeader, middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
