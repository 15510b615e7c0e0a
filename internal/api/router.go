package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/sakeenah/sakeenah/internal/app"
	"github.com/sakeenah/sakeenah/internal/handlers"
	"github.com/sakeenah/sakeenah/internal/middleware"
	"github.com/sakeenah/sakeenah/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, cfg *app.Config) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	invitations, err := services.NewInvitationService(db, cfg.Invitation.FetchTimeout)
	if err != nil {
		return nil, err
	}
	wishes, err := services.NewWishService(db)
	if err != nil {
		return nil, err
	}

	invitationHandler, err := handlers.NewInvitationHandler(invitations, cfg.Invitation.DefaultUID)
	if err != nil {
		return nil, err
	}
	wishHandler, err := handlers.NewWishHandler(wishes, invitations)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins...))
	r.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))

	r.NoRoute(middleware.NotFoundHandler)

	// Health endpoint (public)
	r.GET("/health", handlers.Health(db))

	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	api := r.Group("/api")
	{
		api.GET("/invitation/:uid", invitationHandler.Get)

		perInvitation := api.Group("/:uid")
		{
			perInvitation.GET("/wishes", wishHandler.List)
			perInvitation.POST("/wishes", wishHandler.Submit)
			perInvitation.DELETE("/wishes/:id", wishHandler.Delete)
			perInvitation.GET("/wishes/check", wishHandler.Check)
			perInvitation.GET("/wishes/export", wishHandler.Export)
			perInvitation.GET("/stats", wishHandler.Stats)
		}
	}

	return r, nil
}
