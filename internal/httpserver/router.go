package httpserver

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	orderrepo "stickershop/internal/repository/order"
	ordersvc "stickershop/internal/service/order"
)

// OrderSubmitter runs the intake workflow for one submission.
type OrderSubmitter interface {
	Submit(ctx context.Context, in ordersvc.Fields, upload *ordersvc.Upload) (*ordersvc.Result, error)
}

// Prober reports repository health.
type Prober interface {
	Probe(ctx context.Context) orderrepo.Probe
}

// Deps carries the collaborators the handlers need.
type Deps struct {
	Orders      OrderSubmitter
	Repository  Prober
	CORSOrigins []string
	// Development exposes internal error details in 500 responses.
	Development bool
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, deps Deps) *gin.Engine {
	if deps.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestID(), accessLog(logger), recovery(logger))
	router.Use(cors.New(corsConfig(deps.CORSOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Repository))

	api := router.Group("/api")
	api.POST("/order", orderHandler(deps.Orders, deps.Development, logger))
	api.GET("/test-db", dbCheckHandler(deps.Repository))

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
