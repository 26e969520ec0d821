package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwise-mfg/eukodyne-cesmii/internal/config"
	"github.com/jwise-mfg/eukodyne-cesmii/internal/handler"
)

// New returns the Gin engine for the internal status listener. It exposes
// only observability routes; the publisher's real output goes to the broker.
func New(cfg *config.Config, broker handler.Broker, seq handler.SequenceSource) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", handler.Health(broker, seq))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
