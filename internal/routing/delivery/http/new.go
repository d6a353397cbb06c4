package http

import (
	"github.com/gin-gonic/gin"

	"dealership-chat-router/internal/metrics"
	"dealership-chat-router/internal/routing"
	pkgLog "dealership-chat-router/pkg/log"
)

// Handler is the interface for the routing HTTP delivery handler.
type Handler interface {
	HandleRouteMessage(c *gin.Context)
	HandleMetrics(c *gin.Context)
	HandleReset(c *gin.Context)
	HandleHealth(c *gin.Context)
}

type handler struct {
	l         pkgLog.Logger
	uc        routing.UseCase
	collector *metrics.Collector
}

// New creates a new routing delivery handler.
func New(l pkgLog.Logger, uc routing.UseCase, collector *metrics.Collector) Handler {
	return &handler{
		l:         l,
		uc:        uc,
		collector: collector,
	}
}
