package server

import (
	"pairlens/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	apiRoutes.GET("/topics", routes.GetTopicsHandler)

	// Per-topic artifact routes
	apiRoutes.GET("/topic/:topic/raw", routes.GetRawHandler)
	apiRoutes.GET("/topic/:topic/analysis", routes.GetAnalysisHandler)
	apiRoutes.GET("/topic/:topic/graphs", routes.GetGraphsHandler)
	apiRoutes.GET("/topic/:topic/comparison", routes.GetComparisonHandler)
	apiRoutes.GET("/topic/:topic/embeddings", routes.GetEmbeddingsHandler)
	apiRoutes.GET("/topic/:topic/segments", routes.GetSegmentsHandler)
	apiRoutes.POST("/topic/:topic/recompute", routes.RecomputeHandler)
}
