package middleware

import (
	"github.com/labstack/echo/v4"

	"pairlens/internal/artifact"
	"pairlens/pkg/ai"
	"pairlens/pkg/graph"
	"pairlens/pkg/segment"
)

// App bundles the shared dependencies every handler needs.
type App struct {
	Store     *artifact.Store
	AiClient  ai.ExtractionAIClient
	Generator *graph.Generator
	Segments  *segment.Generator
}

// AppContext wraps the echo context with the application dependencies.
type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
