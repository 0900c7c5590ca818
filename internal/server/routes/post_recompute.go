package routes

import (
	"errors"
	"net/http"

	"pairlens/internal/artifact"
	"pairlens/internal/server/middleware"
	"pairlens/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RecomputeHandler regenerates the graph-stage artifacts of a topic from
// its stored extraction. The extraction itself is not re-run.
func RecomputeHandler(c echo.Context) error {
	topic, err := bindTopic(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	if err := app.Generator.Generate(ctx, topic); err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "analysis.json not found for topic"})
		}
		logger.Error("recompute failed", "topic", topic, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
