package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"pairlens/internal/artifact"
	"pairlens/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

type topicParam struct {
	Topic string `param:"topic" validate:"required"`
}

// bindTopic extracts and validates the :topic path parameter.
func bindTopic(c echo.Context) (string, error) {
	data := new(topicParam)
	if err := c.Bind(data); err != nil {
		return "", err
	}
	if err := c.Validate(data); err != nil {
		return "", err
	}
	return data.Topic, nil
}

// serveArtifact streams one stored artifact back as-is. Artifacts are
// written by the pipeline, so they pass through without re-encoding.
func serveArtifact(c echo.Context, name string) error {
	topic, err := bindTopic(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App

	var raw json.RawMessage
	if err := app.Store.ReadJSON(topic, name, &raw); err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found: " + name})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Invalid artifact: " + name})
	}
	return c.JSONBlob(http.StatusOK, raw)
}

func GetAnalysisHandler(c echo.Context) error {
	return serveArtifact(c, artifact.FileAnalysis)
}

func GetComparisonHandler(c echo.Context) error {
	return serveArtifact(c, artifact.FileComparison)
}

func GetEmbeddingsHandler(c echo.Context) error {
	return serveArtifact(c, artifact.FileEmbeddings)
}

func GetSegmentsHandler(c echo.Context) error {
	return serveArtifact(c, artifact.FileSegments)
}
