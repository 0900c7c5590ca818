package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"pairlens/internal/artifact"
	"pairlens/internal/server/middleware"
	"pairlens/pkg/analysis"

	"github.com/labstack/echo/v4"
)

// GetGraphsHandler returns both per-source graphs for a topic in one
// response. Either graph missing is a 404; they are generated together.
func GetGraphsHandler(c echo.Context) error {
	topic, err := bindTopic(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App

	var grok, wiki json.RawMessage
	if err := app.Store.ReadJSON(topic, artifact.FileGrokGraph, &grok); err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found: " + artifact.FileGrokGraph})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Invalid artifact: " + artifact.FileGrokGraph})
	}
	if err := app.Store.ReadJSON(topic, artifact.FileWikiGraph, &wiki); err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found: " + artifact.FileWikiGraph})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Invalid artifact: " + artifact.FileWikiGraph})
	}

	return c.JSON(http.StatusOK, map[string]json.RawMessage{
		analysis.SourceGrokipedia: grok,
		analysis.SourceWikipedia:  wiki,
	})
}
