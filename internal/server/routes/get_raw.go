package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"pairlens/internal/artifact"
	"pairlens/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// GetRawHandler returns the raw article pair plus download metadata for a
// topic. Missing individual files degrade to empty values; a topic with no
// raw data at all is a 404.
func GetRawHandler(c echo.Context) error {
	type rawResponse struct {
		Grokipedia string          `json:"grokipedia"`
		Wikipedia  string          `json:"wikipedia"`
		Metadata   json.RawMessage `json:"metadata"`
	}

	topic, err := bindTopic(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	app := c.(*middleware.AppContext).App

	res := rawResponse{Metadata: json.RawMessage("{}")}
	missing := 0

	if text, err := app.Store.ReadGrokipediaText(topic); err == nil {
		res.Grokipedia = text
	} else if errors.Is(err, artifact.ErrNotFound) {
		missing++
	} else {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	if text, err := app.Store.ReadRawText(topic, "wikipedia.txt"); err == nil {
		res.Wikipedia = text
	} else if errors.Is(err, artifact.ErrNotFound) {
		missing++
	} else {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	var meta json.RawMessage
	if err := app.Store.ReadMetadata(topic, &meta); err == nil {
		res.Metadata = meta
	} else if errors.Is(err, artifact.ErrNotFound) {
		missing++
	} else {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Invalid metadata"})
	}

	if missing == 3 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Topic not found"})
	}
	return c.JSON(http.StatusOK, res)
}
