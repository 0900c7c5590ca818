package routes

import (
	"net/http"

	"pairlens/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// GetTopicsHandler lists the topic slugs that have downloaded article pairs.
func GetTopicsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App

	topics, err := app.Store.ListTopics()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return c.JSON(http.StatusOK, topics)
}
