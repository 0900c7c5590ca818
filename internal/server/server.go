package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pairlens/internal/aiclient"
	"pairlens/internal/artifact"
	mid "pairlens/internal/server/middleware"
	"pairlens/internal/util"
	"pairlens/pkg/graph"
	"pairlens/pkg/logger"
	"pairlens/pkg/segment"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// Init wires the application together and serves the read API until the
// process receives an interrupt or termination signal.
func Init() {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := artifact.NewStore(util.GetEnvString("DATA_DIR", "data"))

	aiClient, err := aiclient.FromEnv()
	if err != nil {
		logger.Fatal("Failed to create AI client", "err", err)
	}

	app := &mid.App{
		Store:     store,
		AiClient:  aiClient,
		Generator: graph.NewGenerator(graph.NewGeneratorParams{Store: store, Embedder: aiClient}),
		Segments:  segment.NewGenerator(store),
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())

	RegisterRoutes(e)

	go func() {
		port := util.GetEnvString("PORT", "8080")
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
