package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kferan/driverlens/internal/artifact"
	"github.com/kferan/driverlens/internal/backend"
	"github.com/kferan/driverlens/internal/classifier"
	"github.com/kferan/driverlens/internal/common"
	"github.com/kferan/driverlens/internal/core"
	"github.com/kferan/driverlens/internal/frontend"
)

func getConfigPath() string {
	// First check if config path is provided via environment variable
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}

	// Default to config.yaml in current working directory
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return filepath.Join(cwd, "config.yaml")
}

func main() {
	// Load configuration
	configPath := getConfigPath()
	config, err := core.LoadConfig(configPath)
	if err != nil {
		slog.Error("failed to load config", "path", configPath, "error", err)
		panic(err)
	}

	// The model must be fetched and loaded before any request is accepted.
	// A failure here is fatal and not retried.
	if err := artifact.Ensure(context.Background(), config.Model.URL, config.Model.Path); err != nil {
		slog.Error("failed to fetch model artifact", "error", err)
		panic(err)
	}

	model, err := classifier.New(config.Model.Path, config.Model.Labels, config.Model.ImageSize)
	if err != nil {
		slog.Error("failed to load model", "path", config.Model.Path, "error", err)
		panic(err)
	}

	coreService := core.NewCoreService(config, model)

	// Without the serve argument the process performs setup only.
	if len(os.Args) < 2 || os.Args[1] != "serve" {
		slog.Info("setup complete; run with 'serve' to start the listener")
		model.Close()
		if err := coreService.Close(); err != nil {
			slog.Error("core service close error", "error", err)
		}
		return
	}

	server := defineServer()

	apiService := backend.NewAPIService(coreService)
	apiService.SetRoutes(server)
	frontendService := frontend.NewFrontendService(config)
	frontendService.SetRoutes(server)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	slog.Info("starting server", "address", address, "model", config.Model.Path)

	// Start HTTP server in a goroutine to allow graceful shutdown
	go func() {
		if err := server.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	slog.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	model.Close()
	if err := coreService.Close(); err != nil {
		slog.Error("core service close error", "error", err)
	}
}

func defineServer() *echo.Echo {
	e := echo.New()

	// Configure request logger to skip the liveness probe
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/probe"
		},
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogURI:       true,
		LogError:     true,
		LogRemoteIP:  true,
		LogRoutePath: true,
		HandleError:  false,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				slog.Error("request", "method", v.Method, "uri", v.URI, "route", v.RoutePath,
					"status", v.Status, "latency", v.Latency, "remote_ip", v.RemoteIP, "error", v.Error)
			} else {
				slog.Info("request", "method", v.Method, "uri", v.URI, "route", v.RoutePath,
					"status", v.Status, "latency", v.Latency, "remote_ip", v.RemoteIP)
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"X-Requested-With", echo.HeaderContentType},
	}))
	e.Pre(middleware.RemoveTrailingSlash())

	e.Validator = &common.GenericEchoValidator{}

	return e
}
