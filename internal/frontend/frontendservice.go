package frontend

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/kferan/driverlens/internal/core"
)

const MainPageName = "index.html"

type FrontendService struct {
	config *core.ServiceConfig
}

func NewFrontendService(config *core.ServiceConfig) *FrontendService {
	return &FrontendService{
		config: config,
	}
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	e.GET("/", service.indexHandler)
	e.Static("/static", filepath.Join(service.config.AppDir, "static"))
}

// indexHandler reads the page from disk on every request, so edits to the
// HTML show up without a restart.
func (service *FrontendService) indexHandler(ctx echo.Context) error {
	pagePath := filepath.Join(service.config.AppDir, "view", MainPageName)
	data, err := os.ReadFile(pagePath)
	if err != nil {
		slog.Error("indexHandler: failed to read page",
			"status", http.StatusInternalServerError, "path", pagePath, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load page")
	}
	return ctx.HTMLBlob(http.StatusOK, data)
}
