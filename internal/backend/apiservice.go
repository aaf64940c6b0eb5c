package backend

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kferan/driverlens/internal/core"
)

const defaultHistoryLimit = 50

// AnalyzeResponse is the wire shape of a successful classification.
type AnalyzeResponse struct {
	Result string `json:"result"`
}

type APIService struct {
	coreService *core.CoreService
}

func NewAPIService(coreService *core.CoreService) *APIService {
	return &APIService{
		coreService: coreService,
	}
}

func (service *APIService) SetRoutes(e *echo.Echo) {
	e.GET("/probe", service.probeHandler)
	e.POST("/analyze", service.analyzeHandler)
	if service.coreService.HistoryEnabled() {
		e.GET("/history", service.historyHandler)
	}
}

func (service *APIService) probeHandler(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

// analyzeHandler accepts a multipart upload under the "file" field and
// returns the predicted class label.
func (service *APIService) analyzeHandler(ctx echo.Context) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		slog.Warn("analyzeHandler: no file in upload",
			"status", http.StatusBadRequest, "error", err)
		return respondError(ctx, http.StatusBadRequest, "no file uploaded; use 'file' as the form field name")
	}

	src, err := file.Open()
	if err != nil {
		slog.Error("analyzeHandler: failed to open uploaded file",
			"status", http.StatusInternalServerError, "error", err, "filename", file.Filename)
		return respondError(ctx, http.StatusInternalServerError, "failed to open uploaded file")
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			slog.Error("analyzeHandler: failed to close uploaded file reader", "error", cerr, "filename", file.Filename)
		}
	}()

	imageData, err := io.ReadAll(src)
	if err != nil {
		slog.Error("analyzeHandler: failed to read uploaded file",
			"status", http.StatusInternalServerError, "error", err, "filename", file.Filename)
		return respondError(ctx, http.StatusInternalServerError, "failed to read uploaded file")
	}

	prediction, err := service.coreService.Analyze(ctx.Request().Context(), imageData)
	if err != nil {
		if errors.Is(err, core.ErrInvalidImage) {
			slog.Warn("analyzeHandler: upload is not a decodable image",
				"status", http.StatusBadRequest, "filename", file.Filename, "error", err)
			return respondError(ctx, http.StatusBadRequest, "uploaded file is not a supported image")
		}
		slog.Error("analyzeHandler: classification failed",
			"status", http.StatusInternalServerError, "filename", file.Filename, "error", err)
		return respondError(ctx, http.StatusInternalServerError, "classification failed")
	}

	return ctx.JSON(http.StatusOK, AnalyzeResponse{Result: prediction.Label})
}

func (service *APIService) historyHandler(ctx echo.Context) error {
	limit := defaultHistoryLimit
	if raw := ctx.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return respondError(ctx, http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = parsed
	}

	predictions, err := service.coreService.History(limit)
	if err != nil {
		slog.Error("historyHandler: failed to list predictions",
			"status", http.StatusInternalServerError, "error", err)
		return respondError(ctx, http.StatusInternalServerError, "failed to list predictions")
	}

	return ctx.JSON(http.StatusOK, predictions)
}

func respondError(ctx echo.Context, status int, message string) error {
	return ctx.JSON(status, map[string]string{"error": message})
}
