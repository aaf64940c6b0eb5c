package core

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	// Decoders for the upload formats the analyze route accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/kferan/driverlens/internal/backend/cache"
	"github.com/kferan/driverlens/internal/backend/database"
	"github.com/kferan/driverlens/internal/classifier"
)

// ErrInvalidImage marks uploads that could not be decoded as an image.
var ErrInvalidImage = errors.New("uploaded data is not a decodable image")

// Predictor is the single capability the core needs from the loaded model.
type Predictor interface {
	Predict(img image.Image) (classifier.Prediction, error)
}

type CoreService struct {
	config          *ServiceConfig
	predictor       Predictor
	databaseService database.DatabaseService
	predictionCache *cache.PredictionCache
}

func NewCoreService(config *ServiceConfig, predictor Predictor) *CoreService {
	service := &CoreService{
		config:    config,
		predictor: predictor,
	}

	if config.Database.Type != "" {
		databaseService, err := getDatabaseService(config)
		if err != nil {
			slog.Error("failed to initialize database service", "error", err)
			panic(err)
		}
		service.databaseService = databaseService
	}

	if config.Cache.RedisAddress != "" {
		ttl := time.Duration(config.Cache.TTLSeconds) * time.Second
		service.predictionCache = cache.NewPredictionCache(config.Cache.RedisAddress, ttl)
		slog.Info("prediction cache enabled", "address", config.Cache.RedisAddress, "ttl", ttl)
	}

	return service
}

// Analyze decodes the uploaded bytes and classifies them. The cache is
// consulted first and populated afterwards; the history store records every
// fresh prediction. Both are optional and advisory.
func (service *CoreService) Analyze(ctx context.Context, imageData []byte) (classifier.Prediction, error) {
	digest := digestOf(imageData)

	if service.predictionCache != nil {
		if prediction, ok := service.predictionCache.Get(ctx, digest); ok {
			slog.Info("serving prediction from cache", "digest", digest, "label", prediction.Label)
			return prediction, nil
		}
	}

	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return classifier.Prediction{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	slog.Info("decoded uploaded image", "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	prediction, err := service.predictor.Predict(img)
	if err != nil {
		return classifier.Prediction{}, fmt.Errorf("failed to classify image: %w", err)
	}

	if service.predictionCache != nil {
		service.predictionCache.Set(ctx, digest, prediction)
	}

	if service.databaseService != nil {
		if _, err := service.databaseService.CreatePrediction(prediction.Label, prediction.Confidence); err != nil {
			slog.Error("failed to record prediction in history", "error", err)
		}
	}

	return prediction, nil
}

// HistoryEnabled reports whether a prediction-history store is configured.
func (service *CoreService) HistoryEnabled() bool {
	return service.databaseService != nil
}

// History returns up to limit recorded predictions, newest first.
func (service *CoreService) History(limit int) ([]*database.Prediction, error) {
	if service.databaseService == nil {
		return nil, fmt.Errorf("prediction history is not configured")
	}
	return service.databaseService.GetRecentPredictions(limit)
}

func (service *CoreService) Close() error {
	var errs []error
	if service.predictionCache != nil {
		if err := service.predictionCache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close prediction cache: %w", err))
		}
	}
	if service.databaseService != nil {
		if err := service.databaseService.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

func digestOf(imageData []byte) string {
	sum := sha256.Sum256(imageData)
	return hex.EncodeToString(sum[:])
}

func getDatabaseService(config *ServiceConfig) (database.DatabaseService, error) {
	databaseService, err := database.NewDatabase(config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)
	return databaseService, nil
}
