package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kferan/driverlens/internal/classifier"
)

const keyPrefix = "driverlens:prediction:"

// PredictionCache is an advisory redis cache mapping an image digest to the
// prediction it produced. Cache failures never fail a request; they are
// logged and the caller falls back to running inference.
type PredictionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPredictionCache(address string, ttl time.Duration) *PredictionCache {
	client := redis.NewClient(&redis.Options{
		Addr: address,
	})
	return &PredictionCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached prediction for digest, if any.
func (c *PredictionCache) Get(ctx context.Context, digest string) (classifier.Prediction, bool) {
	data, err := c.client.Get(ctx, keyPrefix+digest).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("prediction cache lookup failed", "digest", digest, "error", err)
		}
		return classifier.Prediction{}, false
	}

	var prediction classifier.Prediction
	if err := json.Unmarshal(data, &prediction); err != nil {
		slog.Warn("prediction cache entry is not valid JSON, ignoring", "digest", digest, "error", err)
		return classifier.Prediction{}, false
	}
	return prediction, true
}

// Set stores the prediction for digest with the configured TTL.
func (c *PredictionCache) Set(ctx context.Context, digest string, prediction classifier.Prediction) {
	data, err := json.Marshal(prediction)
	if err != nil {
		slog.Warn("failed to marshal prediction for cache", "digest", digest, "error", err)
		return
	}
	if err := c.client.Set(ctx, keyPrefix+digest, data, c.ttl).Err(); err != nil {
		slog.Warn("failed to store prediction in cache", "digest", digest, "error", err)
	}
}

func (c *PredictionCache) Close() error {
	return c.client.Close()
}
