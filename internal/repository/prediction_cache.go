package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"score_predictor_backend/internal/model"

	"github.com/go-redis/redis/v8"
)

const predictionCacheKeyPrefix = "prediction:detail:"

// RedisPredictionCache stores prediction details as JSON. Predictions never
// change after creation, so entries only expire through the TTL.
type RedisPredictionCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisPredictionCache(client *redis.Client, ttl time.Duration) *RedisPredictionCache {
	return &RedisPredictionCache{Client: client, TTL: ttl}
}

func predictionCacheKey(id string) string {
	return predictionCacheKeyPrefix + id
}

// Get reports a miss as (nil, nil).
func (c *RedisPredictionCache) Get(ctx context.Context, id string) (*model.PredictionDetail, error) {
	raw, err := c.Client.Get(ctx, predictionCacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var detail model.PredictionDetail
	if err := json.Unmarshal(raw, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *RedisPredictionCache) Set(ctx context.Context, detail *model.PredictionDetail) error {
	raw, err := json.Marshal(detail)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, predictionCacheKey(detail.PredictionID), raw, c.TTL).Err()
}
