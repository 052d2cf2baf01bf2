package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"Veriface/internal/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const faceTemplateKey = "veriface:face_templates"

// IRedis caches the full face-template snapshot used by the identity
// matcher. A stale snapshot is acceptable: the matcher contract only
// promises that a registration concurrent with a scan may or may not be
// observed, and writes invalidate the key anyway.
type IRedis interface {
	GetFaceTemplates(ctx context.Context) ([]entity.FaceTemplate, error)
	SetFaceTemplates(ctx context.Context, templates []entity.FaceTemplate, expiration time.Duration) error
	InvalidateFaceTemplates(ctx context.Context) error
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logrus.Warnf("Redis not reachable at %s: %v", redisAddr, err)
	}

	return &redisClient{client: client}
}

// GetFaceTemplates returns (nil, nil) on a cache miss.
func (r *redisClient) GetFaceTemplates(ctx context.Context) ([]entity.FaceTemplate, error) {
	raw, err := r.client.Get(ctx, faceTemplateKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get face templates from cache: %w", err)
	}

	var templates []entity.FaceTemplate
	if err := json.Unmarshal(raw, &templates); err != nil {
		return nil, fmt.Errorf("failed to decode cached face templates: %w", err)
	}

	return templates, nil
}

func (r *redisClient) SetFaceTemplates(ctx context.Context, templates []entity.FaceTemplate, expiration time.Duration) error {
	raw, err := json.Marshal(templates)
	if err != nil {
		return fmt.Errorf("failed to encode face templates: %w", err)
	}

	if err := r.client.Set(ctx, faceTemplateKey, raw, expiration).Err(); err != nil {
		return fmt.Errorf("failed to cache face templates: %w", err)
	}

	return nil
}

func (r *redisClient) InvalidateFaceTemplates(ctx context.Context) error {
	if err := r.client.Del(ctx, faceTemplateKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate face template cache: %w", err)
	}

	return nil
}
