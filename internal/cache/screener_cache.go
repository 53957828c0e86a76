package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"screener/internal/model"

	"github.com/redis/go-redis/v9"
)

// ScreenerCache handles Redis operations for screener documents
type ScreenerCache interface {
	Get(ctx context.Context, id string) (*model.Screener, error)
	Set(ctx context.Context, screener *model.Screener) error
	Delete(ctx context.Context, id string) error
}

type screenerCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewScreenerCache creates a new screener cache
func NewScreenerCache(client *redis.Client, ttl time.Duration) ScreenerCache {
	return &screenerCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *screenerCache) key(id string) string {
	return fmt.Sprintf("screener:%s", id)
}

func (c *screenerCache) Get(ctx context.Context, id string) (*model.Screener, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var screener model.Screener
	if err := json.Unmarshal(data, &screener); err != nil {
		return nil, err
	}
	return &screener, nil
}

func (c *screenerCache) Set(ctx context.Context, screener *model.Screener) error {
	data, err := json.Marshal(screener)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(screener.ID), data, c.ttl).Err()
}

func (c *screenerCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
