package cache

import (
	"context"
	"encoding/json"
	"time"

	"screener/internal/model"

	"github.com/redis/go-redis/v9"
)

const referenceKey = "reference:snapshot"

// ReferenceSnapshot is the cached copy of both reference tables
type ReferenceSnapshot struct {
	Mappings []model.DomainMapping      `json:"domain_mappings"`
	Criteria []model.AssessmentCriteria `json:"assessment_criteria"`
}

// ReferenceCache handles Redis operations for domain mappings and assessment criteria
type ReferenceCache interface {
	Get(ctx context.Context) (*ReferenceSnapshot, error)
	Set(ctx context.Context, snapshot *ReferenceSnapshot) error
	Invalidate(ctx context.Context) error
}

type referenceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReferenceCache creates a new reference cache
func NewReferenceCache(client *redis.Client, ttl time.Duration) ReferenceCache {
	return &referenceCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns nil, nil on a cache miss
func (c *referenceCache) Get(ctx context.Context) (*ReferenceSnapshot, error) {
	data, err := c.client.Get(ctx, referenceKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snapshot ReferenceSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (c *referenceCache) Set(ctx context.Context, snapshot *ReferenceSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, referenceKey, data, c.ttl).Err()
}

func (c *referenceCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, referenceKey).Err()
}
