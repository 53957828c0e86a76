package cache

import (
	"context"
	"testing"
	"time"

	"screener/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestReferenceCache_RoundTrip(t *testing.T) {
	_, client := createTestRedis(t)
	c := NewReferenceCache(client, time.Minute)
	ctx := context.Background()

	snapshot := &ReferenceSnapshot{
		Mappings: []model.DomainMapping{{QuestionID: "question_a", Domain: "depression"}},
		Criteria: []model.AssessmentCriteria{{Domain: "depression", Threshold: 2, Assessment: "PHQ-9"}},
	}
	require.NoError(t, c.Set(ctx, snapshot))

	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot, got)
}

func TestReferenceCache_Miss(t *testing.T) {
	_, client := createTestRedis(t)
	c := NewReferenceCache(client, time.Minute)

	got, err := c.Get(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestReferenceCache_Expires(t *testing.T) {
	mr, client := createTestRedis(t)
	c := NewReferenceCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, &ReferenceSnapshot{}))
	mr.FastForward(2 * time.Minute)

	got, err := c.Get(ctx)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestReferenceCache_Invalidate(t *testing.T) {
	mr, client := createTestRedis(t)
	c := NewReferenceCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, &ReferenceSnapshot{}))
	require.NoError(t, c.Invalidate(ctx))
	assert.False(t, mr.Exists(referenceKey))
}

func TestReferenceCache_Corrupt(t *testing.T) {
	mr, client := createTestRedis(t)
	c := NewReferenceCache(client, time.Minute)

	require.NoError(t, mr.Set(referenceKey, "not json"))
	_, err := c.Get(context.Background())
	assert.Error(t, err)
}

func TestReferenceCache_Unreachable(t *testing.T) {
	mr, client := createTestRedis(t)
	c := NewReferenceCache(client, time.Minute)
	mr.Close()

	_, err := c.Get(context.Background())
	assert.Error(t, err)
}

func TestScreenerCache_RoundTrip(t *testing.T) {
	mr, client := createTestRedis(t)
	c := NewScreenerCache(client, time.Minute)
	ctx := context.Background()

	screener := &model.Screener{ID: "abcd-123", Name: "BPDS", Disorder: "Cross-Cutting"}
	require.NoError(t, c.Set(ctx, screener))
	assert.True(t, mr.Exists("screener:abcd-123"))

	got, err := c.Get(ctx, "abcd-123")
	require.NoError(t, err)
	assert.Equal(t, screener, got)

	require.NoError(t, c.Delete(ctx, "abcd-123"))
	got, err = c.Get(ctx, "abcd-123")
	assert.NoError(t, err)
	assert.Nil(t, got)
}
