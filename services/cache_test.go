package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/Harish-hex/SIH-HealthTwin/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache, err := NewCacheService(config.RedisConfig{
		Host: mr.Host(), Port: atoiPort(t, mr.Port()), ConnectAttempts: 1,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func atoiPort(t *testing.T, s string) int {
	t.Helper()
	n, err := strconv.Atoi(s)
	require.NoError(t, err)
	return n
}

func TestCacheSetGetDelete(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		Total int `json:"total"`
	}
	require.NoError(t, cache.Set(ctx, DashboardCacheKey, payload{Total: 3}, time.Minute))

	var got payload
	found, err := cache.Get(ctx, DashboardCacheKey, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 3, got.Total)

	mr.FastForward(2 * time.Minute)
	found, err = cache.Get(ctx, DashboardCacheKey, &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, StatisticsCacheKey("Assam"), payload{Total: 1}, time.Minute))
	require.NoError(t, cache.Delete(ctx, DashboardCacheKey, StatisticsCacheKey("Assam")))
	assert.False(t, mr.Exists(StatisticsCacheKey("Assam")))
}

func TestCachePublishSubscribe(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	sub := cache.Subscribe(ctx, AlertChannel)
	require.NotNil(t, sub)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, cache.Publish(ctx, AlertChannel, AlertEvent{AlertID: 9, Level: "HIGH"}))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Contains(t, msg.Payload, `"alert_id":9`)
}

func TestCacheUnavailableIsNoop(t *testing.T) {
	cache := &CacheService{}
	ctx := context.Background()

	assert.False(t, cache.Available())
	found, err := cache.Get(ctx, "k", &struct{}{})
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, cache.Set(ctx, "k", 1, time.Second))
	assert.NoError(t, cache.Delete(ctx, "k"))
	assert.NoError(t, cache.Publish(ctx, AlertChannel, "x"))
	assert.Nil(t, cache.Subscribe(ctx, AlertChannel))
	assert.Error(t, cache.Ping(ctx))
	assert.NoError(t, cache.Close())
}

func TestNewCacheServiceUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	port := atoiPort(t, mr.Port())
	mr.Close()

	cache, err := NewCacheService(config.RedisConfig{Host: "127.0.0.1", Port: port, ConnectAttempts: 1}, nil)
	assert.Error(t, err)
	require.NotNil(t, cache)
	assert.False(t, cache.Available())
}
