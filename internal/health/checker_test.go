package health_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-pos/internal/health"
)

func TestDepsPing(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	deps := health.Deps{Redis: client}
	require.NoError(t, deps.PingRedis(context.Background(), time.Second))
	require.EqualError(t, deps.PingDB(context.Background(), time.Second), "db not configured")

	mr.Close()
	require.Error(t, deps.PingRedis(context.Background(), 100*time.Millisecond))
}
