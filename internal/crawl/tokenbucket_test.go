package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gocrawl/internal/crawl"
)

func TestHostLimiterAdmitsBurstImmediately(t *testing.T) {
	limiter := crawl.NewHostLimiter()
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 4; i++ {
		require.NoError(t, limiter.Wait(ctx, "example.com"))
	}
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestHostLimiterTracksHostsIndependently(t *testing.T) {
	limiter := crawl.NewHostLimiter()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, limiter.Wait(ctx, "a.example.com"))
	}

	start := time.Now()
	require.NoError(t, limiter.Wait(ctx, "b.example.com"))
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestHostLimiterRespectsContextCancellation(t *testing.T) {
	limiter := crawl.NewHostLimiter()
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		require.NoError(t, limiter.Wait(ctx, "throttled.example.com"))
	}

	cancelCtx, cancel := context.WithCancel(context.Background())
	cancel()
	err := limiter.Wait(cancelCtx, "throttled.example.com")
	require.Error(t, err)
}
