package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastSleep records requested delays without actually sleeping.
func fastSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestDoVal_SucceedsFirstTry(t *testing.T) {
	calls := 0
	val, err := DoVal(context.Background(), RetryConfig{MaxAttempts: 4}, func(context.Context) (int, error) {
		calls++
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, val)
	assert.Equal(t, 1, calls)
}

func TestDoVal_RetriesRateLimitFourTotalAttempts(t *testing.T) {
	var delays []time.Duration
	calls := 0

	_, err := DoVal(context.Background(), RetryConfig{Sleep: fastSleep(&delays)}, func(context.Context) (int, error) {
		calls++
		return 0, NewRateLimitError(eris.New("429 too many requests"))
	})

	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.Equal(t, 4, calls, "1 initial attempt + 3 retries")
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}, delays)
}

func TestDoVal_NonRateLimitErrorNotRetried(t *testing.T) {
	calls := 0
	_, err := DoVal(context.Background(), RetryConfig{}, func(context.Context) (int, error) {
		calls++
		return 0, eris.New("malformed response")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoVal_RecoversMidway(t *testing.T) {
	var delays []time.Duration
	calls := 0

	val, err := DoVal(context.Background(), RetryConfig{Sleep: fastSleep(&delays)}, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, NewRateLimitError(eris.New("throttled"))
		}
		return 7, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 7, val)
	assert.Equal(t, 3, calls)
	assert.Len(t, delays, 2)
}

func TestDoVal_ContextCancelStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	_, err := DoVal(ctx, RetryConfig{}, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, NewRateLimitError(eris.New("throttled"))
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestIsRateLimited_WrappedChain(t *testing.T) {
	inner := NewRateLimitError(eris.New("429"))
	wrapped := eris.Wrap(inner, "search shopify")

	assert.True(t, IsRateLimited(wrapped))
	assert.False(t, IsRateLimited(eris.New("500 internal")))
	assert.False(t, IsRateLimited(nil))
}
