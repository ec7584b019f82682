package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryState_Increment(t *testing.T) {
	tests := map[string]struct {
		maxRetries   int
		increments   int
		wantCount    int
		wantErr      bool
		wantCanRetry bool
	}{
		"no retries allowed": {
			maxRetries:   0,
			increments:   1,
			wantCount:    0,
			wantErr:      true,
			wantCanRetry: false,
		},
		"within limit": {
			maxRetries:   3,
			increments:   2,
			wantCount:    2,
			wantCanRetry: true,
		},
		"reaches limit": {
			maxRetries:   2,
			increments:   2,
			wantCount:    2,
			wantCanRetry: false,
		},
		"exceeds limit": {
			maxRetries:   2,
			increments:   3,
			wantCount:    2,
			wantErr:      true,
			wantCanRetry: false,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			state := NewState("/data/project", tc.maxRetries)
			var err error
			for i := 0; i < tc.increments; i++ {
				err = state.Increment()
			}
			if tc.wantErr {
				var exhausted *RetryExhaustedError
				require.True(t, errors.As(err, &exhausted))
				assert.Contains(t, exhausted.Error(), "/data/project")
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.wantCount, state.Count)
			assert.Equal(t, tc.wantCanRetry, state.CanRetry())
		})
	}
}

func TestRetryState_Reset(t *testing.T) {
	state := NewState("x", 2)
	require.NoError(t, state.Increment())
	assert.False(t, state.LastAttempt.IsZero())

	state.Reset()
	assert.Equal(t, 0, state.Count)
	assert.True(t, state.LastAttempt.IsZero())
}

func TestBackoff(t *testing.T) {
	tests := map[string]struct {
		base    time.Duration
		attempt int
		want    time.Duration
	}{
		"first retry uses base":  {base: 100 * time.Millisecond, attempt: 1, want: 100 * time.Millisecond},
		"doubles":                {base: 100 * time.Millisecond, attempt: 3, want: 400 * time.Millisecond},
		"capped":                 {base: time.Second, attempt: 10, want: maxBackoff},
		"zero base uses default": {base: 0, attempt: 1, want: DefaultBackoff},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, Backoff(tc.base, tc.attempt))
		})
	}
}

func TestDo(t *testing.T) {
	tests := map[string]struct {
		maxRetries   int
		failAttempts int // fn asks for a retry on this many leading attempts
		wantCalls    int
		wantErr      bool
	}{
		"succeeds first time": {
			maxRetries:   2,
			failAttempts: 0,
			wantCalls:    1,
		},
		"succeeds after retry": {
			maxRetries:   2,
			failAttempts: 2,
			wantCalls:    3,
		},
		"exhausted": {
			maxRetries:   1,
			failAttempts: 5,
			wantCalls:    2,
			wantErr:      true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			calls := 0
			err := Do(context.Background(), NewState("run", tc.maxRetries), time.Millisecond, func(attempt int) bool {
				assert.Equal(t, calls, attempt)
				calls++
				return attempt < tc.failAttempts
			})
			assert.Equal(t, tc.wantCalls, calls)
			if tc.wantErr {
				var exhausted *RetryExhaustedError
				assert.True(t, errors.As(err, &exhausted))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDo_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, NewState("run", 3), time.Hour, func(int) bool {
		calls++
		return true
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
