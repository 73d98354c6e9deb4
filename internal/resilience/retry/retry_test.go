package retry

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// instant records requested delays and never waits.
type instant struct {
	delays []time.Duration
}

func (i *instant) after(d time.Duration) <-chan time.Time {
	i.delays = append(i.delays, d)
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

func testConfig() Config {
	return Config{
		Name:         "test",
		MaxAttempts:  4,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     300 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestWithBackoff(t *testing.T) {
	refused := fmt.Errorf("dial tcp 127.0.0.1:5432: %w", syscall.ECONNREFUSED)

	tests := []struct {
		name         string
		failures     int
		err          error
		wantAttempts int
		wantErr      bool
		wantDelays   []time.Duration
	}{
		{name: "first attempt succeeds", wantAttempts: 1},
		{name: "succeeds after refused connections", failures: 2, err: refused, wantAttempts: 3,
			wantDelays: []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}},
		{name: "gives up after max attempts", failures: 10, err: refused, wantAttempts: 4, wantErr: true,
			wantDelays: []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond}},
		{name: "non retryable error stops at once", failures: 10, err: errors.New("password authentication failed"),
			wantAttempts: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &instant{}
			attempts := 0
			err := withBackoff(context.Background(), testConfig(), func() error {
				attempts++
				if attempts <= tt.failures {
					return tt.err
				}
				return nil
			}, clock.after)

			assert.Equal(t, tt.wantAttempts, attempts)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantDelays, clock.delays)
		})
	}
}

func TestWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	never := func(time.Duration) <-chan time.Time { return nil }
	err := withBackoff(ctx, testConfig(), func() error { return syscall.ECONNRESET }, never)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"refused", syscall.ECONNREFUSED, true},
		{"wrapped reset", fmt.Errorf("read: %w", syscall.ECONNRESET), true},
		{"network timeout", timeoutErr{}, true},
		{"cancelled", context.Canceled, false},
		{"deadline", fmt.Errorf("ping: %w", context.DeadlineExceeded), false},
		{"other", errors.New("syntax error"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestAddJitter(t *testing.T) {
	assert.Equal(t, time.Second, addJitter(time.Second, 0))
	for range 20 {
		d := addJitter(time.Second, 0.5)
		assert.GreaterOrEqual(t, d, time.Second)
		assert.LessOrEqual(t, d, 1500*time.Millisecond)
	}
}

func TestStartupConfig(t *testing.T) {
	cfg := StartupConfig("redis")
	assert.Equal(t, "redis", cfg.Name)
	assert.Greater(t, cfg.MaxAttempts, 1)
	assert.Equal(t, 3, DefaultConfig().MaxAttempts)
}
