package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	t.Setenv("TEST_INT", " 42 ")
	t.Setenv("TEST_BAD_INT", "forty")
	t.Setenv("TEST_BOOL", "false")
	t.Setenv("TEST_BAD_BOOL", "maybe")
	t.Setenv("TEST_DUR", "90s")
	t.Setenv("TEST_BAD_DUR", "soon")
	t.Setenv("TEST_FLOAT", "0.25")

	assert.Equal(t, "value", GetEnvString("TEST_STR", "def"))
	assert.Equal(t, "def", GetEnvString("TEST_UNSET", "def"))
	assert.Equal(t, 42, GetEnvInt("TEST_INT", 1))
	assert.Equal(t, 1, GetEnvInt("TEST_BAD_INT", 1))
	assert.False(t, GetEnvBool("TEST_BOOL", true))
	assert.True(t, GetEnvBool("TEST_BAD_BOOL", true))
	assert.Equal(t, 90*time.Second, GetEnvDuration("TEST_DUR", time.Second))
	assert.Equal(t, time.Second, GetEnvDuration("TEST_BAD_DUR", time.Second))
	assert.InDelta(t, 0.25, GetEnvFloat("TEST_FLOAT", 1), 1e-9)
}

func TestValidateCronSchedule(t *testing.T) {
	tests := []struct {
		schedule string
		wantErr  bool
	}{
		{"*/5 * * * *", false},
		{"@every 5m", false},
		{"@hourly", false},
		{"", true},
		{"* * *", true},
		{"61 * * * *", true},
	}
	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadServerConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{"PORT", "LOG_LEVEL", "RATELIMIT_ENABLED", "RATELIMIT_FEED_PER_MINUTE", "JANITOR_SCHEDULE", "SHUTDOWN_TIMEOUT"} {
			t.Setenv(key, "")
		}
		c := LoadServerConfig()
		assert.Equal(t, 8080, c.Port)
		assert.Equal(t, "info", c.LogLevel)
		assert.True(t, c.RateLimit.Enabled)
		assert.Equal(t, 60, c.RateLimit.PerMinute)
		assert.Equal(t, "@every 5m", c.JanitorSchedule)
		assert.Equal(t, 10*time.Second, c.ShutdownTimeout)
	})

	t.Run("invalid values fall back", func(t *testing.T) {
		t.Setenv("PORT", "70000")
		t.Setenv("TRACE_SAMPLE_RATIO", "2")
		t.Setenv("RATELIMIT_FEED_BURST", "0")
		t.Setenv("JANITOR_SCHEDULE", "whenever")
		t.Setenv("SHUTDOWN_TIMEOUT", "-1s")

		c := LoadServerConfig()
		assert.Equal(t, 8080, c.Port)
		assert.Equal(t, 1.0, c.TraceSampleRatio)
		assert.Equal(t, 20, c.RateLimit.Burst)
		assert.Equal(t, "@every 5m", c.JanitorSchedule)
		assert.Equal(t, 10*time.Second, c.ShutdownTimeout)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("DATABASE_URL", "file:forum.db")
		t.Setenv("RATELIMIT_ENABLED", "false")

		c := LoadServerConfig()
		assert.Equal(t, 9090, c.Port)
		assert.Equal(t, "file:forum.db", c.DatabaseURL)
		assert.False(t, c.RateLimit.Enabled)
	})
}
