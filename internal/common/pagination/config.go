// Package pagination provides the sort/paginate/feed engine shared by every
// listing: named sort strategies, paginator contexts with allowed page
// sizes, request resolution with stored per-caller preferences, page
// slicing over lazy queries and link builders for navigation.
package pagination

import (
	"os"
	"strconv"
	"time"
)

// Query parameter names understood by every paginator context. A context
// prefix is prepended when several paginators share one page.
const (
	ParamSort     = "sort"
	ParamPage     = "page"
	ParamPageSize = "pagesize"
)

// Config holds engine-wide pagination settings.
// These values can be loaded from environment variables or config files.
type Config struct {
	FeedMaxItems     int           // Upper bound on items in any syndication feed
	PreferenceTTL    time.Duration // Lifetime of a stored sort/page-size preference
	HottestWindow    time.Duration // Trailing window counted by the hottest sort
	NavigationWindow int           // Page links shown on each side of the current page
}

// DefaultConfig returns the default pagination configuration.
// Default values: feed=30 items, preference TTL=30 days, hottest window=24h, window=3
func DefaultConfig() Config {
	return Config{
		FeedMaxItems:     30,
		PreferenceTTL:    30 * 24 * time.Hour,
		HottestWindow:    24 * time.Hour,
		NavigationWindow: 3,
	}
}

// LoadFromEnv loads pagination config from environment variables.
// Supported environment variables:
//   - PAGINATION_FEED_MAX_ITEMS: Maximum items per feed
//   - PAGINATION_PREFERENCE_TTL: Preference lifetime (Go duration)
//   - PAGINATION_HOTTEST_WINDOW: Hottest sort window (Go duration)
//   - PAGINATION_NAVIGATION_WINDOW: Page links on each side of the current page
//
// Falls back to DefaultConfig() values for unset or invalid variables.
func LoadFromEnv() Config {
	def := DefaultConfig()
	return Config{
		FeedMaxItems:     getEnvAsInt("PAGINATION_FEED_MAX_ITEMS", def.FeedMaxItems),
		PreferenceTTL:    getEnvAsDuration("PAGINATION_PREFERENCE_TTL", def.PreferenceTTL),
		HottestWindow:    getEnvAsDuration("PAGINATION_HOTTEST_WINDOW", def.HottestWindow),
		NavigationWindow: getEnvAsInt("PAGINATION_NAVIGATION_WINDOW", def.NavigationWindow),
	}
}

// getEnvAsInt retrieves an environment variable and parses it as a positive integer.
// Returns the default value if the variable is not set or cannot be parsed.
func getEnvAsInt(key string, defaultValue int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		return defaultValue
	}
	return val
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := time.ParseDuration(valStr)
	if err != nil || val <= 0 {
		return defaultValue
	}
	return val
}
