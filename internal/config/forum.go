// Package config loads the forum's YAML configuration: site identity,
// feature flags and per-listing page sizes.
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"forum-reader/internal/usecase/listing"
)

// ForumConfig represents the forum configuration file.
type ForumConfig struct {
	App struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		BaseURL     string `yaml:"base_url"`
	} `yaml:"app"`
	Features struct {
		DisableAccepting bool `yaml:"disable_accepting"`
		ForceSingleURL   bool `yaml:"force_single_url"`
	} `yaml:"features"`
	Pagination struct {
		Questions PageSizeConfig `yaml:"questions"`
		Answers   PageSizeConfig `yaml:"answers"`
		Tags      PageSizeConfig `yaml:"tags"`
	} `yaml:"pagination"`
	Feeds struct {
		MaxItems int `yaml:"max_items"`
	} `yaml:"feeds"`
}

// PageSizeConfig lists the page sizes of one listing type. Empty values
// keep the built-in sizes.
type PageSizeConfig struct {
	Allowed []int `yaml:"allowed"`
	Default int   `yaml:"default"`
}

// PageSizes converts the section for listing.NewContexts.
func (p PageSizeConfig) PageSizes() listing.PageSizes {
	return listing.PageSizes{Allowed: slices.Clone(p.Allowed), Default: p.Default}
}

// DefaultForumConfig returns the configuration used when no file is given.
func DefaultForumConfig() *ForumConfig {
	var c ForumConfig
	c.App.Title = "Forum"
	c.App.Description = "Questions and answers"
	c.App.BaseURL = "http://localhost:8080"
	return &c
}

// LoadForumConfig loads the forum configuration from a YAML file. Keys
// missing from the file keep their DefaultForumConfig values.
// The path parameter is expected to come from a trusted source (environment or hardcoded default).
func LoadForumConfig(path string) (*ForumConfig, error) {
	// #nosec G304 -- path is provided by the operator, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseForumConfig(data)
}

// ParseForumConfig parses and validates YAML configuration data.
func ParseForumConfig(data []byte) (*ForumConfig, error) {
	config := DefaultForumConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

// Validate checks the loaded configuration.
func (c *ForumConfig) Validate() error {
	if strings.TrimSpace(c.App.Title) == "" {
		return fmt.Errorf("app title is required")
	}
	if c.App.BaseURL != "" && !strings.HasPrefix(c.App.BaseURL, "http://") && !strings.HasPrefix(c.App.BaseURL, "https://") {
		return fmt.Errorf("app base_url must be an http or https URL")
	}
	if c.Feeds.MaxItems < 0 {
		return fmt.Errorf("feeds max_items must not be negative")
	}

	sections := []struct {
		name string
		p    PageSizeConfig
	}{
		{"questions", c.Pagination.Questions},
		{"answers", c.Pagination.Answers},
		{"tags", c.Pagination.Tags},
	}
	for _, s := range sections {
		if err := validatePageSizes(s.p); err != nil {
			return fmt.Errorf("pagination %s: %w", s.name, err)
		}
	}
	return nil
}

func validatePageSizes(p PageSizeConfig) error {
	for _, size := range p.Allowed {
		if size < 1 {
			return fmt.Errorf("page size must be positive, got %d", size)
		}
	}
	if p.Default < 0 {
		return fmt.Errorf("default page size must not be negative")
	}
	if p.Default > 0 && len(p.Allowed) > 0 && !slices.Contains(p.Allowed, p.Default) {
		return fmt.Errorf("default page size %d is not allowed", p.Default)
	}
	return nil
}

// AcceptingEnabled reports whether accepted answers are pinned and linked.
func (c *ForumConfig) AcceptingEnabled() bool {
	return !c.Features.DisableAccepting
}
