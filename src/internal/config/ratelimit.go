// FILE: jsonsieve/src/internal/config/ratelimit.go
package config

import "fmt"

// RateLimitConfig limits requests per client address on the network listeners
type RateLimitConfig struct {
	Enabled bool `toml:"enabled"`

	// Requests per second per client
	RequestsPerSecond float64 `toml:"requests_per_second"`

	// Burst size (token bucket)
	BurstSize int64 `toml:"burst_size"`

	// Idle client limiters are dropped after this many seconds
	CleanupIntervalS int64 `toml:"cleanup_interval_s"`

	// Response when rate limited
	ResponseCode    int64  `toml:"response_code"`
	ResponseMessage string `toml:"response_message"`
}

func validateRateLimit(cfg *RateLimitConfig) error {
	if !cfg.Enabled {
		return nil
	}

	if cfg.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate limit requests_per_second must be positive: %g", cfg.RequestsPerSecond)
	}

	if cfg.BurstSize < 1 {
		return fmt.Errorf("rate limit burst_size must be at least 1: %d", cfg.BurstSize)
	}

	if cfg.CleanupIntervalS < 1 {
		return fmt.Errorf("rate limit cleanup_interval_s must be positive: %d", cfg.CleanupIntervalS)
	}

	if cfg.ResponseCode < 400 || cfg.ResponseCode > 599 {
		return fmt.Errorf("rate limit response_code must be a 4xx or 5xx status: %d", cfg.ResponseCode)
	}

	return nil
}
