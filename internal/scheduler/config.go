package scheduler

import (
	"time"
)

// Config controls job intervals and batch sizes.
type Config struct {
	SyncInterval        time.Duration
	MetricsInterval     time.Duration
	AttributionInterval time.Duration
	JobTimeout          time.Duration
	BatchSize           int
	EnabledJobs         []string
}

func DefaultConfig() Config {
	return Config{
		SyncInterval:        3 * time.Minute,
		MetricsInterval:     3 * time.Minute,
		AttributionInterval: time.Hour,
		JobTimeout:          2 * time.Minute,
		BatchSize:           50,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.SyncInterval <= 0 {
		c.SyncInterval = defaults.SyncInterval
	}
	if c.MetricsInterval <= 0 {
		c.MetricsInterval = defaults.MetricsInterval
	}
	if c.AttributionInterval <= 0 {
		c.AttributionInterval = defaults.AttributionInterval
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaults.BatchSize
	}
	return c
}
