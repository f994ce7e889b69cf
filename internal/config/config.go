// Package config provides the configuration structure for the narration
// service.
package config

import (
	"fmt"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"

	"github.com/soni0021/manim-narrator/internal/backend/clone"
	"github.com/soni0021/manim-narrator/internal/backend/edge"
	"github.com/soni0021/manim-narrator/internal/backend/eleven"
)

// NATSConfig holds the connection settings for the job transport.
type NATSConfig struct {
	URL                   string `toml:"url"`
	NarrationStreamName   string `toml:"narration_stream_name"`
	NarrationConsumerName string `toml:"narration_consumer_name"`
	NarrationJobSubject   string `toml:"narration_job_subject"`
	NarrationDoneSubject  string `toml:"narration_done_subject"`
	AudioBucket           string `toml:"audio_bucket"`
}

// PathsConfig holds the on-disk layout.
type PathsConfig struct {
	BaseLogsDir        string `toml:"base_logs_dir"`
	CacheDir           string `toml:"cache_dir"`
	ReferenceVoicesDir string `toml:"reference_voices_dir"`
}

// BackendsConfig groups the per-engine settings. Credentials are never read
// from here; the cloud engine takes its key from the environment.
type BackendsConfig struct {
	Edge   edge.Config   `toml:"edge"`
	Clone  clone.Config  `toml:"clone"`
	Eleven eleven.Config `toml:"eleven"`
}

// Config is the root configuration structure.
type Config struct {
	NATS     NATSConfig     `toml:"nats"`
	Paths    PathsConfig    `toml:"paths"`
	Backends BackendsConfig `toml:"backends"`
}

// Load loads the configuration for the narration service.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	return &cfg, nil
}
