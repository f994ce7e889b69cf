package clone

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/book-expert/logger"

	"github.com/soni0021/manim-narrator/internal/core"
)

// Probe and model warm-up timeouts. Availability probes must stay cheap; the
// first real synthesis bears the model-load cost on the sidecar side.
const (
	availabilityTimeout = 2 * time.Second
	warmupTimeout       = 60 * time.Second

	defaultBaseURL  = "http://localhost:8020"
	defaultLanguage = "hi"

	audioFilePerm = 0o600
)

// ErrEmptyText indicates a synthesis request without text.
var ErrEmptyText = errors.New("text cannot be empty")

// Config holds the cloning backend settings.
type Config struct {
	// BaseURL is the sidecar address, e.g. "http://localhost:8020".
	BaseURL string `toml:"base_url"`
	// TimeoutSeconds bounds one synthesis request. Long lines on a cold
	// model can take tens of seconds.
	TimeoutSeconds int `toml:"timeout_seconds"`
	// SplitSentences asks the sidecar to chunk long text internally.
	SplitSentences bool `toml:"split_sentences"`
}

// Backend is the voice-cloning adapter. It is stateful in the sense that the
// sidecar keeps its model resident; the adapter warms it up once and reuses
// the same connection pool for every request afterwards.
type Backend struct {
	client   *Client
	log      *logger.Logger
	warmOnce sync.Once
}

// New creates the cloning backend.
func New(cfg Config, log *logger.Logger) *Backend {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = warmupTimeout
	}

	return &Backend{
		client:   NewClient(cfg.BaseURL, timeout),
		log:      log,
		warmOnce: sync.Once{},
	}
}

// NewWithClient creates the backend with an injected client, for tests.
func NewWithClient(client *Client, log *logger.Logger) *Backend {
	return &Backend{client: client, log: log, warmOnce: sync.Once{}}
}

// ID identifies this backend to the manager.
func (b *Backend) ID() core.BackendID {
	return core.BackendClone
}

// Available probes the sidecar's health endpoint with a short timeout.
// A stopped sidecar is a normal skip condition, not an error.
func (b *Backend) Available() bool {
	ctx, cancel := context.WithTimeout(context.Background(), availabilityTimeout)
	defer cancel()

	return b.client.HealthCheck(ctx) == nil
}

// Synthesize renders text to a WAV file at outputPath, cloning the timbre of
// opts.ReferenceWAV when that recording exists. A missing reference selects
// the sidecar's default voice; it never fails the request.
func (b *Backend) Synthesize(ctx context.Context, text, outputPath string, opts core.SynthesisOptions) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}

	b.warmUp()

	language := opts.Language
	if language == "" {
		language = defaultLanguage
	}

	req := Request{
		Text:           text,
		SpeakerRefPath: b.referencePath(opts),
		Language:       language,
		Temperature:    opts.Temperature,
		Speed:          opts.Speed,
		SplitSentences: true,
	}

	audioData, err := b.client.GenerateSpeech(ctx, req)
	if err != nil {
		return fmt.Errorf("cloning synthesis failed: %w", err)
	}

	if err := os.WriteFile(outputPath, audioData, audioFilePerm); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	b.log.Info("Cloning sidecar synthesized %d bytes", len(audioData))

	return nil
}

// Status describes the backend for reporting surfaces.
func (b *Backend) Status() core.BackendStatus {
	return core.BackendStatus{
		Available:    b.Available(),
		Name:         "CLONE",
		Features:     []string{"voice_cloning", "multilingual", "high_quality"},
		Requirements: "local XTTS sidecar running",
		APIKeySet:    false,
	}
}

// warmUp pings the sidecar once with a generous timeout so the first real
// synthesis does not also pay the connection setup cost. The model itself
// loads lazily on the sidecar's first generate call and stays resident.
func (b *Backend) warmUp() {
	b.warmOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), warmupTimeout)
		defer cancel()

		if err := b.client.HealthCheck(ctx); err != nil {
			b.log.Warn("Cloning sidecar warm-up probe failed: %v", err)

			return
		}

		b.log.Info("Cloning sidecar ready")
	})
}

// referencePath returns the reference recording path when the file exists,
// empty otherwise.
func (b *Backend) referencePath(opts core.SynthesisOptions) string {
	if opts.ReferenceWAV == "" {
		return ""
	}

	if _, err := os.Stat(opts.ReferenceWAV); err != nil {
		b.log.Warn("Speaker reference audio not found, using default voice: %s", opts.ReferenceWAV)

		return ""
	}

	return opts.ReferenceWAV
}
