// Package edge wraps the free Microsoft Edge neural TTS engine behind the
// uniform backend contract. It is the lightweight tier: stateless per call,
// no credential, typically sub-second to a few seconds per line.
package edge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/book-expert/logger"
	"github.com/wujunwei928/edge-tts-go/edge_tts"

	"github.com/soni0021/manim-narrator/internal/core"
)

// Default voices for Hinglish narration. Swara handles native Devanagari and
// romanized Hindi; Neerja covers English-leaning lines with an Indian accent.
const (
	defaultHindiVoice   = "hi-IN-SwaraNeural"
	defaultEnglishVoice = "en-IN-NeerjaNeural"

	audioFilePerm = 0o600
)

// Static errors.
var (
	ErrEmptyText  = errors.New("text cannot be empty")
	ErrEmptyAudio = errors.New("engine returned empty audio data")
)

// Config holds the Edge TTS backend settings.
type Config struct {
	// HindiVoice is used for Hindi and mixed-script narration.
	HindiVoice string `toml:"hindi_voice"`
	// EnglishVoice is used when the request asks for English narration.
	EnglishVoice string `toml:"english_voice"`
	// Disabled turns the backend off without uninstalling anything.
	Disabled bool `toml:"disabled"`
}

// Backend is the Edge TTS adapter.
type Backend struct {
	cfg Config
	log *logger.Logger
}

// New creates the Edge TTS backend, filling in default voices.
func New(cfg Config, log *logger.Logger) *Backend {
	if cfg.HindiVoice == "" {
		cfg.HindiVoice = defaultHindiVoice
	}

	if cfg.EnglishVoice == "" {
		cfg.EnglishVoice = defaultEnglishVoice
	}

	return &Backend{cfg: cfg, log: log}
}

// ID identifies this backend to the manager.
func (b *Backend) ID() core.BackendID {
	return core.BackendEdge
}

// Available reports whether the backend may be attempted. The engine library
// is compiled in and needs no credential, so only the config switch can turn
// it off; network failures surface as synthesis errors instead.
func (b *Backend) Available() bool {
	return !b.cfg.Disabled
}

// Synthesize renders text to an audio file at outputPath. Every engine error
// is returned, never propagated as a panic, so a failing engine looks the
// same to the manager as an unavailable one.
func (b *Backend) Synthesize(ctx context.Context, text, outputPath string, opts core.SynthesisOptions) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("synthesis canceled before start: %w", err)
	}

	voice := b.voiceFor(opts)

	communicate, err := edge_tts.NewCommunicate(text, edge_tts.SetVoice(voice))
	if err != nil {
		return fmt.Errorf("failed to create Edge TTS communicator: %w", err)
	}

	audioData, err := communicate.Stream()
	if err != nil {
		return fmt.Errorf("Edge TTS synthesis failed: %w", err)
	}

	if len(audioData) == 0 {
		return ErrEmptyAudio
	}

	if err := os.WriteFile(outputPath, audioData, audioFilePerm); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	b.log.Info("Edge TTS synthesized %d bytes with voice %s", len(audioData), voice)

	return nil
}

// Status describes the backend for reporting surfaces.
func (b *Backend) Status() core.BackendStatus {
	return core.BackendStatus{
		Available:    b.Available(),
		Name:         "EDGE",
		Features:     []string{"fast", "simple", "free"},
		Requirements: "network access to the Edge TTS endpoint",
		APIKeySet:    false,
	}
}

func (b *Backend) voiceFor(opts core.SynthesisOptions) string {
	if strings.HasPrefix(opts.Language, "en") {
		return b.cfg.EnglishVoice
	}

	return b.cfg.HindiVoice
}
