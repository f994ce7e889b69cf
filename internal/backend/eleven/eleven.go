// Package eleven wraps the ElevenLabs cloud TTS API behind the uniform
// backend contract. It is the premium tier: highest fidelity, paid, and
// gated on an API key that is read from the environment only.
package eleven

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/book-expert/logger"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/soni0021/manim-narrator/internal/core"
)

// Environment variables.
const (
	// EnvAPIKey names the environment variable holding the ElevenLabs API
	// key. The key is never read from a config file.
	EnvAPIKey = "ELEVENLABS_API_KEY"
)

// API constants.
const (
	defaultBaseURL = "https://api.elevenlabs.io"
	apiSpeechPath  = "/v1/text-to-speech/"

	// outputFormat requests raw mono PCM at the pipeline's sample rate. The
	// stream is headerless S16LE, so the adapter wraps it in a RIFF/WAV
	// container before writing it out.
	outputFormat     = "pcm_22050"
	outputSampleRate = 22050
	outputBitDepth   = 16
	outputChannels   = 1

	headerAPIKey      = "xi-api-key"
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"

	defaultTimeout = 60 * time.Second
	audioFilePerm  = 0o600
)

// Default voice and model, matching the narration pipeline's house voice.
const (
	defaultVoiceID = "pNInz6obpgDQGcFmaJgB"
	defaultModelID = "eleven_multilingual_v2"

	defaultStability       = 0.5
	defaultSimilarityBoost = 0.75
)

// Static errors.
var (
	ErrEmptyText      = errors.New("text cannot be empty")
	ErrNoAPIKey       = errors.New("ELEVENLABS_API_KEY is not set")
	ErrEmptyResponse  = errors.New("received empty audio data")
	ErrTruncatedAudio = errors.New("received truncated PCM audio data")
)

// Config holds the ElevenLabs backend settings. The credential is
// deliberately absent: it comes from the environment at call time.
type Config struct {
	// BaseURL overrides the API host, for tests.
	BaseURL string `toml:"base_url"`
	// VoiceID selects the narration voice.
	VoiceID string `toml:"voice_id"`
	// ModelID selects the synthesis model.
	ModelID string `toml:"model_id"`
	// TimeoutSeconds bounds one API request.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// voiceSettings mirrors the API's voice tuning payload.
type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// speechRequest is the JSON body for a synthesis call.
type speechRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Backend is the ElevenLabs adapter. Stateless per call from the caller's
// perspective; the HTTP client's connection pool is the only shared state.
type Backend struct {
	cfg        Config
	httpClient *http.Client
	log        *logger.Logger
}

// New creates the ElevenLabs backend, filling in API defaults.
func New(cfg Config, log *logger.Logger) *Backend {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	if cfg.VoiceID == "" {
		cfg.VoiceID = defaultVoiceID
	}

	if cfg.ModelID == "" {
		cfg.ModelID = defaultModelID
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Backend{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// ID identifies this backend to the manager.
func (b *Backend) ID() core.BackendID {
	return core.BackendEleven
}

// Available reports whether the API key is present in the environment. The
// check runs per call: credentials can appear or disappear over the life of
// the process.
func (b *Backend) Available() bool {
	return os.Getenv(EnvAPIKey) != ""
}

// Synthesize renders text through the cloud API to an audio file at
// outputPath. Network and API failures are returned as errors, never
// propagated as panics.
func (b *Backend) Synthesize(ctx context.Context, text, outputPath string, opts core.SynthesisOptions) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}

	apiKey := os.Getenv(EnvAPIKey)
	if apiKey == "" {
		return ErrNoAPIKey
	}

	voiceID := opts.VoiceID
	if voiceID == "" {
		voiceID = b.cfg.VoiceID
	}

	modelID := opts.ModelID
	if modelID == "" {
		modelID = b.cfg.ModelID
	}

	payload, err := json.Marshal(speechRequest{
		Text:    text,
		ModelID: modelID,
		VoiceSettings: voiceSettings{
			Stability:       defaultStability,
			SimilarityBoost: defaultSimilarityBoost,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to encode speech request: %w", err)
	}

	url := strings.TrimRight(b.cfg.BaseURL, "/") + apiSpeechPath + voiceID +
		"?output_format=" + outputFormat

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set(headerAPIKey, apiKey)
	httpReq.Header.Set(headerContentType, contentTypeJSON)

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to reach ElevenLabs API: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return fmt.Errorf("ElevenLabs API returned status %s: %s", resp.Status, string(body))
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read audio response: %w", err)
	}

	if len(audioData) == 0 {
		return ErrEmptyResponse
	}

	if err := writePCMAsWAV(outputPath, audioData); err != nil {
		return err
	}

	b.log.Info("ElevenLabs synthesized %d PCM bytes with voice %s", len(audioData), voiceID)

	return nil
}

// writePCMAsWAV wraps the API's headerless S16LE PCM stream in a RIFF/WAV
// container at outputPath. A failed write leaves no file behind.
func writePCMAsWAV(outputPath string, pcm []byte) error {
	if len(pcm)%2 != 0 {
		return ErrTruncatedAudio
	}

	out, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, audioFilePerm)
	if err != nil {
		return fmt.Errorf("failed to create audio file: %w", err)
	}

	samples := make([]int, len(pcm)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[2*i:])))
	}

	encoder := wav.NewEncoder(out, outputSampleRate, outputBitDepth, outputChannels, 1)

	writeErr := encoder.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: outputChannels, SampleRate: outputSampleRate},
		Data:           samples,
		SourceBitDepth: outputBitDepth,
	})
	if writeErr != nil {
		_ = encoder.Close()
		_ = out.Close()
		_ = os.Remove(outputPath)

		return fmt.Errorf("failed to encode audio file: %w", writeErr)
	}

	if err := encoder.Close(); err != nil {
		_ = out.Close()
		_ = os.Remove(outputPath)

		return fmt.Errorf("failed to finalize audio file: %w", err)
	}

	if err := out.Close(); err != nil {
		_ = os.Remove(outputPath)

		return fmt.Errorf("failed to close audio file: %w", err)
	}

	return nil
}

// Status describes the backend for reporting surfaces.
func (b *Backend) Status() core.BackendStatus {
	return core.BackendStatus{
		Available:    b.Available(),
		Name:         "ELEVEN",
		Features:     []string{"premium_quality", "voice_cloning", "api_key_required"},
		Requirements: "ELEVENLABS_API_KEY in the environment",
		APIKeySet:    os.Getenv(EnvAPIKey) != "",
	}
}
