// Package clone wraps the resident voice-cloning engine (a local XTTS
// sidecar) behind the uniform backend contract. The sidecar keeps the model
// loaded between requests; this adapter speaks its JSON-over-HTTP API.
package clone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// API endpoints.
const (
	apiGenerateSpeech = "/v1/generate/speech"
	apiHealth         = "/health"
)

// HTTP headers.
const (
	headerContentType = "Content-Type"
	headerAccept      = "Accept"
	contentTypeJSON   = "application/json"
	contentTypeWAV    = "audio/wav"
)

// Static errors.
var (
	ErrEmptyAudioResponse = errors.New("received empty audio data")
	ErrUnexpectedContent  = errors.New("unexpected response content type")
)

// Request is the JSON payload the sidecar accepts for one synthesis call.
type Request struct {
	// Text is the adapted narration text to synthesize.
	Text string `json:"text"`

	// SpeakerRefPath optionally names a sidecar-visible reference recording
	// for timbre cloning. Empty selects the default voice.
	SpeakerRefPath string `json:"speaker_ref_path,omitempty"`

	// Language is the synthesis language code.
	Language string `json:"language"`

	// Temperature controls sampling randomness.
	Temperature float64 `json:"temperature"`

	// Speed is the speaking-rate multiplier.
	Speed float64 `json:"speed,omitempty"`

	// SplitSentences asks the sidecar to chunk long text internally.
	SplitSentences bool `json:"split_sentences"`
}

// errorResponse is the sidecar's structured error payload.
type errorResponse struct {
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code,omitempty"`
}

// Client is an HTTP client for the cloning sidecar.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client for the sidecar at baseURL (protocol and port
// included). The timeout applies to every request, synthesis included.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// GenerateSpeech posts a synthesis request and returns the WAV bytes.
func (c *Client) GenerateSpeech(ctx context.Context, req Request) ([]byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode synthesis request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+apiGenerateSpeech, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set(headerContentType, contentTypeJSON)
	httpReq.Header.Set(headerAccept, contentTypeWAV)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach cloning sidecar: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseErrorResponse(resp)
	}

	if contentType := resp.Header.Get(headerContentType); !strings.HasPrefix(contentType, contentTypeWAV) {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrUnexpectedContent, contentTypeWAV, contentType)
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio response: %w", err)
	}

	if len(audioData) == 0 {
		return nil, ErrEmptyAudioResponse
	}

	return audioData, nil
}

// HealthCheck probes the sidecar's health endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiHealth, nil)
	if err != nil {
		return fmt.Errorf("failed to create health request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to reach cloning sidecar: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sidecar health check returned status: %s", resp.Status)
	}

	return nil
}

func (c *Client) parseErrorResponse(resp *http.Response) error {
	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return fmt.Errorf("sidecar returned status %s", resp.Status)
	}

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Detail == "" {
		return fmt.Errorf("sidecar returned status %s, body: %s", resp.Status, string(body))
	}

	return fmt.Errorf("sidecar error (%s): %s (code: %s)", resp.Status, errResp.Detail, errResp.ErrorCode)
}
