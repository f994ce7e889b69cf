// Package eleven_test tests the premium cloud backend adapter.
package eleven_test

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/book-expert/logger"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soni0021/manim-narrator/internal/backend/eleven"
	"github.com/soni0021/manim-narrator/internal/core"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	testLogger, err := logger.New(t.TempDir(), "eleven-test.log")
	require.NoError(t, err)

	return testLogger
}

// pcmBytes encodes samples as the S16LE stream the API returns for pcm_*
// output formats.
func pcmBytes(samples ...int16) []byte {
	data := make([]byte, 2*len(samples))
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(sample))
	}

	return data
}

func TestBackend_AvailabilityFollowsEnvironment(t *testing.T) {
	backend := eleven.New(eleven.Config{}, newTestLogger(t))

	t.Setenv(eleven.EnvAPIKey, "")
	assert.False(t, backend.Available(), "no credential means unavailable, not an error")

	t.Setenv(eleven.EnvAPIKey, "key-123")
	assert.True(t, backend.Available(), "credential presence is re-checked per call")
}

func TestBackend_SynthesizeSendsKeyAndModel(t *testing.T) {
	var (
		gotAPIKey  string
		gotPath    string
		gotPayload map[string]any
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("xi-api-key")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_, _ = w.Write(pcmBytes(100, -200, 300))
	}))
	t.Cleanup(server.Close)

	t.Setenv(eleven.EnvAPIKey, "key-123")

	backend := eleven.New(eleven.Config{BaseURL: server.URL}, newTestLogger(t))

	outputPath := filepath.Join(t.TempDir(), "out.wav")
	err := backend.Synthesize(context.Background(), "physics intro", outputPath, core.SynthesisOptions{})
	require.NoError(t, err)

	assert.Equal(t, "key-123", gotAPIKey)
	assert.Equal(t, "/v1/text-to-speech/pNInz6obpgDQGcFmaJgB", gotPath)
	assert.Equal(t, "physics intro", gotPayload["text"])
	assert.Equal(t, "eleven_multilingual_v2", gotPayload["model_id"])

	// The raw PCM stream must come back out as a playable mono WAV.
	audioFile, err := os.Open(outputPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = audioFile.Close() })

	decoder := wav.NewDecoder(audioFile)
	require.True(t, decoder.IsValidFile(), "output must carry a RIFF header")

	buf, err := decoder.FullPCMBuffer()
	require.NoError(t, err)
	assert.Equal(t, 1, buf.Format.NumChannels)
	assert.Equal(t, 22050, buf.Format.SampleRate)
	assert.Equal(t, []int{100, -200, 300}, buf.Data)
}

func TestBackend_OptionsOverrideVoiceAndModel(t *testing.T) {
	var gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write(pcmBytes(1, 2, 3, 4))
	}))
	t.Cleanup(server.Close)

	t.Setenv(eleven.EnvAPIKey, "key-123")

	backend := eleven.New(eleven.Config{BaseURL: server.URL}, newTestLogger(t))

	outputPath := filepath.Join(t.TempDir(), "out.wav")
	opts := core.SynthesisOptions{VoiceID: "customVoice", ModelID: "eleven_turbo_v2"}

	require.NoError(t, backend.Synthesize(context.Background(), "hello", outputPath, opts))
	assert.Equal(t, "/v1/text-to-speech/customVoice", gotPath)
}

func TestBackend_TruncatedPCMLeavesNoFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// An odd byte count cannot be a whole number of 16-bit samples.
		_, _ = w.Write([]byte{0x01, 0x02, 0x03})
	}))
	t.Cleanup(server.Close)

	t.Setenv(eleven.EnvAPIKey, "key-123")

	backend := eleven.New(eleven.Config{BaseURL: server.URL}, newTestLogger(t))

	outputPath := filepath.Join(t.TempDir(), "out.wav")
	err := backend.Synthesize(context.Background(), "hello", outputPath, core.SynthesisOptions{})

	require.ErrorIs(t, err, eleven.ErrTruncatedAudio)

	_, statErr := os.Stat(outputPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestBackend_APIErrorIsReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"invalid api key"}`))
	}))
	t.Cleanup(server.Close)

	t.Setenv(eleven.EnvAPIKey, "bad-key")

	backend := eleven.New(eleven.Config{BaseURL: server.URL}, newTestLogger(t))

	outputPath := filepath.Join(t.TempDir(), "out.wav")
	err := backend.Synthesize(context.Background(), "hello", outputPath, core.SynthesisOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")

	_, statErr := os.Stat(outputPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestBackend_SynthesizeWithoutKeyFails(t *testing.T) {
	t.Setenv(eleven.EnvAPIKey, "")

	backend := eleven.New(eleven.Config{}, newTestLogger(t))

	err := backend.Synthesize(context.Background(), "hello", "out.wav", core.SynthesisOptions{})
	require.ErrorIs(t, err, eleven.ErrNoAPIKey)
}

func TestBackend_Status(t *testing.T) {
	t.Setenv(eleven.EnvAPIKey, "key-123")

	backend := eleven.New(eleven.Config{}, newTestLogger(t))
	status := backend.Status()

	assert.Equal(t, "ELEVEN", status.Name)
	assert.True(t, status.APIKeySet)
	assert.Contains(t, status.Features, "premium_quality")
}
