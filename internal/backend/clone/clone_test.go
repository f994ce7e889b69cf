// Package clone_test tests the voice-cloning backend adapter.
package clone_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/book-expert/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soni0021/manim-narrator/internal/backend/clone"
	"github.com/soni0021/manim-narrator/internal/core"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	testLogger, err := logger.New(t.TempDir(), "clone-test.log")
	require.NoError(t, err)

	return testLogger
}

// newSidecar returns a fake sidecar that records the last synthesis request.
func newSidecar(t *testing.T) (*httptest.Server, *clone.Request) {
	t.Helper()

	var lastRequest clone.Request

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/v1/generate/speech", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lastRequest))
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write([]byte("RIFF-fake-wav"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server, &lastRequest
}

func TestBackend_SynthesizeWritesAudio(t *testing.T) {
	t.Parallel()

	server, lastRequest := newSidecar(t)

	backend := clone.NewWithClient(clone.NewClient(server.URL, 5*time.Second), newTestLogger(t))

	outputPath := filepath.Join(t.TempDir(), "out.wav")
	opts := core.SynthesisOptions{Language: "hi", Temperature: 0.7, Speed: 0.95}

	require.NoError(t, backend.Synthesize(context.Background(), "namaskar doston", outputPath, opts))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFF-fake-wav"), data)

	assert.Equal(t, "namaskar doston", lastRequest.Text)
	assert.Equal(t, "hi", lastRequest.Language)
	assert.Empty(t, lastRequest.SpeakerRefPath)
	assert.True(t, lastRequest.SplitSentences)
}

func TestBackend_MissingReferenceFallsBackToDefaultVoice(t *testing.T) {
	t.Parallel()

	server, lastRequest := newSidecar(t)

	backend := clone.NewWithClient(clone.NewClient(server.URL, 5*time.Second), newTestLogger(t))

	opts := core.SynthesisOptions{
		Language:     "hi",
		ReferenceWAV: filepath.Join(t.TempDir(), "missing_teacher.wav"),
	}

	outputPath := filepath.Join(t.TempDir(), "out.wav")
	require.NoError(t, backend.Synthesize(context.Background(), "hello", outputPath, opts))

	// A missing reference must not fail the request; it selects the
	// default voice instead.
	assert.Empty(t, lastRequest.SpeakerRefPath)
}

func TestBackend_ExistingReferenceIsForwarded(t *testing.T) {
	t.Parallel()

	server, lastRequest := newSidecar(t)

	backend := clone.NewWithClient(clone.NewClient(server.URL, 5*time.Second), newTestLogger(t))

	refPath := filepath.Join(t.TempDir(), "teacher.wav")
	require.NoError(t, os.WriteFile(refPath, []byte("ref"), 0o600))

	outputPath := filepath.Join(t.TempDir(), "out.wav")
	opts := core.SynthesisOptions{ReferenceWAV: refPath}

	require.NoError(t, backend.Synthesize(context.Background(), "hello", outputPath, opts))
	assert.Equal(t, refPath, lastRequest.SpeakerRefPath)
}

func TestBackend_SidecarErrorIsReturnedNotPanicked(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/v1/generate/speech", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"model crashed","error_code":"E_MODEL"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	backend := clone.NewWithClient(clone.NewClient(server.URL, 5*time.Second), newTestLogger(t))

	outputPath := filepath.Join(t.TempDir(), "out.wav")
	err := backend.Synthesize(context.Background(), "hello", outputPath, core.SynthesisOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model crashed")

	_, statErr := os.Stat(outputPath)
	assert.True(t, os.IsNotExist(statErr), "a failed synthesis must leave no file behind")
}

func TestBackend_Availability(t *testing.T) {
	t.Parallel()

	server, _ := newSidecar(t)

	backend := clone.NewWithClient(clone.NewClient(server.URL, 2*time.Second), newTestLogger(t))
	assert.True(t, backend.Available())

	down := clone.NewWithClient(clone.NewClient("http://127.0.0.1:1", 2*time.Second), newTestLogger(t))
	assert.False(t, down.Available(), "a stopped sidecar is unavailable, not an error")
}

func TestBackend_EmptyTextRejected(t *testing.T) {
	t.Parallel()

	server, _ := newSidecar(t)

	backend := clone.NewWithClient(clone.NewClient(server.URL, 2*time.Second), newTestLogger(t))

	err := backend.Synthesize(context.Background(), "   ", "out.wav", core.SynthesisOptions{})
	require.ErrorIs(t, err, clone.ErrEmptyText)
}
