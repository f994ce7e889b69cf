// Package ttsutils_test tests the path and formatting helpers.
package ttsutils_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soni0021/manim-narrator/internal/ttsutils"
)

func TestAudioCacheDir_EnvOverride(t *testing.T) {
	t.Setenv("NARRATOR_CACHE_DIR", "/custom/cache")

	assert.Equal(t, "/custom/cache", ttsutils.AudioCacheDir())
}

func TestAudioCacheDir_Default(t *testing.T) {
	t.Setenv("NARRATOR_CACHE_DIR", "")

	dir := ttsutils.AudioCacheDir()

	assert.NotEmpty(t, dir)
	assert.Contains(t, dir, "manim-narrator")
}

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir() + "/nested/deep"

	require.NoError(t, ttsutils.EnsureDir(dir))
	// A second call on an existing directory is a no-op.
	require.NoError(t, ttsutils.EnsureDir(dir))
}

func TestIsAudioFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename string
		expected bool
	}{
		{filename: "narration.wav", expected: true},
		{filename: "narration.MP3", expected: true},
		{filename: "clip.ogg", expected: true},
		{filename: "notes.txt", expected: false},
		{filename: "noextension", expected: false},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.expected, ttsutils.IsAudioFile(testCase.filename), testCase.filename)
	}
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	sanitized := ttsutils.SanitizeFilename(`physics/newton:law?.wav`)

	assert.False(t, strings.ContainsAny(sanitized, `/\:*?"<>|`))
	assert.Equal(t, "physics_newton_law_.wav", sanitized)
}

func TestCopyFile_RoundTrip(t *testing.T) {
	t.Parallel()

	srcPath := filepath.Join(t.TempDir(), "src.wav")
	require.NoError(t, os.WriteFile(srcPath, []byte("RIFF-audio"), 0o600))

	dstPath := filepath.Join(t.TempDir(), "dst.wav")
	require.NoError(t, ttsutils.CopyFile(srcPath, dstPath))

	data, err := os.ReadFile(dstPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFF-audio"), data)
}

func TestCopyFile_FailureLeavesNoDestination(t *testing.T) {
	t.Parallel()

	// A directory opens fine but fails mid-copy, exercising the staging path.
	srcDir := t.TempDir()
	dstPath := filepath.Join(t.TempDir(), "dst.wav")

	require.Error(t, ttsutils.CopyFile(srcDir, dstPath))

	_, statErr := os.Stat(dstPath)
	assert.True(t, os.IsNotExist(statErr), "failed copy must not leave a destination file")
}

func TestCopyFile_FailurePreservesExistingDestination(t *testing.T) {
	t.Parallel()

	srcDir := t.TempDir()
	dstPath := filepath.Join(t.TempDir(), "dst.wav")
	require.NoError(t, os.WriteFile(dstPath, []byte("original"), 0o600))

	require.Error(t, ttsutils.CopyFile(srcDir, dstPath))

	data, err := os.ReadFile(dstPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), data, "failed copy must not truncate an existing destination")
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2.5s", ttsutils.FormatDuration(2.5))
	assert.Equal(t, "1m 30.0s", ttsutils.FormatDuration(90))
}

func TestFormatFileSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512 B", ttsutils.FormatFileSize(512))
	assert.Equal(t, "1.5 KB", ttsutils.FormatFileSize(1536))
	assert.Equal(t, "2.0 MB", ttsutils.FormatFileSize(2*1024*1024))
}
