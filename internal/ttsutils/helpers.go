// Package ttsutils provides file and path utility functions for the narration
// service: cache directory resolution, filename sanitization, and display
// formatting for the reporting surfaces.
package ttsutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Environment variable names used for path resolution.
const (
	envCacheDir = "NARRATOR_CACHE_DIR"
)

// Common application directory and path constants.
const (
	appName                = "manim-narrator"
	audioCacheDirName      = "audio_cache"
	tmpDir                 = "/tmp"
	dotCache               = ".cache"
	defaultDirPermissions  = 0o750
	invalidCharReplacement = "_"
)

// Data size constants.
const (
	byteUnit = 1
	kilobyte = byteUnit * 1024
	megabyte = kilobyte * 1024
	gigabyte = megabyte * 1024
)

// Time and size formatting constants.
const (
	secondsInMinute = 60
	formatSeconds   = "%.1fs"
	formatMinutes   = "%dm %.1fs"
	formatGB        = "%.1f GB"
	formatMB        = "%.1f MB"
	formatKB        = "%.1f KB"
	formatBytes     = "%d B"
)

// Audio file extensions the cache and the profile store recognize.
const (
	extWAV = ".wav"
	extMP3 = ".mp3"
	extOGG = ".ogg"
)

// AudioCacheDir returns the directory synthesized audio artifacts are cached
// in, honoring an environment override and falling back to a per-user cache
// location.
func AudioCacheDir() string {
	if cacheDir := os.Getenv(envCacheDir); cacheDir != "" {
		return cacheDir
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(tmpDir, appName, audioCacheDirName)
	}

	return filepath.Join(homeDir, dotCache, appName, audioCacheDirName)
}

// EnsureDir ensures a directory exists at the given path, creating it and any
// missing parents if needed.
func EnsureDir(path string) error {
	_, statErr := os.Stat(path)
	if os.IsNotExist(statErr) {
		mkdirErr := os.MkdirAll(path, defaultDirPermissions)
		if mkdirErr != nil {
			return fmt.Errorf("failed to create directory %s: %w", path, mkdirErr)
		}
	}

	return nil
}

// IsAudioFile reports whether the filename carries a recognized audio
// extension.
func IsAudioFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case extWAV, extMP3, extOGG:
		return true
	default:
		return false
	}
}

// SanitizeFilename replaces characters that are unsafe in filenames across
// platforms.
func SanitizeFilename(filename string) string {
	replacer := strings.NewReplacer(
		"/", invalidCharReplacement,
		"\\", invalidCharReplacement,
		":", invalidCharReplacement,
		"*", invalidCharReplacement,
		"?", invalidCharReplacement,
		"\"", invalidCharReplacement,
		"<", invalidCharReplacement,
		">", invalidCharReplacement,
		"|", invalidCharReplacement,
	)

	return replacer.Replace(filename)
}

// File permissions for copied audio artifacts.
const filePermissions = 0o600

// CopyFile copies src to dst as a whole-file operation. The contents are
// staged in a sibling temporary file and renamed into place, so dst either
// holds the complete copy or is left untouched; readers never observe a
// partial file.
func CopyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", src, err)
	}

	defer func() {
		_ = sourceFile.Close()
	}()

	stagingFile, err := os.CreateTemp(filepath.Dir(dst), ".copy-*")
	if err != nil {
		return fmt.Errorf("failed to create staging file for %s: %w", dst, err)
	}

	_, copyErr := io.Copy(stagingFile, sourceFile)
	closeErr := stagingFile.Close()

	if copyErr != nil || closeErr != nil {
		_ = os.Remove(stagingFile.Name())

		if copyErr != nil {
			return fmt.Errorf("failed to copy %s to %s: %w", src, dst, copyErr)
		}

		return fmt.Errorf("failed to close staging file for %s: %w", dst, closeErr)
	}

	if err := os.Chmod(stagingFile.Name(), filePermissions); err != nil {
		_ = os.Remove(stagingFile.Name())

		return fmt.Errorf("failed to set permissions on staging file for %s: %w", dst, err)
	}

	if err := os.Rename(stagingFile.Name(), dst); err != nil {
		_ = os.Remove(stagingFile.Name())

		return fmt.Errorf("failed to move staging file into place at %s: %w", dst, err)
	}

	return nil
}

// MoveFile renames src to dst, falling back to copy-and-remove when the
// rename crosses filesystems (temp dirs often live on a different mount).
func MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := CopyFile(src, dst); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", src, dst, err)
	}

	if err := os.Remove(src); err != nil {
		return fmt.Errorf("failed to remove source file %s after move: %w", src, err)
	}

	return nil
}

// FormatDuration renders a duration in seconds for CLI output.
func FormatDuration(seconds float64) string {
	if seconds < secondsInMinute {
		return fmt.Sprintf(formatSeconds, seconds)
	}

	minutes := int(seconds) / secondsInMinute
	remainder := seconds - float64(minutes*secondsInMinute)

	return fmt.Sprintf(formatMinutes, minutes, remainder)
}

// FormatFileSize renders a byte count for CLI output.
func FormatFileSize(bytes int64) string {
	switch {
	case bytes >= gigabyte:
		return fmt.Sprintf(formatGB, float64(bytes)/float64(gigabyte))
	case bytes >= megabyte:
		return fmt.Sprintf(formatMB, float64(bytes)/float64(megabyte))
	case bytes >= kilobyte:
		return fmt.Sprintf(formatKB, float64(bytes)/float64(kilobyte))
	default:
		return fmt.Sprintf(formatBytes, bytes)
	}
}
