// Package audiocache implements the content-addressed store of synthesized
// narration audio. Entries are keyed by a digest of the backend-adapted text
// plus the quality tier and subject, so byte-identical requests reuse the
// artifact without invoking any speech engine again.
package audiocache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/book-expert/logger"

	"github.com/soni0021/manim-narrator/internal/core"
	"github.com/soni0021/manim-narrator/internal/ttsutils"
)

const (
	artifactExtension  = ".wav"
	artifactGlob       = "*" + artifactExtension
	keyComponentJoiner = "_"
)

// Cache is a directory of WAV artifacts named by cache key. A key's file is
// written once and only ever replaced wholesale, never mutated in place.
type Cache struct {
	dir string
	log *logger.Logger
}

// New creates the cache rooted at dir, creating the directory if needed.
func New(dir string, log *logger.Logger) (*Cache, error) {
	if err := ttsutils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to prepare cache directory: %w", err)
	}

	return &Cache{dir: dir, log: log}, nil
}

// Dir returns the cache root directory.
func (c *Cache) Dir() string {
	return c.dir
}

// KeyFor derives the stable cache key for a synthesis request. The text must
// be the post-adaptation text, not the raw input, so a hit is valid for
// whichever backend produced the adapted form for that tier. SHA-256 is
// treated as collision-free for this purpose.
func KeyFor(processedText string, quality core.Quality, subject core.Subject) string {
	content := processedText + keyComponentJoiner + string(quality) + keyComponentJoiner + string(subject)
	digest := sha256.Sum256([]byte(content))

	return hex.EncodeToString(digest[:])
}

// Get returns the path of the cached artifact for key, if present.
func (c *Cache) Get(key string) (string, bool) {
	path := c.entryPath(key)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}

	return path, true
}

// Put copies the artifact at srcPath into the cache under key.
func (c *Cache) Put(key, srcPath string) error {
	if err := ttsutils.CopyFile(srcPath, c.entryPath(key)); err != nil {
		return fmt.Errorf("failed to cache audio for key %s: %w", key, err)
	}

	return nil
}

// Clear removes every cached artifact and returns the number of files
// removed. There is no partial eviction; clearing is all-or-nothing.
func (c *Cache) Clear() int {
	matches, err := filepath.Glob(filepath.Join(c.dir, artifactGlob))
	if err != nil {
		c.log.Warn("Failed to enumerate cache files: %v", err)

		return 0
	}

	removed := 0

	for _, match := range matches {
		if removeErr := os.Remove(match); removeErr != nil {
			c.log.Warn("Failed to delete cache file %s: %v", match, removeErr)

			continue
		}

		removed++
	}

	return removed
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, key+artifactExtension)
}
