// Package manager implements the narration synthesis orchestrator: text
// validation and adaptation, cache consultation, and ordered backend
// attempts with fallback. It is constructed explicitly and passed by handle
// to every call site; there is no package-level singleton.
package manager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/book-expert/logger"
	"github.com/google/uuid"

	"github.com/soni0021/manim-narrator/internal/audiocache"
	"github.com/soni0021/manim-narrator/internal/core"
	"github.com/soni0021/manim-narrator/internal/hinglish"
	"github.com/soni0021/manim-narrator/internal/ttsutils"
	"github.com/soni0021/manim-narrator/internal/voiceprofile"
)

// logTextPreviewRunes bounds how much request text appears in log lines.
const logTextPreviewRunes = 40

// fallbackPriority is the fixed order backends are tried in after the
// tier-preferred one: cloning first, then cloud, then the free engine.
var fallbackPriority = []core.BackendID{core.BackendClone, core.BackendEleven, core.BackendEdge}

// preferredFor maps a quality tier to its preferred backend.
func preferredFor(quality core.Quality) core.BackendID {
	switch quality {
	case core.QualityFast:
		return core.BackendEdge
	case core.QualityPremium:
		return core.BackendEleven
	case core.QualityHigh:
		return core.BackendClone
	default:
		return core.BackendClone
	}
}

// Options are the caller-chosen knobs for one synthesis request.
type Options struct {
	Quality  core.Quality
	Subject  core.Subject
	UseCache bool
}

// DefaultOptions returns the defaults callers get when they do not care:
// high quality, general persona, caching on.
func DefaultOptions() Options {
	return Options{
		Quality:  core.QualityHigh,
		Subject:  core.SubjectGeneral,
		UseCache: true,
	}
}

// Manager orchestrates synthesis across the registered backends.
type Manager struct {
	processor *hinglish.Processor
	profiles  *voiceprofile.Store
	cache     *audiocache.Cache
	backends  map[core.BackendID]core.Backend
	log       *logger.Logger
}

// New wires the manager together. Backends are registered by their own IDs;
// a tier whose backend is absent simply starts at the fallback order.
func New(
	processor *hinglish.Processor,
	profiles *voiceprofile.Store,
	cache *audiocache.Cache,
	log *logger.Logger,
	backends ...core.Backend,
) *Manager {
	registry := make(map[core.BackendID]core.Backend, len(backends))
	for _, backend := range backends {
		registry[backend.ID()] = backend
	}

	return &Manager{
		processor: processor,
		profiles:  profiles,
		cache:     cache,
		backends:  registry,
		log:       log,
	}
}

// SynthesizeSpeech produces a playable audio file at outputPath for the
// given narration text and returns whether it succeeded. Failure leaves no
// file at outputPath and raises no panic; the boolean is the whole contract.
//
// The request is processed synchronously: validation, adaptation, cache
// lookup, and backend attempts happen in strict sequence. The manager
// imposes no timeout of its own; cancellation belongs to the caller's ctx.
func (m *Manager) SynthesizeSpeech(ctx context.Context, text, outputPath string, opts Options) bool {
	if ok, issues := hinglish.Validate(text); !ok {
		// Validation is advisory: log and keep going.
		m.log.Warn("Text validation issues for %q: %v", preview(text), issues)
	}

	preferred := preferredFor(opts.Quality)

	// Adaptation happens once, with the preferred backend's rules, even if
	// a fallback ends up serving the request. The cache key below shares
	// that asymmetry deliberately.
	processed := m.processor.ProcessForTTS(text, preferred)

	cacheKey := audiocache.KeyFor(processed, opts.Quality, opts.Subject)

	if opts.UseCache && m.copyFromCache(cacheKey, outputPath) {
		return true
	}

	candidates := m.orderedCandidates(preferred)
	if len(candidates) == 0 {
		m.log.Error("No TTS services available for %q", preview(text))

		return false
	}

	synthOpts := m.optionsFor(opts.Subject)

	for _, candidate := range candidates {
		m.log.Info("Attempting synthesis with %s", candidate.ID())

		if m.attempt(ctx, candidate, processed, outputPath, synthOpts) {
			if opts.UseCache {
				m.writeThrough(cacheKey, outputPath)
			}

			m.log.Info("Successfully synthesized with %s", candidate.ID())

			return true
		}
	}

	m.log.Error("All TTS services failed for %q", preview(text))

	return false
}

// GetServiceStatus reports every backend's availability and capabilities.
// Consumed by reporting and CLI surfaces only, never by the synthesis path.
func (m *Manager) GetServiceStatus() map[core.BackendID]core.BackendStatus {
	statuses := make(map[core.BackendID]core.BackendStatus, len(m.backends))
	for id, backend := range m.backends {
		statuses[id] = backend.Status()
	}

	return statuses
}

// ClearCache removes every cached artifact and returns the count.
func (m *Manager) ClearCache() int {
	return m.cache.Clear()
}

// copyFromCache serves outputPath from the cache when the key is present.
// An unreadable cached artifact is treated as a miss, not a hard error, so
// the request falls through to the backends.
func (m *Manager) copyFromCache(key, outputPath string) bool {
	cachedPath, hit := m.cache.Get(key)
	if !hit {
		return false
	}

	if err := ttsutils.CopyFile(cachedPath, outputPath); err != nil {
		m.log.Warn("Cached audio unreadable, treating as miss: %v", err)

		return false
	}

	m.log.Info("Using cached audio: %s", key)

	return true
}

// writeThrough populates the cache after a successful synthesis. Cache
// failures never fail the request; the audio is already at outputPath.
func (m *Manager) writeThrough(key, outputPath string) {
	if err := m.cache.Put(key, outputPath); err != nil {
		m.log.Warn("Failed to cache audio: %v", err)
	}
}

// orderedCandidates builds the attempt list: the preferred backend first,
// then the fixed fallback priority minus anything already listed, keeping
// only backends whose availability probe passes right now.
func (m *Manager) orderedCandidates(preferred core.BackendID) []core.Backend {
	ids := make([]core.BackendID, 0, len(fallbackPriority)+1)
	ids = append(ids, preferred)

	for _, id := range fallbackPriority {
		if id != preferred {
			ids = append(ids, id)
		}
	}

	candidates := make([]core.Backend, 0, len(ids))

	for _, id := range ids {
		backend, registered := m.backends[id]
		if !registered || !backend.Available() {
			continue
		}

		candidates = append(candidates, backend)
	}

	return candidates
}

// attempt runs one backend against a private temporary file and promotes the
// result to outputPath on success. The temporary file is removed on every
// exit path; a failed attempt leaves nothing behind.
func (m *Manager) attempt(
	ctx context.Context,
	backend core.Backend,
	text, outputPath string,
	opts core.SynthesisOptions,
) bool {
	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("narration-%s.wav", uuid.NewString()))

	defer func() {
		_ = os.Remove(tempPath)
	}()

	if err := backend.Synthesize(ctx, text, tempPath, opts); err != nil {
		m.log.Warn("Backend %s failed for %q: %v", backend.ID(), preview(text), err)

		return false
	}

	if _, err := os.Stat(tempPath); err != nil {
		m.log.Warn("Backend %s reported success but produced no file", backend.ID())

		return false
	}

	if err := ttsutils.MoveFile(tempPath, outputPath); err != nil {
		m.log.Warn("Failed to move synthesized audio into place: %v", err)

		return false
	}

	return true
}

// optionsFor assembles the per-request synthesis options from the subject's
// voice profile. The reference path is passed through even when the file is
// missing; the cloning adapter resolves that to its default voice.
func (m *Manager) optionsFor(subject core.Subject) core.SynthesisOptions {
	profile := m.profiles.Get(subject)
	referencePath, _ := m.profiles.ReferenceAudioPath(subject)

	return core.SynthesisOptions{
		Language:     profile.Language,
		Speed:        profile.SpeakingRate,
		ReferenceWAV: referencePath,
		Temperature:  profile.Temperature,
		VoiceID:      "",
		ModelID:      "",
	}
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= logTextPreviewRunes {
		return text
	}

	return string(runes[:logTextPreviewRunes]) + "..."
}
