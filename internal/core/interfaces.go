// Package core defines the shared vocabulary and interfaces for the narration
// synthesis service: quality tiers, subject personas, the speech backend
// contract, and the object store used to hand audio to the render pipeline.
package core

import "context"

// Quality selects the trade-off between synthesis speed and output fidelity.
// Each tier maps deterministically to a preferred backend; the manager may
// fall back to another backend when the preferred one is unavailable.
type Quality string

const (
	// QualityFast prefers the lightweight free engine for quick prototyping.
	QualityFast Quality = "fast"
	// QualityHigh prefers the voice-cloning engine for production narration.
	QualityHigh Quality = "high"
	// QualityPremium prefers the paid cloud engine.
	QualityPremium Quality = "premium"
)

// Subject identifies the educational persona used for a narration line.
type Subject string

const (
	SubjectPhysics   Subject = "physics"
	SubjectChemistry Subject = "chemistry"
	SubjectBiology   Subject = "biology"
	SubjectGeneral   Subject = "general"
)

// Subjects lists every known subject persona in a stable order.
func Subjects() []Subject {
	return []Subject{SubjectPhysics, SubjectChemistry, SubjectBiology, SubjectGeneral}
}

// BackendID identifies one wrapped speech engine.
type BackendID string

const (
	// BackendEdge is the lightweight free engine (Microsoft Edge neural voices).
	BackendEdge BackendID = "edge"
	// BackendClone is the resident voice-cloning engine (local XTTS sidecar).
	BackendClone BackendID = "clone"
	// BackendEleven is the premium cloud engine (ElevenLabs).
	BackendEleven BackendID = "eleven"
)

// SynthesisOptions carries the per-request knobs assembled from the subject's
// voice profile and the backend configuration. Backends read only the fields
// they understand and ignore the rest.
type SynthesisOptions struct {
	// Language is a BCP-47-ish language code, "hi" for Hinglish narration.
	Language string
	// Speed is a speaking-rate multiplier; 1.0 is the engine default.
	Speed float64
	// ReferenceWAV is an optional path to a reference recording for timbre
	// cloning. An empty or missing path selects the engine's default voice.
	ReferenceWAV string
	// Temperature controls sampling randomness for generative engines.
	Temperature float64
	// VoiceID selects a named voice on engines with fixed voice catalogues.
	VoiceID string
	// ModelID selects the synthesis model on engines that expose several.
	ModelID string
}

// BackendStatus describes one backend for reporting surfaces. It is derived
// at call time and never consulted by the synthesis path itself.
type BackendStatus struct {
	Available    bool     `json:"available"`
	Name         string   `json:"name"`
	Features     []string `json:"features"`
	Requirements string   `json:"requirements"`
	APIKeySet    bool     `json:"api_key_set,omitempty"`
}

// Backend is the uniform contract every wrapped speech engine satisfies.
//
// Available must be cheap, must never panic, and treats unavailability as a
// normal state, not an error. Synthesize writes a playable audio file at
// outputPath if and only if it returns nil; every engine-internal failure is
// converted to an error at this boundary so the manager never needs a
// recover or a broad catch-all.
type Backend interface {
	ID() BackendID
	Available() bool
	Synthesize(ctx context.Context, text, outputPath string, opts SynthesisOptions) error
	Status() BackendStatus
}

// ObjectStore is the key-value blob store the worker publishes finished
// narration audio into for the render pipeline to collect.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte) error
}
