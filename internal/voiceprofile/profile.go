// Package voiceprofile manages per-subject voice personas: synthesis knobs,
// optional voice-cloning reference recordings, and the persisted metadata
// file that survives across runs.
package voiceprofile

import "github.com/soni0021/manim-narrator/internal/core"

// Profile is the synthesis persona for one subject. A missing reference
// recording is a valid, detectable state; the cloning engine falls back to
// its default voice rather than failing.
type Profile struct {
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	Language           string  `json:"language"`
	Gender             string  `json:"gender"`
	AgeRange           string  `json:"age_range"`
	Accent             string  `json:"accent"`
	SpeakingRate       float64 `json:"speaking_rate"`
	Temperature        float64 `json:"temperature"`
	PitchRange         string  `json:"pitch_range"`
	EnergyLevel        string  `json:"energy_level"`
	PronunciationStyle string  `json:"pronunciation_style"`
	ReferenceAudio     string  `json:"reference_audio"`
	SampleText         string  `json:"sample_text"`
	TermHandling       string  `json:"technical_terms_handling"`
}

// defaultProfiles returns the built-in persona for every subject. The store
// writes these on first run; operators tune them through Update afterwards.
func defaultProfiles() map[core.Subject]Profile {
	return map[core.Subject]Profile{
		core.SubjectPhysics: {
			Name:               "Dr. Physics",
			Description:        "Clear, authoritative physics teacher with slight Indian accent",
			Language:           "hi",
			Gender:             "male",
			AgeRange:           "35-45",
			Accent:             "Indian English + Hindi",
			SpeakingRate:       0.95,
			Temperature:        0.7,
			PitchRange:         "medium",
			EnergyLevel:        "moderate",
			PronunciationStyle: "precise",
			ReferenceAudio:     "physics_teacher.wav",
			SampleText:         "Dekho, yeh Newton ka second law hai. Force equals mass times acceleration.",
			TermHandling:       "english_pronunciation_in_hindi_flow",
		},
		core.SubjectChemistry: {
			Name:               "Prof. Chemistry",
			Description:        "Enthusiastic chemistry professor with expressive delivery",
			Language:           "hi",
			Gender:             "female",
			AgeRange:           "30-40",
			Accent:             "Indian English + Hindi",
			SpeakingRate:       1.0,
			Temperature:        0.75,
			PitchRange:         "medium-high",
			EnergyLevel:        "high",
			PronunciationStyle: "expressive",
			ReferenceAudio:     "chemistry_teacher.wav",
			SampleText:         "Yeh water molecule hai. Oxygen aur hydrogen atoms covalent bond se jude hain.",
			TermHandling:       "clear_english_with_hindi_explanation",
		},
		core.SubjectBiology: {
			Name:               "Dr. Bio",
			Description:        "Warm, nurturing biology teacher with patient delivery",
			Language:           "hi",
			Gender:             "female",
			AgeRange:           "28-38",
			Accent:             "Indian English + Hindi",
			SpeakingRate:       1.05,
			Temperature:        0.8,
			PitchRange:         "medium",
			EnergyLevel:        "gentle",
			PronunciationStyle: "nurturing",
			ReferenceAudio:     "biology_teacher.wav",
			SampleText:         "Cell membrane dekhte hain. Yeh phospholipid bilayer structure hai.",
			TermHandling:       "simplified_english_with_hindi_context",
		},
		core.SubjectGeneral: {
			Name:               "Teacher",
			Description:        "Friendly general educator for multi-subject content",
			Language:           "hi",
			Gender:             "neutral",
			AgeRange:           "25-45",
			Accent:             "Indian English + Hindi",
			SpeakingRate:       1.0,
			Temperature:        0.75,
			PitchRange:         "medium",
			EnergyLevel:        "moderate",
			PronunciationStyle: "friendly",
			ReferenceAudio:     "general_teacher.wav",
			SampleText:         "Aaj hum sikhenge interesting concepts ke baare mein.",
			TermHandling:       "balanced_english_hindi_mix",
		},
	}
}
