// Package hinglish processes mixed Hindi-English narration text for speech
// synthesis: language-tagged segmentation, per-backend adaptation, and
// advisory validation.
//
// Classification is purely script-based (Devanagari versus Latin character
// counts). Romanized Hindi therefore classifies as English; that is a known,
// accepted limitation of the heuristic, not a defect to paper over.
package hinglish

import (
	"regexp"
	"strings"
)

// Language tags a segment by its dominant script.
type Language string

const (
	// LanguageHindi marks segments with more than 70% Devanagari characters.
	LanguageHindi Language = "hi"
	// LanguageEnglish marks segments with fewer than 30% Devanagari characters.
	LanguageEnglish Language = "en"
	// LanguageMixed marks everything in between.
	LanguageMixed Language = "mixed"
)

// Classification thresholds over the Devanagari ratio. The comparisons are
// strict: a segment at exactly 0.7 is Mixed, not Hindi.
const (
	hindiRatioFloor   = 0.7
	englishRatioCeil  = 0.3
	tokenTrimCutset   = ".,!?()[]"
	segmentJoinString = " "
)

// Segment is one sentence-level span of narration text with its script
// classification. Segments are derived fresh per input and never persisted.
type Segment struct {
	Text      string
	Language  Language
	Technical bool
}

// Regex patterns for segmentation and script counting.
const (
	sentenceSplitPattern  = `[।.!?]+`
	devanagariCharPattern = `[\x{0900}-\x{097F}]`
	latinCharPattern      = `[a-zA-Z]`
)

var (
	sentenceSplitRe  = regexp.MustCompile(sentenceSplitPattern)
	devanagariCharRe = regexp.MustCompile(devanagariCharPattern)
	latinCharRe      = regexp.MustCompile(latinCharPattern)
)

// SegmentText splits text on sentence-terminal punctuation (Hindi danda or
// Latin stops) and classifies each non-empty sentence by its
// Devanagari-to-Latin character ratio. Sentences with no countable
// characters in either script are dropped. The result is a pure function of
// the input.
func SegmentText(text string) []Segment {
	sentences := sentenceSplitRe.Split(text, -1)

	segments := make([]Segment, 0, len(sentences))

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		hindiCount := len(devanagariCharRe.FindAllString(sentence, -1))
		latinCount := len(latinCharRe.FindAllString(sentence, -1))

		totalCount := hindiCount + latinCount
		if totalCount == 0 {
			continue
		}

		hindiRatio := float64(hindiCount) / float64(totalCount)

		segments = append(segments, Segment{
			Text:      sentence,
			Language:  classifyRatio(hindiRatio),
			Technical: hasTechnicalTerm(sentence),
		})
	}

	return segments
}

func classifyRatio(hindiRatio float64) Language {
	switch {
	case hindiRatio > hindiRatioFloor:
		return LanguageHindi
	case hindiRatio < englishRatioCeil:
		return LanguageEnglish
	default:
		return LanguageMixed
	}
}

// hasTechnicalTerm reports whether any lowercased, punctuation-stripped token
// of the sentence is in the fixed domain vocabulary.
func hasTechnicalTerm(sentence string) bool {
	for _, token := range strings.Fields(strings.ToLower(sentence)) {
		token = strings.Trim(token, tokenTrimCutset)
		if _, ok := technicalTerms[token]; ok {
			return true
		}
	}

	return false
}

// technicalTokenCount counts vocabulary tokens in a sentence; used by the
// readability validation.
func technicalTokenCount(sentence string) int {
	count := 0

	for _, token := range strings.Fields(strings.ToLower(sentence)) {
		token = strings.Trim(token, tokenTrimCutset)
		if _, ok := technicalTerms[token]; ok {
			count++
		}
	}

	return count
}
