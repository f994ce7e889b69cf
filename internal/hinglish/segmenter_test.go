// Package hinglish_test tests the Hinglish segmentation heuristics.
package hinglish_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soni0021/manim-narrator/internal/hinglish"
)

func TestSegmentText_Classification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected []hinglish.Language
	}{
		{
			name:     "pure hindi sentence",
			input:    "यह एक सरल वाक्य है।",
			expected: []hinglish.Language{hinglish.LanguageHindi},
		},
		{
			name:     "pure english sentence",
			input:    "This is a simple sentence.",
			expected: []hinglish.Language{hinglish.LanguageEnglish},
		},
		{
			name:     "code mixed sentence",
			input:    "यह force एक push या pull है।",
			expected: []hinglish.Language{hinglish.LanguageMixed},
		},
		{
			name:     "multiple sentences",
			input:    "नमस्कार। Welcome to physics.",
			expected: []hinglish.Language{hinglish.LanguageHindi, hinglish.LanguageEnglish},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			segments := hinglish.SegmentText(testCase.input)
			require.Len(t, segments, len(testCase.expected))

			for i, segment := range segments {
				assert.Equal(t, testCase.expected[i], segment.Language)
				assert.NotEmpty(t, segment.Text)
			}
		})
	}
}

// The thresholds are strict comparisons: a sentence at exactly 70% Devanagari
// is not Hindi, and one at exactly 30% is not English.
func TestSegmentText_ThresholdBoundaries(t *testing.T) {
	t.Parallel()

	// Seven Devanagari characters against three Latin letters: ratio 0.7.
	atHindiFloor := "कखगघङचछ abc"
	segments := hinglish.SegmentText(atHindiFloor)
	require.Len(t, segments, 1)
	assert.Equal(t, hinglish.LanguageMixed, segments[0].Language)

	// Three Devanagari characters against seven Latin letters: ratio 0.3.
	atEnglishCeil := "कखग abcdefg"
	segments = hinglish.SegmentText(atEnglishCeil)
	require.Len(t, segments, 1)
	assert.Equal(t, hinglish.LanguageMixed, segments[0].Language)
}

// Romanized Hindi carries no Devanagari, so script counting classifies it as
// English even though it is semantically Hinglish. This is the designed
// limitation of the heuristic, pinned here on purpose.
func TestSegmentText_RomanizedHindiClassifiesAsEnglish(t *testing.T) {
	t.Parallel()

	input := "Namaskar! Aaj hum Newton ke second law ke baare mein sikhenge."

	segments := hinglish.SegmentText(input)
	require.Len(t, segments, 2)

	for _, segment := range segments {
		assert.Equal(t, hinglish.LanguageEnglish, segment.Language)
	}

	assert.False(t, segments[0].Technical)
	assert.True(t, segments[1].Technical, "newton is in the domain vocabulary")
}

func TestSegmentText_DropsUncountableSentences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "punctuation only", input: "!!! ??"},
		{name: "digits only", input: "123 456."},
		{name: "whitespace only", input: "   \t  "},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Empty(t, hinglish.SegmentText(testCase.input))
		})
	}
}

func TestSegmentText_Idempotent(t *testing.T) {
	t.Parallel()

	input := "देखिए, force का concept! Newton ne teen laws diye."

	first := hinglish.SegmentText(input)
	second := hinglish.SegmentText(input)

	assert.Equal(t, first, second)
}

func TestSegmentText_TechnicalTokenStripping(t *testing.T) {
	t.Parallel()

	// The vocabulary match must survive case and surrounding punctuation.
	segments := hinglish.SegmentText("Yeh hai (Gravity)!")
	require.Len(t, segments, 1)
	assert.True(t, segments[0].Technical)
}
