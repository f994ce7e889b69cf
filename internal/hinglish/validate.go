package hinglish

import (
	"fmt"
	"regexp"
	"strings"
)

// Validation thresholds.
const (
	englishShareWarn   = 0.7
	technicalTokensMax = 3
	issuePreviewRunes  = 50
)

// Validation issue messages.
const (
	issueEmptyText           = "text is empty"
	issueMostlyEnglish       = "text appears to be mostly English - consider adding more Hindi"
	issueFmtTooManyTechTerms = "segment has many technical terms - consider simplifying: %s..."
	issueMissingTerminalStop = "text should end with proper punctuation"
)

var terminalStopRe = regexp.MustCompile(`[।.!?]$`)

// Validate checks narration text for readability problems and returns every
// issue found. Issues are advisory: callers log them and synthesize anyway.
func Validate(text string) (bool, []string) {
	var issues []string

	if strings.TrimSpace(text) == "" {
		return false, []string{issueEmptyText}
	}

	segments := SegmentText(text)

	englishCount := 0

	for _, segment := range segments {
		if segment.Language == LanguageEnglish {
			englishCount++
		}
	}

	if len(segments) > 0 && float64(englishCount) > float64(len(segments))*englishShareWarn {
		issues = append(issues, issueMostlyEnglish)
	}

	for _, segment := range segments {
		if !segment.Technical {
			continue
		}

		if technicalTokenCount(segment.Text) > technicalTokensMax {
			issues = append(issues, fmt.Sprintf(issueFmtTooManyTechTerms, previewOf(segment.Text)))
		}
	}

	if !terminalStopRe.MatchString(strings.TrimSpace(text)) {
		issues = append(issues, issueMissingTerminalStop)
	}

	return len(issues) == 0, issues
}

func previewOf(text string) string {
	runes := []rune(text)
	if len(runes) <= issuePreviewRunes {
		return text
	}

	return string(runes[:issuePreviewRunes])
}
