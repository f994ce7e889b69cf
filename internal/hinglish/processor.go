package hinglish

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/soni0021/manim-narrator/internal/core"
)

// Regex patterns for cleaning and pause insertion. The allow list keeps
// Devanagari, word characters, whitespace, and the punctuation the engines
// understand; everything else tends to confuse synthesis.
const (
	whitespacePattern   = `\s+`
	punctSpacingPattern = `\s*([।.!?,:;])\s*`
	allowListPattern    = `[^\x{0900}-\x{097F}\w\s।.!?,:;()\-'"]+`
	definitionPattern   = `([\x{0900}-\x{097F}\w]+)\s+(means|matlab|yaani)`
)

// Processor adapts Hinglish narration text for a target speech backend. It is
// stateless after construction; all methods are pure functions of their
// input, which the audio cache key derivation depends on.
type Processor struct {
	whitespaceRe   *regexp.Regexp
	punctSpacingRe *regexp.Regexp
	allowListRe    *regexp.Regexp
	definitionRe   *regexp.Regexp
	hintRes        map[string]*regexp.Regexp
	romanizer      *strings.Replacer
}

// NewProcessor compiles the cleaning patterns and the discourse-marker
// romanizer once up front.
func NewProcessor() *Processor {
	hintRes := make(map[string]*regexp.Regexp, len(pronunciationHints))
	for term := range pronunciationHints {
		hintRes[term] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
	}

	romanizePairs := make([]string, 0, len(discourseMarkers)*2)
	for devanagari, latin := range discourseMarkers {
		romanizePairs = append(romanizePairs, devanagari, latin)
	}

	return &Processor{
		whitespaceRe:   regexp.MustCompile(whitespacePattern),
		punctSpacingRe: regexp.MustCompile(punctSpacingPattern),
		allowListRe:    regexp.MustCompile(allowListPattern),
		definitionRe:   regexp.MustCompile(definitionPattern),
		hintRes:        hintRes,
		romanizer:      strings.NewReplacer(romanizePairs...),
	}
}

// ProcessForTTS adapts text for the given backend: Unicode normalization,
// cleanup, segmentation, per-backend rewriting, and natural-pause insertion.
// Identical (text, backend) inputs always produce identical output.
func (p *Processor) ProcessForTTS(text string, backend core.BackendID) string {
	text = norm.NFKC.String(text)
	text = p.cleanText(text)

	segments := SegmentText(text)

	processed := make([]string, 0, len(segments))

	for _, segment := range segments {
		out := segment.Text

		switch backend {
		case core.BackendEdge:
			// The lightweight engine handles native script directly;
			// only discourse markers get romanized, for flow.
			if segment.Language == LanguageHindi || segment.Language == LanguageMixed {
				out = p.romanizer.Replace(out)
			}
		case core.BackendClone:
			if segment.Technical {
				out = p.addPronunciationHints(out)
			}
		case core.BackendEleven:
			// The cloud engine copes with raw Hinglish as-is.
		}

		out = p.addNaturalPauses(out)
		processed = append(processed, out)
	}

	return strings.Join(processed, segmentJoinString)
}

// cleanText collapses whitespace, normalizes punctuation spacing, and strips
// characters outside the allow list.
func (p *Processor) cleanText(text string) string {
	text = p.whitespaceRe.ReplaceAllString(text, " ")
	text = p.punctSpacingRe.ReplaceAllString(text, "${1} ")
	text = p.allowListRe.ReplaceAllString(text, "")

	return strings.TrimSpace(text)
}

// addPronunciationHints appends a Devanagari parenthetical after each known
// hard-to-synthesize loanword.
func (p *Processor) addPronunciationHints(text string) string {
	for term, hint := range pronunciationHints {
		re := p.hintRes[term]
		text = re.ReplaceAllStringFunc(text, func(match string) string {
			return fmt.Sprintf("%s (%s)", match, hint)
		})
	}

	return text
}

// addNaturalPauses inserts a comma after discourse markers and before
// definition phrases ("X means", "X matlab", "X yaani"). Markers are matched
// as whole words (RE2's \b is ASCII-only, so this is a token scan rather
// than a regexp), and consecutive markers each receive their own pause.
func (p *Processor) addNaturalPauses(text string) string {
	fields := strings.Fields(text)
	for i, field := range fields {
		prefix, word, suffix := splitWordEdges(field)

		if _, isMarker := pauseMarkers[word]; !isMarker {
			continue
		}

		if strings.HasPrefix(suffix, ",") {
			continue
		}

		fields[i] = prefix + word + "," + suffix
	}

	text = strings.Join(fields, " ")

	return p.definitionRe.ReplaceAllString(text, "${1}, ${2}")
}

// splitWordEdges splits a whitespace-delimited token into its leading
// punctuation, word core, and trailing punctuation.
func splitWordEdges(token string) (string, string, string) {
	runes := []rune(token)

	start := 0
	for start < len(runes) && !isWordRune(runes[start]) {
		start++
	}

	end := len(runes)
	for end > start && !isWordRune(runes[end-1]) {
		end--
	}

	return string(runes[:start]), string(runes[start:end]), string(runes[end:])
}

// isWordRune reports whether r belongs to a word: Devanagari or ASCII letter.
func isWordRune(r rune) bool {
	return (r >= 'ऀ' && r <= 'ॿ') ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// CreateSSML builds SSML markup with a prosody rate wrapper and moderate
// emphasis on technical segments. Consumed by preview and reporting
// surfaces, not by the synthesis path.
func (p *Processor) CreateSSML(text string, speakingRate float64) string {
	processed := p.ProcessForTTS(text, core.BackendClone)

	var builder strings.Builder

	builder.WriteString(`<speak version="1.0" xmlns="http://www.w3.org/2001/10/synthesis" xml:lang="hi">`)

	if speakingRate > 0 {
		fmt.Fprintf(&builder, `<prosody rate="%.2f">`, speakingRate)
	}

	for _, segment := range SegmentText(processed) {
		if segment.Technical {
			fmt.Fprintf(&builder, `<emphasis level="moderate">%s</emphasis> `, segment.Text)
		} else {
			builder.WriteString(segment.Text + " ")
		}
	}

	if speakingRate > 0 {
		builder.WriteString(`</prosody>`)
	}

	builder.WriteString(`</speak>`)

	return builder.String()
}
