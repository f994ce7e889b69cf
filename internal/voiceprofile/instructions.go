package voiceprofile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/soni0021/manim-narrator/internal/core"
)

const instructionsFilePerm = 0o600

// instructionsTemplate is the human-readable recording guide written next to
// a missing reference recording.
const instructionsTemplate = `VOICE RECORDING INSTRUCTIONS - %s

1. RECORDING REQUIREMENTS:
   - Duration: 10-30 seconds
   - Format: WAV, 22050 Hz, mono
   - Quality: Clear, no background noise
   - Content: Read the sample text below naturally

2. SAMPLE TEXT TO RECORD:
   "%s"

3. VOICE CHARACTERISTICS:
   - Gender: %s
   - Age: %s years
   - Accent: %s
   - Style: %s
   - Energy: %s

4. RECORDING TIPS:
   - Speak naturally in Hinglish (mix of Hindi and English)
   - Pronounce technical terms clearly
   - Maintain consistent pace and tone
   - Record in a quiet environment

5. FILE PLACEMENT:
   Save the recorded audio as: %s

Once the audio file is in place, the system will use it for voice cloning
automatically.
`

// WriteInstructions writes the recording guide for the subject's missing
// reference audio and returns the guide's path.
func (s *Store) WriteInstructions(subject core.Subject) (string, error) {
	profile := s.Get(subject)

	audioPath := filepath.Join(s.dir, profile.ReferenceAudio)
	instructionsPath := filepath.Join(s.dir, fmt.Sprintf("%s_recording_instructions.txt", subject))

	content := fmt.Sprintf(instructionsTemplate,
		profile.Name,
		profile.SampleText,
		profile.Gender,
		profile.AgeRange,
		profile.Accent,
		profile.PronunciationStyle,
		profile.EnergyLevel,
		audioPath,
	)

	if err := os.WriteFile(instructionsPath, []byte(content), instructionsFilePerm); err != nil {
		return "", fmt.Errorf("failed to write instructions file: %w", err)
	}

	return instructionsPath, nil
}
