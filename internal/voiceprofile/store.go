package voiceprofile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/book-expert/logger"
	"github.com/go-audio/wav"

	"github.com/soni0021/manim-narrator/internal/core"
	"github.com/soni0021/manim-narrator/internal/ttsutils"
)

const (
	metadataFileName = "profiles.json"
	metadataFilePerm = 0o600

	// minReferenceBytes is the floor below which a reference recording is
	// treated as an empty or corrupt placeholder.
	minReferenceBytes = 1000
)

// Static errors.
var (
	// ErrUnknownSubject indicates a subject with no profile; every known
	// subject always has exactly one.
	ErrUnknownSubject = errors.New("unknown subject")
)

// Validation messages.
const (
	msgFmtInstructionsCreated = "reference audio not found, recording instructions created: %s"
	msgFmtFileTooSmall        = "reference audio too small (likely empty placeholder): %s"
	msgFmtNotValidWAV         = "reference audio is not a readable WAV file: %s"
	msgFmtValidated           = "reference audio validated: %s"
)

// Store persists subject voice profiles as a human-readable JSON file in the
// reference-voices directory. Profiles are created with defaults on first
// run, mutated only through Update, and never deleted.
type Store struct {
	dir      string
	log      *logger.Logger
	mu       sync.RWMutex
	profiles map[core.Subject]Profile
}

// ProfileStatus is one row of the reporting surface produced by List.
type ProfileStatus struct {
	Subject           core.Subject `json:"subject"`
	Name              string       `json:"name"`
	Description       string       `json:"description"`
	HasReferenceAudio bool         `json:"has_reference_audio"`
	Status            string       `json:"status"`
}

// New opens the store rooted at dir, creating the directory and the default
// metadata file when they do not exist yet.
func New(dir string, log *logger.Logger) (*Store, error) {
	if err := ttsutils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to prepare reference voices directory: %w", err)
	}

	store := &Store{
		dir:      dir,
		log:      log,
		profiles: nil,
	}

	if err := store.load(); err != nil {
		return nil, err
	}

	return store, nil
}

// Dir returns the reference-voices directory the store is rooted at.
func (s *Store) Dir() string {
	return s.dir
}

// Get returns the profile for subject, falling back to the general persona
// for unknown subjects the way the narration callers expect.
func (s *Store) Get(subject core.Subject) Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if profile, ok := s.profiles[subject]; ok {
		return profile
	}

	return s.profiles[core.SubjectGeneral]
}

// Update applies a partial update (JSON field names) to the subject's
// profile and persists the store. Unknown subjects are rejected; profiles
// are only ever overwritten, never removed.
func (s *Store) Update(subject core.Subject, updates map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[subject]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSubject, subject)
	}

	patch, err := json.Marshal(updates)
	if err != nil {
		return fmt.Errorf("failed to encode profile update: %w", err)
	}

	if err := json.Unmarshal(patch, &profile); err != nil {
		return fmt.Errorf("failed to apply profile update: %w", err)
	}

	s.profiles[subject] = profile

	return s.save()
}

// ReferenceAudioPath returns the path of the subject's reference recording
// and whether the file actually exists on disk.
func (s *Store) ReferenceAudioPath(subject core.Subject) (string, bool) {
	profile := s.Get(subject)
	if profile.ReferenceAudio == "" {
		return "", false
	}

	path := filepath.Join(s.dir, profile.ReferenceAudio)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return path, false
	}

	return path, true
}

// ValidateReference checks the subject's reference recording. When the file
// is absent it writes a recording-instructions artifact next to where the
// audio should live and reports its location. The result is advisory and is
// consumed only by reporting surfaces; the synthesis path treats a missing
// reference as "use the default voice".
func (s *Store) ValidateReference(subject core.Subject) (bool, string) {
	path, exists := s.ReferenceAudioPath(subject)
	if !exists {
		instructionsPath, err := s.WriteInstructions(subject)
		if err != nil {
			s.log.Warn("Failed to write recording instructions for %s: %v", subject, err)

			return false, fmt.Sprintf("reference audio not found: %s", path)
		}

		return false, fmt.Sprintf(msgFmtInstructionsCreated, instructionsPath)
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Sprintf(msgFmtNotValidWAV, path)
	}

	if info.Size() < minReferenceBytes {
		return false, fmt.Sprintf(msgFmtFileTooSmall, path)
	}

	if !s.checkWAVHeader(subject, path) {
		return false, fmt.Sprintf(msgFmtNotValidWAV, path)
	}

	return true, fmt.Sprintf(msgFmtValidated, path)
}

// checkWAVHeader decodes the RIFF header and warns when the recording is not
// mono; the cloning engine expects a mono reference.
func (s *Store) checkWAVHeader(subject core.Subject, path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := wav.NewDecoder(file)
	decoder.ReadInfo()

	if !decoder.IsValidFile() {
		return false
	}

	if decoder.NumChans != 1 {
		s.log.Warn("Reference audio for %s has %d channels, expected mono", subject, decoder.NumChans)
	}

	return true
}

// List reports every subject profile with its reference-audio status.
func (s *Store) List() []ProfileStatus {
	statuses := make([]ProfileStatus, 0, len(core.Subjects()))

	for _, subject := range core.Subjects() {
		profile := s.Get(subject)
		ok, message := s.ValidateReference(subject)

		statuses = append(statuses, ProfileStatus{
			Subject:           subject,
			Name:              profile.Name,
			Description:       profile.Description,
			HasReferenceAudio: ok,
			Status:            message,
		})
	}

	return statuses
}

func (s *Store) metadataPath() string {
	return filepath.Join(s.dir, metadataFileName)
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.metadataPath())
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read profile metadata: %w", err)
		}

		s.profiles = defaultProfiles()

		return s.save()
	}

	profiles := make(map[core.Subject]Profile)
	if err := json.Unmarshal(data, &profiles); err != nil {
		return fmt.Errorf("failed to parse profile metadata: %w", err)
	}

	s.profiles = profiles

	return nil
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode profile metadata: %w", err)
	}

	if err := os.WriteFile(s.metadataPath(), data, metadataFilePerm); err != nil {
		return fmt.Errorf("failed to write profile metadata: %w", err)
	}

	return nil
}
