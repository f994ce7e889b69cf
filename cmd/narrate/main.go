// main package for narrate, the command-line front end to the narration
// synthesis pipeline. It drives the same manager the service uses, without
// going through NATS: one-shot synthesis, backend status, cache clearing,
// and reference-voice validation.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/book-expert/logger"
	"github.com/joho/godotenv"

	"github.com/soni0021/manim-narrator/internal/audiocache"
	"github.com/soni0021/manim-narrator/internal/backend/clone"
	"github.com/soni0021/manim-narrator/internal/backend/edge"
	"github.com/soni0021/manim-narrator/internal/backend/eleven"
	"github.com/soni0021/manim-narrator/internal/config"
	"github.com/soni0021/manim-narrator/internal/core"
	"github.com/soni0021/manim-narrator/internal/hinglish"
	"github.com/soni0021/manim-narrator/internal/manager"
	"github.com/soni0021/manim-narrator/internal/ttsutils"
	"github.com/soni0021/manim-narrator/internal/voiceprofile"
)

// Flag names.
const (
	flagText           = "text"
	flagOut            = "out"
	flagQuality        = "quality"
	flagSubject        = "subject"
	flagNoCache        = "no-cache"
	flagStatus         = "status"
	flagClearCache     = "clear-cache"
	flagValidateVoices = "validate-voices"
)

// Flag descriptions.
const (
	flagTextDesc           = "Narration text to synthesize"
	flagOutDesc            = "Output file path (.wav)"
	flagQualityDesc        = "Quality tier: fast, high, or premium"
	flagSubjectDesc        = "Subject persona: physics, chemistry, biology, or general"
	flagNoCacheDesc        = "Bypass the audio cache"
	flagStatusDesc         = "Report backend availability and exit"
	flagClearCacheDesc     = "Remove all cached audio and exit"
	flagValidateVoicesDesc = "Validate reference voice recordings and exit"
)

const (
	logFileName       = "narrate.log"
	defaultOutputFile = "narration.wav"
)

var (
	errNoAction        = errors.New("nothing to do: provide --text, --status, --clear-cache, or --validate-voices")
	errSynthesisFailed = errors.New("all speech services failed or were unavailable")
	errNotAudioPath    = errors.New("output path must have an audio extension (.wav, .mp3, .ogg)")
)

// appFlags holds the parsed command-line flag values.
type appFlags struct {
	text           string
	out            string
	quality        string
	subject        string
	noCache        bool
	status         bool
	clearCache     bool
	validateVoices bool
}

func main() {
	err := run()
	if err != nil {
		// The logger may not be initialized yet; use the standard log package.
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	flags := parseFlags()

	_ = godotenv.Load()

	bootstrapLog, err := logger.New(os.TempDir(), logFileName)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLog, err := logger.New(cfg.Paths.BaseLogsDir, logFileName)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = appLog.Close() }()

	return dispatch(cfg, appLog, flags)
}

func parseFlags() appFlags {
	var flags appFlags

	flag.StringVar(&flags.text, flagText, "", flagTextDesc)
	flag.StringVar(&flags.out, flagOut, "", flagOutDesc)
	flag.StringVar(&flags.quality, flagQuality, string(core.QualityHigh), flagQualityDesc)
	flag.StringVar(&flags.subject, flagSubject, string(core.SubjectGeneral), flagSubjectDesc)
	flag.BoolVar(&flags.noCache, flagNoCache, false, flagNoCacheDesc)
	flag.BoolVar(&flags.status, flagStatus, false, flagStatusDesc)
	flag.BoolVar(&flags.clearCache, flagClearCache, false, flagClearCacheDesc)
	flag.BoolVar(&flags.validateVoices, flagValidateVoices, false, flagValidateVoicesDesc)
	flag.Parse()

	return flags
}

func dispatch(cfg *config.Config, appLog *logger.Logger, flags appFlags) error {
	profiles, synthesisManager, err := buildPipeline(cfg, appLog)
	if err != nil {
		return err
	}

	switch {
	case flags.status:
		printStatus(synthesisManager)

		return nil
	case flags.clearCache:
		fmt.Printf("Removed %d cached audio files\n", synthesisManager.ClearCache())

		return nil
	case flags.validateVoices:
		return validateVoices(profiles)
	case flags.text != "":
		return synthesizeOnce(synthesisManager, flags)
	default:
		flag.Usage()

		return errNoAction
	}
}

// buildPipeline assembles the same synthesis stack the service runs.
func buildPipeline(cfg *config.Config, appLog *logger.Logger) (*voiceprofile.Store, *manager.Manager, error) {
	cacheDir := cfg.Paths.CacheDir
	if cacheDir == "" {
		cacheDir = ttsutils.AudioCacheDir()
	}

	cache, err := audiocache.New(cacheDir, appLog)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize audio cache: %w", err)
	}

	voicesDir := cfg.Paths.ReferenceVoicesDir
	if voicesDir == "" {
		voicesDir = "reference_voices"
	}

	profiles, err := voiceprofile.New(voicesDir, appLog)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize voice profiles: %w", err)
	}

	synthesisManager := manager.New(
		hinglish.NewProcessor(),
		profiles,
		cache,
		appLog,
		edge.New(cfg.Backends.Edge, appLog),
		clone.New(cfg.Backends.Clone, appLog),
		eleven.New(cfg.Backends.Eleven, appLog),
	)

	return profiles, synthesisManager, nil
}

func synthesizeOnce(synthesisManager *manager.Manager, flags appFlags) error {
	outputPath, err := resolveOutputPath(flags.out)
	if err != nil {
		return err
	}

	opts := manager.Options{
		Quality:  core.Quality(flags.quality),
		Subject:  core.Subject(flags.subject),
		UseCache: !flags.noCache,
	}

	started := time.Now()

	ok := synthesisManager.SynthesizeSpeech(context.Background(), flags.text, outputPath, opts)
	if !ok {
		return errSynthesisFailed
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return fmt.Errorf("synthesized audio missing at %s: %w", outputPath, err)
	}

	fmt.Printf("Generated: %s (%s in %s)\n",
		outputPath,
		ttsutils.FormatFileSize(info.Size()),
		ttsutils.FormatDuration(time.Since(started).Seconds()))

	return nil
}

// resolveOutputPath applies the default output name and rejects paths no
// audio consumer would recognize, before any synthesis work is spent.
func resolveOutputPath(flagOut string) (string, error) {
	if flagOut == "" {
		return defaultOutputFile, nil
	}

	if !ttsutils.IsAudioFile(flagOut) {
		return "", fmt.Errorf("%w: %s", errNotAudioPath, flagOut)
	}

	return flagOut, nil
}

func printStatus(synthesisManager *manager.Manager) {
	statuses := synthesisManager.GetServiceStatus()

	ids := make([]string, 0, len(statuses))
	for id := range statuses {
		ids = append(ids, string(id))
	}

	sort.Strings(ids)

	for _, id := range ids {
		status := statuses[core.BackendID(id)]

		state := "unavailable"
		if status.Available {
			state = "available"
		}

		fmt.Printf("%-8s %-12s %s\n", status.Name, state, status.Requirements)
	}
}

func validateVoices(profiles *voiceprofile.Store) error {
	for _, subject := range core.Subjects() {
		ok, detail := profiles.ValidateReference(subject)

		state := "MISSING"
		if ok {
			state = "OK"
		}

		fmt.Printf("%-10s %-8s %s\n", subject, state, detail)
	}

	return nil
}
